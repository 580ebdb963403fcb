package runtime

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/aretw0/excursion/pkg/domain"
	"github.com/aretw0/excursion/pkg/session"
)

// Welcome greets the user and offers the control that begins the excursion.
// The previous step's messages are replaced by the greeting and the session returns to idle.
func (e *Engine) Welcome(ctx context.Context, t domain.Target, greeting domain.Text) error {
	return e.sessions.WithSession(ctx, t.UserID, func(ctx context.Context, nav *session.Navigation) error {
		nav.ChatID = t.ChatID
		stale := nav.DrainMessageHistory()
		nav.Reset()
		nav.SetCurrent("")

		controls := []domain.Control{{
			Kind:    domain.ControlBegin,
			Label:   e.labels.Begin,
			Payload: domain.PayloadStartExcursion,
		}}
		h, err := e.transport.SendText(ctx, t.ChatID, greeting, controls, e.sendOptions())
		if err == nil {
			nav.RecordMessages(h)
		}
		e.reclaim(ctx, t.UserID, stale)
		if err != nil {
			e.logger.Error("failed to send greeting", "user_id", t.UserID, "err", err)
			return &domain.TransportError{Op: "send_text", Err: err}
		}
		return nil
	})
}

// Start resets the user's session and renders the start location.
func (e *Engine) Start(ctx context.Context, t domain.Target) (domain.View, error) {
	return e.begin(ctx, t, TransitionStart)
}

// Restart behaves exactly like Start. It is offered at terminal locations.
func (e *Engine) Restart(ctx context.Context, t domain.Target) (domain.View, error) {
	return e.begin(ctx, t, TransitionRestart)
}

func (e *Engine) begin(ctx context.Context, t domain.Target, transition string) (domain.View, error) {
	var view domain.View
	err := e.sessions.WithSession(ctx, t.UserID, func(ctx context.Context, nav *session.Navigation) error {
		nav.ChatID = t.ChatID
		start, err := e.resolver.StartLocation()
		if err != nil {
			return e.fail(ctx, t.UserID, "", err)
		}
		loc, err := e.resolve(start)
		if err != nil {
			return e.fail(ctx, t.UserID, start, err)
		}

		stale := nav.DrainMessageHistory()
		nav.Reset()
		nav.PushLocation(start)
		view, err = e.present(ctx, t, nav, loc, stale, transition)
		return err
	})
	return view, err
}

// Select renders target, either an adjacent option or a show-all jump.
// In the graph variant the target is pushed onto the back stack.
func (e *Engine) Select(ctx context.Context, t domain.Target, target string) (domain.View, error) {
	var view domain.View
	err := e.sessions.WithSession(ctx, t.UserID, func(ctx context.Context, nav *session.Navigation) error {
		nav.ChatID = t.ChatID
		if !e.known(target) {
			return e.fail(ctx, t.UserID, target, fmt.Errorf("%w: %q", domain.ErrUnknownLocation, target))
		}
		loc, err := e.resolve(target)
		if err != nil {
			return e.fail(ctx, t.UserID, target, err)
		}

		transition := TransitionSelect
		current, _ := nav.Current()
		if !slices.Contains(e.resolver.NextOptions(current), target) {
			transition = TransitionJump
		}

		// A button kept in the chat can outlive its session; the stack bottom is always the start.
		if nav.BackDepth() == 0 {
			if start, err := e.resolver.StartLocation(); err == nil {
				nav.PushLocation(start)
			}
		}
		nav.PushLocation(target)
		view, err = e.present(ctx, t, nav, loc, nil, transition)
		return err
	})
	return view, err
}

// Back renders the previous location of the back stack without re-pushing it.
// With nothing to go back to it returns domain.ErrNoPreviousLocation and changes nothing.
func (e *Engine) Back(ctx context.Context, t domain.Target) (domain.View, error) {
	var view domain.View
	err := e.sessions.WithSession(ctx, t.UserID, func(ctx context.Context, nav *session.Navigation) error {
		nav.ChatID = t.ChatID
		prev, ok := nav.Previous()
		if !ok {
			return domain.ErrNoPreviousLocation
		}
		loc, err := e.resolve(prev)
		if err != nil {
			return e.fail(ctx, t.UserID, prev, err)
		}

		nav.PopLocation()
		view, err = e.present(ctx, t, nav, loc, nil, TransitionBack)
		return err
	})
	return view, err
}

// ShowAll lists every location as a jump control.
// The list joins the current step's messages so the next render removes it.
func (e *Engine) ShowAll(ctx context.Context, t domain.Target, header domain.Text) error {
	ids, err := e.repo.ListAll()
	if err != nil {
		return &domain.ConfigurationError{Reason: "cannot list locations", Err: err}
	}
	if len(ids) == 0 {
		return &domain.ConfigurationError{Reason: "no locations available"}
	}

	var list strings.Builder
	controls := make([]domain.Control, 0, len(ids))
	for i, id := range ids {
		fmt.Fprintf(&list, "\n%d. %s", i+1, id)
		controls = append(controls, domain.Control{
			Kind:    domain.ControlJump,
			Label:   fmt.Sprintf(e.labels.Jump, id),
			Payload: domain.LocationPayload(id),
		})
	}
	header.Body = strings.TrimRight(header.Body, "\n") + "\n" + list.String()
	return e.appendText(ctx, t, header, controls)
}

// ShowMap sends the route map image. The image joins the current step's messages.
func (e *Engine) ShowMap(ctx context.Context, t domain.Target) error {
	if e.mapFile == "" {
		return domain.ErrMapUnavailable
	}
	if _, err := os.Stat(e.mapFile); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMapUnavailable, err)
	}

	return e.sessions.WithSession(ctx, t.UserID, func(ctx context.Context, nav *session.Navigation) error {
		nav.ChatID = t.ChatID
		handles, err := e.transport.SendMediaGroup(ctx, t.ChatID, []string{e.mapFile}, e.sendOptions())
		nav.RecordMessages(handles...)
		if err != nil {
			e.logger.Error("failed to send route map", "user_id", t.UserID, "err", err)
			return &domain.TransportError{Op: "send_media_group", Err: err}
		}
		return nil
	})
}

// Notify sends a short notice that joins the current step's messages.
func (e *Engine) Notify(ctx context.Context, t domain.Target, text domain.Text) error {
	return e.appendText(ctx, t, text, nil)
}

func (e *Engine) appendText(ctx context.Context, t domain.Target, text domain.Text, controls []domain.Control) error {
	return e.sessions.WithSession(ctx, t.UserID, func(ctx context.Context, nav *session.Navigation) error {
		nav.ChatID = t.ChatID
		h, err := e.transport.SendText(ctx, t.ChatID, text, controls, e.sendOptions())
		if err != nil {
			e.logger.Error("failed to send notice", "user_id", t.UserID, "err", err)
			return &domain.TransportError{Op: "send_text", Err: err}
		}
		nav.RecordMessages(h)
		return nil
	})
}
