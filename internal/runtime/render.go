package runtime

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/aretw0/excursion/pkg/domain"
	"github.com/aretw0/excursion/pkg/route"
	"github.com/aretw0/excursion/pkg/session"
)

// present sends loc to the user, reclaims the previous step's messages and makes loc current.
// stale carries handles drained before the caller reset the session.
func (e *Engine) present(
	ctx context.Context,
	t domain.Target,
	nav *session.Navigation,
	loc domain.Location,
	stale []domain.MessageHandle,
	transition string,
) (domain.View, error) {
	started := e.now()
	view, controls := e.affordances(nav, loc.ID)

	// Stage the new batch first; old handles are only reclaimed afterwards.
	stale = append(stale, nav.DrainMessageHistory()...)
	sendErr := e.deliver(ctx, t, nav, loc, controls, &view)

	e.reclaim(ctx, t.UserID, stale)
	nav.SetCurrent(loc.ID)

	if sendErr != nil {
		return view, e.fail(ctx, t.UserID, loc.ID, sendErr)
	}

	e.logger.Debug("location rendered",
		"user_id", t.UserID,
		"location_id", loc.ID,
		"transition", transition,
		"degraded", view.Degraded,
	)
	e.emitLocationEnter(ctx, t.UserID, view, transition, e.now().Sub(started))
	return view, nil
}

// affordances computes the view and controls offered at location id.
func (e *Engine) affordances(nav *session.Navigation, id string) (domain.View, []domain.Control) {
	view := domain.View{
		LocationID: id,
		Options:    e.resolver.NextOptions(id),
		CanGoBack:  e.resolver.Variant() == route.VariantGraph && nav.BackDepth() > 1,
		Terminal:   e.resolver.IsTerminal(id),
	}
	return view, Controls(e.resolver, e.labels, id, view.CanGoBack)
}

// Controls returns the controls of location id: one forward control per next option,
// back when canGoBack holds and restart when id ends the tour.
func Controls(r route.Resolver, labels Labels, id string, canGoBack bool) []domain.Control {
	options := r.NextOptions(id)
	controls := make([]domain.Control, 0, len(options)+2)
	for _, next := range options {
		controls = append(controls, domain.Control{
			Kind:    domain.ControlForward,
			Label:   fmt.Sprintf(labels.Next, next),
			Payload: domain.LocationPayload(next),
		})
	}
	if canGoBack {
		controls = append(controls, domain.Control{
			Kind:    domain.ControlBack,
			Label:   labels.Back,
			Payload: domain.PayloadBackNavigation,
		})
	}
	if r.IsTerminal(id) {
		controls = append(controls, domain.Control{
			Kind:    domain.ControlRestart,
			Label:   labels.Restart,
			Payload: domain.PayloadStartExcursion,
		})
	}
	return controls
}

// deliver sends images, text and audio in that order, recording each handle as it lands.
// Only a failed text send is an error; images and audio degrade the view.
func (e *Engine) deliver(
	ctx context.Context,
	t domain.Target,
	nav *session.Navigation,
	loc domain.Location,
	controls []domain.Control,
	view *domain.View,
) error {
	opts := e.sendOptions()

	if len(loc.Images) > 0 {
		handles, err := e.transport.SendMediaGroup(ctx, t.ChatID, loc.Images, opts)
		nav.RecordMessages(handles...)
		if err != nil {
			view.Degraded = true
			e.logger.Warn("failed to send images, continuing with text",
				"user_id", t.UserID,
				"location_id", loc.ID,
				"err", err,
			)
		}
	}

	text := domain.Text{Title: loc.ID, Body: loc.Text}
	h, err := e.transport.SendText(ctx, t.ChatID, text, controls, opts)
	if err != nil {
		e.logger.Error("failed to send location text",
			"user_id", t.UserID,
			"location_id", loc.ID,
			"err", err,
		)
		return &domain.TransportError{Op: "send_text", Err: err}
	}
	nav.RecordMessages(h)

	if loc.HasAudio() {
		h, err := e.transport.SendAudio(ctx, t.ChatID, loc.Audio, opts)
		if err != nil {
			view.Degraded = true
			e.logger.Warn("failed to send audio",
				"user_id", t.UserID,
				"location_id", loc.ID,
				"err", err,
			)
			return nil
		}
		nav.RecordMessages(h)
	}
	return nil
}

// reclaim deletes stale handles concurrently. Failures are logged and never abort the transition.
func (e *Engine) reclaim(ctx context.Context, userID int64, stale []domain.MessageHandle) {
	if len(stale) == 0 {
		return
	}
	// Deletion must run even when the inbound request was cancelled mid-render.
	ctx = context.WithoutCancel(ctx)

	var g errgroup.Group
	g.SetLimit(e.deleteConcurrency)
	for _, h := range stale {
		g.Go(func() error {
			if err := e.transport.DeleteMessage(ctx, h); err != nil {
				e.logger.Warn("failed to delete message",
					"user_id", userID,
					"chat_id", h.ChatID,
					"message_id", h.MessageID,
					"err", err,
				)
				e.emitDeleteFailed(ctx, userID, err)
			}
			return nil
		})
	}
	_ = g.Wait()
}
