package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/excursion/internal/logging"
	"github.com/aretw0/excursion/pkg/domain"
	"github.com/aretw0/excursion/pkg/ports"
)

// Command names understood by the Dispatcher.
const (
	CommandStart   = "start"
	CommandShowAll = "show_all_locations"
	CommandMap     = "map"
	CommandHelp    = "help"
	CommandRestart = "restart"
)

const defaultUserName = "traveller"

// Command is an entry of the bot's command menu.
type Command struct {
	Name        string
	Description string
}

// Commands returns the menu registered with the chat platform.
func Commands() []Command {
	return []Command{
		{Name: CommandStart, Description: "Start the bot"},
		{Name: CommandShowAll, Description: "Show all locations"},
		{Name: CommandMap, Description: "Show the route map"},
		{Name: CommandRestart, Description: "Start the excursion over"},
		{Name: CommandHelp, Description: "Show help"},
	}
}

// Interaction is one inbound user action, already stripped of platform details.
// Exactly one of Command, Payload or Text is set.
type Interaction struct {
	UserID    int64
	ChatID    int64
	FirstName string
	UserName  string
	Command   string // without the leading slash
	Payload   string // button payload
	Text      string
}

// Target returns the user and chat the interaction came from.
func (in Interaction) Target() domain.Target {
	return domain.Target{UserID: in.UserID, ChatID: in.ChatID}
}

func (in Interaction) action() (string, string) {
	switch {
	case in.Command != "":
		return ports.ActionCommand, "/" + in.Command
	case in.Payload != "":
		return ports.ActionButton, in.Payload
	default:
		return ports.ActionText, in.Text
	}
}

// Navigator is the controller surface driven by the Dispatcher.
type Navigator interface {
	Welcome(ctx context.Context, t domain.Target, greeting domain.Text) error
	Start(ctx context.Context, t domain.Target) (domain.View, error)
	Restart(ctx context.Context, t domain.Target) (domain.View, error)
	Select(ctx context.Context, t domain.Target, target string) (domain.View, error)
	Back(ctx context.Context, t domain.Target) (domain.View, error)
	ShowAll(ctx context.Context, t domain.Target, header domain.Text) error
	ShowMap(ctx context.Context, t domain.Target) error
	Notify(ctx context.Context, t domain.Target, text domain.Text) error
}

// Observer counts interactions, e.g. observability.Metrics.
type Observer interface {
	ObserveInteraction(action string)
}

// Dispatcher routes interactions to a Navigator.
type Dispatcher struct {
	nav      Navigator
	journal  ports.ActionJournal
	observer Observer
	messages Messages
	logger   *slog.Logger
	now      func() time.Time
	maxInput int
}

// Option configures the Dispatcher.
type Option func(*Dispatcher)

// WithJournal records every interaction.
func WithJournal(j ports.ActionJournal) Option {
	return func(d *Dispatcher) {
		if j != nil {
			d.journal = j
		}
	}
}

// WithObserver counts every interaction.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) {
		d.observer = o
	}
}

// WithMessages overrides texts. Empty fields keep their defaults.
func WithMessages(m Messages) Option {
	return func(d *Dispatcher) {
		d.messages = m.merge(DefaultMessages())
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithMaxInputSize bounds the bytes accepted in a single text, command or payload.
func WithMaxInputSize(n int) Option {
	return func(d *Dispatcher) {
		if n > 0 {
			d.maxInput = n
		}
	}
}

// WithClock overrides time.Now (used in tests).
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
	}
}

// New creates a Dispatcher.
func New(nav Navigator, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		nav:      nav,
		journal:  ports.NopJournal{},
		messages: DefaultMessages(),
		logger:   logging.NewNop(),
		now:      time.Now,
		maxInput: DefaultMaxInputSize,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Handle processes one interaction. Navigation errors the user can act on are turned
// into notices and not returned; the remaining errors are returned after the user was told.
func (d *Dispatcher) Handle(ctx context.Context, in Interaction) error {
	in, err := in.sanitize(d.maxInput)
	if err != nil {
		d.logger.Warn("input rejected", "user_id", in.UserID, "err", err)
		return d.notify(ctx, in.Target(), d.messages.UnsupportedInput)
	}

	action, details := in.action()
	logger := d.logger.With(
		"interaction_id", uuid.NewString(),
		"user_id", in.UserID,
		"action", action,
	)
	logger.Debug("interaction received", "details", details)

	if d.observer != nil {
		d.observer.ObserveInteraction(action)
	}
	if err := d.journal.Record(ctx, ports.JournalEntry{
		Time:    d.now(),
		UserID:  in.UserID,
		Action:  action,
		Details: details,
	}); err != nil {
		logger.Warn("failed to record action", "err", err)
	}

	err = d.route(ctx, in, logger)
	if err == nil {
		return nil
	}
	return d.report(ctx, in.Target(), err, logger)
}

func (d *Dispatcher) route(ctx context.Context, in Interaction, logger *slog.Logger) error {
	t := in.Target()

	switch {
	case in.Command != "":
		switch in.Command {
		case CommandStart:
			return d.nav.Welcome(ctx, t, domain.Text{Body: fmt.Sprintf(d.messages.Greeting, displayName(in))})
		case CommandShowAll:
			return d.nav.ShowAll(ctx, t, domain.Text{Body: d.messages.AllLocations})
		case CommandMap:
			return d.nav.ShowMap(ctx, t)
		case CommandRestart:
			// Typed alias of the begin button, usable from any state.
			_, err := d.nav.Restart(ctx, t)
			return err
		case CommandHelp:
			return d.notify(ctx, t, d.messages.Help)
		default:
			return d.notify(ctx, t, d.messages.UnknownCommand)
		}

	case in.Payload == domain.PayloadStartExcursion:
		_, err := d.nav.Start(ctx, t)
		return err

	case in.Payload == domain.PayloadBackNavigation:
		_, err := d.nav.Back(ctx, t)
		return err

	case in.Payload != "":
		id, ok := domain.ParseLocationPayload(in.Payload)
		if !ok {
			logger.Warn("unrecognized payload", "payload", in.Payload)
			return nil
		}
		_, err := d.nav.Select(ctx, t, id)
		return err

	default:
		return d.notify(ctx, t, d.messages.UnsupportedInput)
	}
}

// report tells the user about err. Expected outcomes are swallowed.
func (d *Dispatcher) report(ctx context.Context, t domain.Target, err error, logger *slog.Logger) error {
	var (
		missing   *domain.ContentMissingError
		config    *domain.ConfigurationError
		transport *domain.TransportError
		notice    string
		expected  bool
	)
	switch {
	case errors.Is(err, domain.ErrNoPreviousLocation):
		notice, expected = d.messages.NoPrevious, true
	case errors.Is(err, domain.ErrUnknownLocation):
		notice, expected = d.messages.UnknownLocation, true
	case errors.Is(err, domain.ErrMapUnavailable):
		notice, expected = d.messages.MapNotFound, true
	case errors.As(err, &missing):
		notice = d.messages.ContentMissing
	case errors.As(err, &config):
		notice = d.messages.NoLocations
	case errors.As(err, &transport):
		notice = d.messages.DeliveryFailed
	default:
		notice = d.messages.DeliveryFailed
	}

	if expected {
		logger.Info("navigation refused", "reason", err)
	} else {
		logger.Error("interaction failed", "err", err)
	}

	if nerr := d.notify(ctx, t, notice); nerr != nil {
		logger.Error("failed to send notice", "err", nerr)
	}
	if expected {
		return nil
	}
	return err
}

func (d *Dispatcher) notify(ctx context.Context, t domain.Target, text string) error {
	return d.nav.Notify(ctx, t, domain.Text{Body: text})
}

func displayName(in Interaction) string {
	if name := strings.TrimSpace(in.FirstName); name != "" {
		return name
	}
	if in.UserName != "" {
		return "@" + in.UserName
	}
	return defaultUserName
}
