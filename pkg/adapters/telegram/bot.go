package telegram

import (
	"context"
	"log/slog"
	"runtime/debug"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/excursion/internal/logging"
	"github.com/aretw0/excursion/pkg/dispatch"
)

// DefaultWorkers bounds concurrently handled updates.
const DefaultWorkers = 16

// DefaultPollTimeout is the long-polling timeout in seconds.
const DefaultPollTimeout = 30

// Client is the subset of *tgbotapi.BotAPI used by the update loop.
type Client interface {
	API
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Handler processes one interaction, e.g. *dispatch.Dispatcher.
type Handler interface {
	Handle(ctx context.Context, in dispatch.Interaction) error
}

// Bot runs the update loop.
type Bot struct {
	client      Client
	handler     Handler
	logger      *slog.Logger
	workers     int
	pollTimeout int
}

// Option configures the Bot.
type Option func(*Bot)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithWorkers bounds concurrently handled updates.
func WithWorkers(n int) Option {
	return func(b *Bot) {
		if n > 0 {
			b.workers = n
		}
	}
}

// WithPollTimeout sets the long-polling timeout in seconds.
func WithPollTimeout(seconds int) Option {
	return func(b *Bot) {
		if seconds >= 0 {
			b.pollTimeout = seconds
		}
	}
}

// NewBot creates the update loop.
func NewBot(client Client, handler Handler, opts ...Option) *Bot {
	b := &Bot{
		client:      client,
		handler:     handler,
		logger:      logging.NewNop(),
		workers:     DefaultWorkers,
		pollTimeout: DefaultPollTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// RegisterCommands publishes the command menu.
func (b *Bot) RegisterCommands(commands []dispatch.Command) error {
	cmds := make([]tgbotapi.BotCommand, 0, len(commands))
	for _, c := range commands {
		cmds = append(cmds, tgbotapi.BotCommand{Command: c.Name, Description: c.Description})
	}
	_, err := b.client.Request(tgbotapi.NewSetMyCommands(cmds...))
	return err
}

// Run polls for updates until ctx is done. Handler errors are logged, never returned.
// Updates are handled concurrently; the session registry serializes each user.
func (b *Bot) Run(ctx context.Context) error {
	if err := b.RegisterCommands(dispatch.Commands()); err != nil {
		b.logger.Warn("failed to register command menu", "err", err)
	} else {
		b.logger.Info("command menu registered")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.pollTimeout
	updates := b.client.GetUpdatesChan(u)

	var g errgroup.Group
	g.SetLimit(b.workers)
	defer func() { _ = g.Wait() }()

	b.logger.Info("bot started", "workers", b.workers)
	for {
		select {
		case <-ctx.Done():
			b.client.StopReceivingUpdates()
			b.logger.Info("bot stopping")
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			g.Go(func() error {
				b.handleUpdate(ctx, upd)
				return nil
			})
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, upd tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("panic while handling update",
				"update_id", upd.UpdateID,
				"panic", r,
				"stack", string(debug.Stack()),
			)
		}
	}()

	if q := upd.CallbackQuery; q != nil {
		// Stop the client's loading indicator before rendering.
		if _, err := b.client.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
			b.logger.Debug("failed to answer callback", "err", err)
		}
	}

	in, ok := ToInteraction(upd)
	if !ok {
		b.logger.Debug("update ignored", "update_id", upd.UpdateID)
		return
	}
	if err := b.handler.Handle(ctx, in); err != nil {
		b.logger.Warn("interaction failed",
			"update_id", upd.UpdateID,
			"user_id", in.UserID,
			"err", err,
		)
	}
}
