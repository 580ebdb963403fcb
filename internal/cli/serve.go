package cli

import (
	"context"
	"fmt"
	"log/slog"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/excursion/internal/config"
	httpAdapter "github.com/aretw0/excursion/pkg/adapters/http"
	"github.com/aretw0/excursion/pkg/adapters/telegram"
)

// Serve connects to Telegram and runs the bot until ctx is done.
// The operations API runs alongside when http.addr is set.
func Serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if err := cfg.RequireToken(); err != nil {
		return err
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return fmt.Errorf("failed to connect to telegram: %w", err)
	}
	logger.Info("authorized", "bot", api.Self.UserName)

	svc, err := Build(cfg, telegram.NewTransport(api), logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Warn("failed to close redis client", "err", err)
		}
	}()

	return Run(ctx, svc, api, cfg, logger)
}

// Run drives the update loop of client and, when configured, the operations API.
// The first failure stops both.
func Run(ctx context.Context, svc *Services, client telegram.Client, cfg *config.Config, logger *slog.Logger) error {
	bot := telegram.NewBot(client, svc.Dispatcher,
		telegram.WithLogger(logger),
		telegram.WithWorkers(cfg.Workers),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return bot.Run(gctx)
	})
	if cfg.HTTP.Addr != "" {
		g.Go(func() error {
			return httpAdapter.ListenAndServe(gctx, cfg.HTTP.Addr, svc.Handler(), logger)
		})
	}
	return g.Wait()
}
