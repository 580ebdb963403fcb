package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/excursion"
	"github.com/aretw0/excursion/internal/cli"
	"github.com/aretw0/excursion/internal/presentation/tui"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot",
	Long: `Connects to Telegram with the configured token (BOT_TOKEN) and serves the tour
until interrupted. When http.addr is set, the operations API (/health, /metrics,
/graph, /locations, /sessions) is served alongside.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd)
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("http"); addr != "" {
			cfg.HTTP.Addr = addr
		}

		if tui.IsTerminal(os.Stdout) {
			tui.PrintBanner(os.Stdout)
			cli.PrintSystemMessage(os.Stdout, "excursion %s serving %s (%s)", excursion.Version, cfg.DataDir, cfg.Variant)
		}

		ctx := cli.NewSignalContext(context.Background())
		defer ctx.Cancel()

		if err := cli.Serve(ctx, cfg, logger); err != nil {
			return err
		}
		if sig := ctx.Signal(); sig != nil {
			logger.Info("bot stopped", "signal", sig.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("http", "", "Address of the operations API, e.g. :8080")
}
