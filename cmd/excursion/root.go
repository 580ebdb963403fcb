package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/excursion/internal/cli"
	"github.com/aretw0/excursion/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "excursion",
	Short: "Excursion is a guided-tour chat bot",
	Long: `Excursion walks chat users through a tour of locations (text, images and audio),
either in alphabetical order or along a route graph, and keeps the chat clean by
replacing the previous step's messages at every move.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to the YAML configuration file")
	rootCmd.PersistentFlags().String("data", "", "Directory holding one sub-directory per location")
	rootCmd.PersistentFlags().String("variant", "", "Navigation variant: linear or graph")
	rootCmd.PersistentFlags().String("routes", "", "Route document for the graph variant")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// loadConfig reads the configuration file and environment, then applies the flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	overrides := map[string]*string{
		"data":    &cfg.DataDir,
		"variant": &cfg.Variant,
		"routes":  &cfg.Routes,
	}
	for name, dst := range overrides {
		if cmd.Flags().Changed(name) {
			*dst, _ = cmd.Flags().GetString(name)
		}
	}
	return cfg, nil
}

// setup loads the configuration and the logger every command starts from.
func setup(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	debug, _ := cmd.Flags().GetBool("debug")
	logger, err := cli.NewLogger(os.Stderr, cfg.Log, debug)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// loadTour validates the configuration and scans the tour it names.
func loadTour(cmd *cobra.Command) (*cli.Tour, *config.Config, error) {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	tour, err := cli.LoadTour(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return tour, cfg, nil
}
