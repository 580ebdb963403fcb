package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/excursion/internal/presentation/tui"
)

var previewCmd = &cobra.Command{
	Use:   "preview [location]",
	Short: "Render a location in the terminal",
	Long:  `Renders a location (the start location by default) with the buttons a user would see.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tour, cfg, err := loadTour(cmd)
		if err != nil {
			return err
		}

		var id string
		if len(args) > 0 {
			id = args[0]
		}
		plain, _ := cmd.Flags().GetBool("plain")
		out, err := tour.Preview(id, cfg.Labels, plain || !tui.IsTerminal(os.Stdout))
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(previewCmd)
	previewCmd.Flags().Bool("plain", false, "Disable colors")
}
