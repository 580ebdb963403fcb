package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/excursion/pkg/domain"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the tour for consistency",
	Long: `Scans the data directory, loads the topology and reports unresolved locations,
payloads too long for buttons, locations without text and locations unreachable from the start.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tour, _, err := loadTour(cmd)
		if err != nil {
			return err
		}

		rep := tour.Check()
		out := cmd.OutOrStdout()
		if len(rep.NoText) > 0 {
			fmt.Fprintf(out, "⚠️  locations without text: %s\n", strings.Join(rep.NoText, ", "))
		}
		if len(rep.Unreachable) > 0 {
			fmt.Fprintf(out, "⚠️  unreachable from start: %s\n", strings.Join(rep.Unreachable, ", "))
		}
		if len(rep.Oversized) > 0 {
			fmt.Fprintf(out, "❌ ids too long for a %d-byte button payload: %s\n",
				domain.MaxPayloadBytes, strings.Join(rep.Oversized, ", "))
		}

		if !rep.OK() {
			if rep.Err != nil {
				return fmt.Errorf("validation failed: %w", rep.Err)
			}
			return errors.New("validation failed")
		}
		fmt.Fprintf(out, "Tour is valid! ✅ (%d locations, %s)\n", rep.Locations, tour.Resolver.Variant())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
