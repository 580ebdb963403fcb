package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/excursion/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the route visualization",
	Long:  `Loads the topology and outputs a Mermaid diagram (graph TD) of the tour.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		tour, _, err := loadTour(cmd)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(tour.Resolver, nil))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
