package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/excursion"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of excursion",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "excursion version %s\n", strings.TrimSpace(excursion.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
