package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var locationsCmd = &cobra.Command{
	Use:   "locations",
	Short: "List the locations of the tour",
	RunE: func(cmd *cobra.Command, args []string) error {
		tour, _, err := loadTour(cmd)
		if err != nil {
			return err
		}
		ids, err := tour.Repo.ListAll()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, id := range ids {
			var assets []string
			if n := len(tour.Repo.GetImages(id)); n > 0 {
				assets = append(assets, fmt.Sprintf("%d images", n))
			}
			if _, ok := tour.Repo.GetAudio(id); ok {
				assets = append(assets, "audio")
			}
			if _, ok := tour.Repo.GetText(id); !ok {
				assets = append(assets, "no text")
			}
			fmt.Fprintf(out, "%d. %s", i+1, id)
			if len(assets) > 0 {
				fmt.Fprintf(out, " (%s)", strings.Join(assets, ", "))
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(locationsCmd)
}
