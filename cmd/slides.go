package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sitesearch/internal/slides"
)

var slidesCmd = &cobra.Command{
	Use:   "slides [slides-dir]",
	Short: "Rewrite relative links in exported slide decks",
	Long: `Replaces "../.." in every HTML file below <slides-dir>/<section>/docs with
"/<section>" so exported decks resolve their assets when served from the
site's static root.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "static/slides"
		if len(args) == 1 {
			dir = args[0]
		}
		changed, err := slides.FixLinks(dir)
		for _, path := range changed {
			fmt.Println(path)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Rewrote %d file(s)\n", len(changed))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(slidesCmd)
}
