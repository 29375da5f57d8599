package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sitesearch/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "sitesearch",
	Short: "Instant search for static sites",
	Long: `sitesearch builds a JSON index of a static site's content pages and
serves search-as-you-type results for it: highlighted, deduplicated result
cards rendered as HTML fragments, a JSON API, a live websocket feed and an
MCP tool for AI agents.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
