package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/ziadkadry99/sitesearch/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the MCP server for AI agent integration",
	Long:  `Starts a Model Context Protocol (MCP) server on stdio exposing a search_site tool over the site's document set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		source, _ := cmd.Flags().GetString("source")

		// Stdout carries the protocol; logs stay on stderr.
		log := newLogger(cfg)

		w, closeIndex, err := openWidget(context.Background(), cfg, source, log, nil)
		if err != nil {
			return err
		}
		defer closeIndex()

		mcpserver.Version = Version
		fmt.Fprintf(os.Stderr, "sitesearch MCP server started on stdio (backend=%s)\n", cfg.Index.Backend)

		return mcpserver.NewServer(w).Serve()
	},
}

func init() {
	mcpCmd.Flags().String("source", "", "document set location (overrides data_source)")
	rootCmd.AddCommand(mcpCmd)
}
