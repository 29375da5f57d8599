package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sitesearch/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a sitesearch configuration with an interactive wizard",
	Long:  `Runs an interactive wizard that detects your site generator and writes a .sitesearch.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
