package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sitesearch/internal/frontmatter"
)

var frontmatterCmd = &cobra.Command{
	Use:   "frontmatter [content-dir]",
	Short: "Convert TOML front matter to YAML",
	Long: `Rewrites every matching content file whose front matter is a TOML (+++)
block into an equivalent YAML (---) block. Page bodies are left untouched.
Defaults to the configured content directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var dir string
		if len(args) == 1 {
			dir = args[0]
		} else {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			dir = cfg.ContentDir
		}
		pattern, _ := cmd.Flags().GetString("pattern")

		changed, err := frontmatter.ConvertTree(dir, pattern)
		for _, path := range changed {
			fmt.Println(path)
		}
		if err != nil {
			return err
		}
		fmt.Printf("Converted %d file(s)\n", len(changed))
		return nil
	},
}

func init() {
	frontmatterCmd.Flags().String("pattern", "**/*.md", "glob of files to convert, relative to the content directory")
	rootCmd.AddCommand(frontmatterCmd)
}
