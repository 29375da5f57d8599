package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sitesearch/internal/logger"
	"github.com/ziadkadry99/sitesearch/internal/progress"
	"github.com/ziadkadry99/sitesearch/internal/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the search document set from the site's content",
	Long: `Walks the content directory, reads each page's front matter and body,
and writes the JSON document set (title, url, description, content, image,
date) the search widget loads.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("output", "o", "", "output file (overrides output)")
	buildCmd.Flags().String("base-url", "", "prefix for page URLs (overrides base_url)")
	buildCmd.Flags().BoolP("quiet", "q", false, "do not show progress")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.Output = out
	}
	if base, _ := cmd.Flags().GetString("base-url"); base != "" {
		cfg.BaseURL = base
	}
	quiet, _ := cmd.Flags().GetBool("quiet")

	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var reporter progress.Reporter = progress.Nop{}
	if !quiet {
		reporter = progress.NewReporter("Indexing pages")
	}

	b := &site.Builder{
		ContentDir: cfg.ContentDir,
		Include:    cfg.Include,
		Exclude:    cfg.Exclude,
		Workers:    cfg.Workers,
		BaseURL:    cfg.BaseURL,
		Reporter:   reporter,
		Log:        logger.Component(log, "build"),
	}

	start := time.Now()
	docs, err := b.Build(ctx)
	if err != nil {
		return fmt.Errorf("building document set: %w", err)
	}
	if err := site.Write(cfg.Output, docs); err != nil {
		return err
	}

	fmt.Printf("Wrote %d documents to %s in %s\n", len(docs), cfg.Output, time.Since(start).Round(time.Millisecond))
	return nil
}
