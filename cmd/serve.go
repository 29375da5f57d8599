package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/sitesearch/internal/logger"
	"github.com/ziadkadry99/sitesearch/internal/metrics"
	"github.com/ziadkadry99/sitesearch/internal/server"
	"github.com/ziadkadry99/sitesearch/internal/widget"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site with search endpoints",
	Long: `Starts an HTTP server that serves the built site and answers search
requests: /search returns the result list as an HTML fragment, /api/search
as JSON, and /search/live streams results over a websocket.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Int("port", 0, "port to listen on (overrides server.port)")
	serveCmd.Flags().String("source", "", "document set location (overrides data_source)")
	serveCmd.Flags().Bool("preload", false, "load the document set before accepting requests")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Server.Port = port
	}
	source, _ := cmd.Flags().GetString("source")
	preload, _ := cmd.Flags().GetBool("preload")

	log := newLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	w, closeIndex, err := openWidget(ctx, cfg, source, log, m)
	if err != nil {
		return err
	}
	defer closeIndex()

	checkHostPage(cfg.SiteDir, log)

	if preload {
		if err := w.LoadData(ctx); err != nil {
			return fmt.Errorf("preloading document set: %w", err)
		}
	}

	srv, err := server.New(server.Config{
		Addr:            cfg.Server.Addr(),
		SiteDir:         cfg.SiteDir,
		CORSOrigins:     cfg.Server.CORSOrigins,
		RequestTimeout:  cfg.Server.RequestTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, w,
		server.WithLogger(logger.Component(log, "server")),
		server.WithMetrics(m, reg),
	)
	if err != nil {
		if errors.Is(err, server.ErrSiteDirMissing) {
			return fmt.Errorf("%w\nRun your site generator first, or set site_dir in %s", err, cfgFile)
		}
		return err
	}

	fmt.Printf("Serving %s on http://localhost:%d\n", cfg.SiteDir, cfg.Server.Port)
	return srv.Run(ctx)
}

// checkHostPage warns when the site's index page lacks the search elements.
func checkHostPage(siteDir string, log zerolog.Logger) {
	page := filepath.Join(siteDir, "index.html")
	f, err := os.Open(page)
	if err != nil {
		return
	}
	defer f.Close()
	if err := widget.CheckHostPage(f); err != nil {
		log.Warn().Err(err).Str("page", page).Msg("search box will not bind on this page")
	}
}
