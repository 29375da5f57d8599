package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/ziadkadry99/sitesearch/internal/config"
	"github.com/ziadkadry99/sitesearch/internal/embeddings"
	"github.com/ziadkadry99/sitesearch/internal/index"
	"github.com/ziadkadry99/sitesearch/internal/index/backend"
	"github.com/ziadkadry99/sitesearch/internal/index/meili"
	"github.com/ziadkadry99/sitesearch/internal/loader"
	"github.com/ziadkadry99/sitesearch/internal/logger"
	"github.com/ziadkadry99/sitesearch/internal/metrics"
	"github.com/ziadkadry99/sitesearch/internal/widget"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `sitesearch init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// newLogger builds the process logger; --verbose forces debug output.
func newLogger(cfg *config.Config) zerolog.Logger {
	lc := logger.Config{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty}
	if verbose {
		lc.Level = "debug"
		lc.Pretty = true
	}
	return logger.Init(lc)
}

// backendConfig maps the index settings onto the backend factory.
func backendConfig(cfg *config.Config) backend.Config {
	opts := index.DefaultOptions()
	opts.Suggest = cfg.Index.Suggest
	if cfg.Index.Limit > 0 {
		opts.Limit = cfg.Index.Limit
	}
	if cfg.Index.Window > 0 {
		opts.Window = cfg.Index.Window
	}

	emb := embeddings.Config{
		Provider:   cfg.Embedding.Provider,
		Model:      cfg.Embedding.Model,
		BaseURL:    cfg.Embedding.BaseURL,
		Dimensions: cfg.Embedding.Dimensions,
	}
	if envVar := config.APIKeyEnvVar(cfg.Embedding.Provider); envVar != "" {
		emb.APIKey = os.Getenv(envVar)
	}

	apiKey := cfg.Meili.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("MEILI_MASTER_KEY")
	}

	return backend.Config{
		Name:          string(cfg.Index.Backend),
		Options:       opts,
		Tokenizer:     cfg.Index.Tokenizer,
		SQLitePath:    cfg.Index.SQLitePath,
		Embedding:     emb,
		MinSimilarity: cfg.Embedding.MinSimilarity,
		Meili: meili.Config{
			Host:   cfg.Meili.Host,
			APIKey: apiKey,
			Index:  cfg.Meili.Index,
		},
	}
}

// openWidget wires the configured backend and data source into a widget.
// source overrides cfg.DataSource when non-empty. The close function must be
// called once the widget is no longer used.
func openWidget(ctx context.Context, cfg *config.Config, source string, log zerolog.Logger, m *metrics.Metrics) (*widget.Widget, func() error, error) {
	if source == "" {
		source = cfg.DataSource
	}
	l, err := loader.New(source,
		loader.WithS3Region(cfg.S3.Region),
		loader.WithS3Endpoint(cfg.S3.Endpoint),
	)
	if err != nil {
		return nil, nil, err
	}

	idx, closeIndex, err := backend.Open(ctx, backendConfig(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s index: %w", cfg.Index.Backend, err)
	}

	w := widget.New(l, idx,
		widget.WithLogger(logger.Component(log, "widget")),
		widget.WithMetrics(m),
		widget.WithMinQueryLength(cfg.Widget.MinQueryLength),
		widget.WithDefaultImage(cfg.Widget.DefaultImage),
		widget.WithDateLayout(cfg.Widget.DateLayout),
	)
	log.Debug().
		Str("backend", string(cfg.Index.Backend)).
		Str("source", source).
		Str("session", w.Session().String()).
		Msg("widget ready")
	return w, closeIndex, nil
}
