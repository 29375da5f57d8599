// Package backend builds the configured index implementation.
package backend

import (
	"context"
	"fmt"

	"github.com/ziadkadry99/sitesearch/internal/db"
	"github.com/ziadkadry99/sitesearch/internal/embeddings"
	"github.com/ziadkadry99/sitesearch/internal/index"
	"github.com/ziadkadry99/sitesearch/internal/index/fts"
	"github.com/ziadkadry99/sitesearch/internal/index/meili"
	"github.com/ziadkadry99/sitesearch/internal/index/memory"
	"github.com/ziadkadry99/sitesearch/internal/vectordb"
)

// Names of the available backends.
const (
	Memory = "memory"
	SQLite = "sqlite"
	Vector = "vector"
	Meili  = "meili"
)

// Config selects a backend and carries the settings each one needs.
type Config struct {
	Name      string
	Options   index.Options
	Tokenizer string

	// SQLitePath is the FTS database file; empty keeps it in memory.
	SQLitePath string

	Embedding     embeddings.Config
	MinSimilarity float32

	Meili meili.Config
}

// Open builds an empty index. The returned close function releases the
// backend's resources and is never nil.
func Open(ctx context.Context, cfg Config) (index.Index, func() error, error) {
	noop := func() error { return nil }

	switch cfg.Name {
	case "", Memory:
		tok, err := memory.NewTokenizer(cfg.Tokenizer)
		if err != nil {
			return nil, noop, fmt.Errorf("tokenizer: %w", err)
		}
		return memory.New(memory.WithTokenizer(tok), memory.WithOptions(cfg.Options)), noop, nil

	case SQLite:
		var (
			d   *db.DB
			err error
		)
		if cfg.SQLitePath == "" {
			d, err = db.OpenMemory()
		} else {
			d, err = db.Open(cfg.SQLitePath)
		}
		if err != nil {
			return nil, noop, err
		}
		idx, err := fts.New(d, cfg.Options)
		if err != nil {
			d.Close()
			return nil, noop, err
		}
		return idx, d.Close, nil

	case Vector:
		emb, err := embeddings.New(cfg.Embedding)
		if err != nil {
			return nil, noop, fmt.Errorf("embedder: %w", err)
		}
		store, err := vectordb.NewChromemStore(emb, cfg.Options,
			vectordb.WithMinSimilarity(cfg.MinSimilarity),
			vectordb.WithConcurrency(4),
		)
		if err != nil {
			return nil, noop, err
		}
		return store, noop, nil

	case Meili:
		store := meili.New(cfg.Meili, cfg.Options)
		if err := store.Health(); err != nil {
			return nil, noop, err
		}
		if err := store.EnsureIndex(ctx); err != nil {
			return nil, noop, err
		}
		return store, noop, nil

	default:
		return nil, noop, fmt.Errorf("%w %q", index.ErrUnknownBackend, cfg.Name)
	}
}
