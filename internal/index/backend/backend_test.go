package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/sitesearch/internal/document"
	"github.com/ziadkadry99/sitesearch/internal/embeddings"
	"github.com/ziadkadry99/sitesearch/internal/index"
	"github.com/ziadkadry99/sitesearch/internal/index/fts"
	"github.com/ziadkadry99/sitesearch/internal/index/memory"
	"github.com/ziadkadry99/sitesearch/internal/vectordb"
)

func TestOpenMemory(t *testing.T) {
	idx, closeFn, err := Open(context.Background(), Config{Options: index.DefaultOptions()})
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &memory.Index{}, idx)
}

func TestOpenSQLite(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "search.db")
	idx, closeFn, err := Open(ctx, Config{Name: SQLite, SQLitePath: path, Options: index.DefaultOptions()})
	require.NoError(t, err)
	defer closeFn()
	require.IsType(t, &fts.Index{}, idx)

	require.NoError(t, idx.Add(ctx, document.Document{URL: "/a/", Title: "Cats"}))
	results, err := idx.Query(ctx, "cat")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestOpenVector(t *testing.T) {
	idx, closeFn, err := Open(context.Background(), Config{
		Name:      Vector,
		Options:   index.DefaultOptions(),
		Embedding: embeddings.Config{Provider: embeddings.ProviderOllama, BaseURL: "http://127.0.0.1:1"},
	})
	require.NoError(t, err)
	defer closeFn()
	assert.IsType(t, &vectordb.ChromemStore{}, idx)
}

func TestOpenVectorBadProvider(t *testing.T) {
	_, _, err := Open(context.Background(), Config{Name: Vector, Embedding: embeddings.Config{Provider: "google"}})
	assert.Error(t, err)
}

func TestOpenUnknown(t *testing.T) {
	_, closeFn, err := Open(context.Background(), Config{Name: "elastic"})
	assert.ErrorIs(t, err, index.ErrUnknownBackend)
	assert.NotNil(t, closeFn)
}

func TestOpenBadTokenizer(t *testing.T) {
	_, _, err := Open(context.Background(), Config{Tokenizer: "bigram"})
	assert.Error(t, err)
}
