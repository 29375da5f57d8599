package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	_, err := New(Config{Provider: ProviderOpenAI})
	assert.Error(t, err, "openai needs a key")

	e, err := New(Config{Provider: ProviderOpenAI, APIKey: "sk-test"})
	require.NoError(t, err)
	assert.Equal(t, "text-embedding-3-small", e.Name())
	assert.Equal(t, 1536, e.Dimensions())

	e, err = New(Config{Provider: ProviderOllama})
	require.NoError(t, err)
	assert.Equal(t, "ollama/nomic-embed-text", e.Name())
	assert.Equal(t, 0, e.Dimensions(), "learned from the first response")

	e, err = New(Config{Provider: ProviderOllama, Dimensions: 768})
	require.NoError(t, err)
	assert.Equal(t, 768, e.Dimensions())

	_, err = New(Config{Provider: "google"})
	assert.Error(t, err)
}

func TestOllamaEmbedBatches(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/embed", r.URL.Path)
		var req ollamaEmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		out := ollamaEmbedResponse{}
		for i := range req.Input {
			out.Embeddings = append(out.Embeddings, []float32{float32(i), 1})
		}
		_ = json.NewEncoder(w).Encode(out)
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("m", 2, srv.URL)
	vecs, err := e.Embed(context.Background(), []string{"a", "b", "c"})
	require.NoError(t, err)
	require.Len(t, vecs, 3)
	assert.Equal(t, []float32{2, 1}, vecs[2])
}

func TestOllamaEmbedStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewOllamaEmbedder("m", 2, srv.URL).Embed(context.Background(), []string{"a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestChromemFunc(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ollamaEmbedResponse{Embeddings: [][]float32{{0.6, 0.8}}})
	}))
	defer srv.Close()

	fn := ChromemFunc(NewOllamaEmbedder("m", 2, srv.URL))
	vec, err := fn(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.6, 0.8}, vec)

	_, err = ChromemFunc(NewOllamaEmbedder("m", 3, srv.URL))(context.Background(), "hello")
	assert.ErrorContains(t, err, "got 2 dimensions, want 3")
}

func TestChromemFuncEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(ollamaEmbedResponse{Embeddings: [][]float32{{}}})
	}))
	defer srv.Close()

	_, err := ChromemFunc(NewOllamaEmbedder("m", 0, srv.URL))(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrNoEmbedding)
}

func TestOllamaLearnsDimensions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ollamaEmbedRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		assert.True(t, req.Truncate)
		_ = json.NewEncoder(w).Encode(ollamaEmbedResponse{Embeddings: [][]float32{{0.1, 0.2, 0.3}}})
	}))
	defer srv.Close()

	e := NewOllamaEmbedder("m", 0, srv.URL)
	assert.Equal(t, 0, e.Dimensions())
	_, err := e.Embed(context.Background(), []string{"a"})
	require.NoError(t, err)
	assert.Equal(t, 3, e.Dimensions())
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", truncateRunes("abc", 5))
	assert.Equal(t, "ab", truncateRunes("abc", 2))
	assert.Equal(t, "猫犬", truncateRunes("猫犬鳥", 2))
}
