package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziadkadry99/sitesearch/internal/document"
	"github.com/ziadkadry99/sitesearch/internal/index"
)

func sampleDocs() []document.Document {
	return []document.Document{
		{URL: "/cats/", Title: "Cats and Dogs", Description: "Living with pets", Content: "A cat and a dog share a house."},
		{URL: "/category/", Title: "Category Theory", Description: "Functors for everyone", Content: "Objects and arrows."},
		{URL: "/go/", Title: "Learning Go", Description: "Goroutines and channels", Content: "Concurrency is not parallelism."},
	}
}

func newLoaded(t *testing.T, opts ...Option) *Index {
	t.Helper()
	idx := New(opts...)
	require.NoError(t, idx.AddBatch(context.Background(), sampleDocs()))
	return idx
}

func urls(results []index.Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Document.URL
	}
	return out
}

func TestQueryPrefixMatchesTitles(t *testing.T) {
	idx := newLoaded(t)

	results, err := idx.Query(context.Background(), "cat")
	require.NoError(t, err)
	require.NotEmpty(t, results)

	// Title group first, insertion order on equal score.
	assert.Equal(t, index.FieldTitle, results[0].Field)
	assert.Equal(t, "/cats/", results[0].Document.URL)
	assert.Equal(t, "/category/", results[1].Document.URL)
	assert.Equal(t, "<mark>Cat</mark>s and Dogs", results[0].Highlight.HTML())
	assert.Equal(t, "<mark>Cat</mark>egory Theory", results[1].Highlight.HTML())

	// The content group repeats /cats/; de-duplication is the widget's job.
	assert.Contains(t, urls(results[2:]), "/cats/")
}

func TestQueryExactOutranksPrefix(t *testing.T) {
	idx := New()
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, document.Document{URL: "/a/", Title: "Gopher tales"}))
	require.NoError(t, idx.Add(ctx, document.Document{URL: "/b/", Title: "Go basics"}))

	results, err := idx.Query(ctx, "go")
	require.NoError(t, err)
	assert.Equal(t, []string{"/b/", "/a/"}, urls(results))
}

func TestQueryAllTermsRequired(t *testing.T) {
	idx := newLoaded(t)

	results, err := idx.Query(context.Background(), "learning go")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "/go/", results[0].Document.URL)
	for _, r := range results {
		if r.Field == index.FieldTitle {
			assert.Equal(t, "/go/", r.Document.URL)
		}
	}
}

func TestQuerySuggestFallsBackToPartialMatches(t *testing.T) {
	idx := newLoaded(t)

	results, err := idx.Query(context.Background(), "category zebra")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "/category/", results[0].Document.URL)

	strict := newLoaded(t, WithOptions(index.Options{Enrich: true, Highlight: true}))
	results, err = strict.Query(context.Background(), "category zebra")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestQueryFuzzyCorrectsTypos(t *testing.T) {
	idx := newLoaded(t)

	results, err := idx.Query(context.Background(), "thoery")
	require.NoError(t, err)
	require.Empty(t, results, "transposition is two edits")

	results, err = idx.Query(context.Background(), "thxory")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "/category/", results[0].Document.URL)
	assert.Equal(t, "Category <mark>Theory</mark>", results[0].Highlight.HTML())
}

func TestQueryWithoutEnrichmentKeepsOnlyURL(t *testing.T) {
	idx := newLoaded(t, WithOptions(index.Options{Highlight: true}))

	results, err := idx.Query(context.Background(), "learning")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, document.Document{URL: "/go/"}, results[0].Document)
	assert.True(t, results[0].Highlight.Matched())
}

func TestQueryLimit(t *testing.T) {
	idx := New(WithOptions(index.Options{Enrich: true, Limit: 1}))
	ctx := context.Background()
	require.NoError(t, idx.AddBatch(ctx, sampleDocs()))

	results, err := idx.Query(ctx, "cat")
	require.NoError(t, err)
	titles := 0
	for _, r := range results {
		if r.Field == index.FieldTitle {
			titles++
		}
	}
	assert.Equal(t, 1, titles)
}

func TestQueryEmpty(t *testing.T) {
	idx := newLoaded(t)
	results, err := idx.Query(context.Background(), "  ,, ")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestAddReplacesByURL(t *testing.T) {
	idx := New()
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, document.Document{URL: "/a/", Title: "Old title"}))
	require.NoError(t, idx.Add(ctx, document.Document{URL: "/a/", Title: "New heading"}))
	assert.Equal(t, 1, idx.Len())

	results, err := idx.Query(ctx, "old")
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = idx.Query(ctx, "heading")
	require.NoError(t, err)
	assert.Equal(t, []string{"/a/"}, urls(results))
}

func TestAddRejectsMissingURL(t *testing.T) {
	idx := New()
	err := idx.Add(context.Background(), document.Document{Title: "orphan"})
	assert.ErrorIs(t, err, document.ErrMissingURL)
	assert.Equal(t, 0, idx.Len())
}

func TestQueryHonoursCancelledContext(t *testing.T) {
	idx := newLoaded(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := idx.Query(ctx, "cat")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentQueries(t *testing.T) {
	idx := newLoaded(t)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results, err := idx.Query(context.Background(), "go")
			assert.NoError(t, err)
			assert.NotEmpty(t, results)
		}()
	}
	wg.Wait()
}

func TestWithinOneEdit(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"theory", "theory", true},
		{"theory", "theorie", false},
		{"theory", "theor", true},
		{"theory", "thxory", true},
		{"theory", "theoryy", true},
		{"theory", "htoery", false},
		{"cat", "dog", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, withinOneEdit([]rune(tt.a), []rune(tt.b)), "%s vs %s", tt.a, tt.b)
	}
}

func TestKagomeTokenizerSegmentsJapanese(t *testing.T) {
	tok, err := NewKagomeTokenizer()
	require.NoError(t, err)

	terms := tok.Tokenize("東京の猫カフェ")
	assert.Contains(t, terms, "猫")
	assert.Equal(t, []string{"hello", "world"}, tok.Tokenize("Hello, World"))

	idx := New(WithTokenizer(tok))
	ctx := context.Background()
	require.NoError(t, idx.Add(ctx, document.Document{URL: "/neko/", Title: "東京の猫カフェ"}))
	results, err := idx.Query(ctx, "猫")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, "/neko/", results[0].Document.URL)
	assert.Equal(t, "東京の<mark>猫</mark>カフェ", results[0].Highlight.HTML())
}

func TestNewTokenizer(t *testing.T) {
	tok, err := NewTokenizer("")
	require.NoError(t, err)
	assert.IsType(t, WordTokenizer{}, tok)

	_, err = NewTokenizer("nope")
	assert.Error(t, err)
}
