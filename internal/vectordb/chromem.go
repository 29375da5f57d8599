// Package vectordb is a semantic index backend: pages are embedded and
// queries are answered by vector similarity through chromem-go.
package vectordb

import (
	"context"
	"fmt"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/ziadkadry99/sitesearch/internal/document"
	"github.com/ziadkadry99/sitesearch/internal/embeddings"
	"github.com/ziadkadry99/sitesearch/internal/highlight"
	"github.com/ziadkadry99/sitesearch/internal/index"
)

const collectionName = "site"

// ChromemStore implements index.Index using chromem-go.
type ChromemStore struct {
	db            *chromem.DB
	collection    *chromem.Collection
	embedder      embeddings.Embedder
	opts          index.Options
	minSimilarity float32
	concurrency   int

	mu sync.RWMutex
}

// Option configures a ChromemStore.
type Option func(*ChromemStore)

// WithMinSimilarity drops results scoring below s.
func WithMinSimilarity(s float32) Option {
	return func(c *ChromemStore) { c.minSimilarity = s }
}

// WithConcurrency sets how many documents are embedded in parallel.
func WithConcurrency(n int) Option {
	return func(c *ChromemStore) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// NewChromemStore creates a new in-memory ChromemStore.
func NewChromemStore(embedder embeddings.Embedder, opts index.Options, options ...Option) (*ChromemStore, error) {
	db := chromem.NewDB()
	col, err := db.GetOrCreateCollection(collectionName, nil, embeddings.ChromemFunc(embedder))
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	s := &ChromemStore{
		db:          db,
		collection:  col,
		embedder:    embedder,
		opts:        opts,
		concurrency: 1,
	}
	for _, o := range options {
		o(s)
	}
	return s, nil
}

func (s *ChromemStore) Add(ctx context.Context, doc document.Document) error {
	return s.AddBatch(ctx, []document.Document{doc})
}

func (s *ChromemStore) AddBatch(ctx context.Context, docs []document.Document) error {
	if len(docs) == 0 {
		return nil
	}

	chromDocs := make([]chromem.Document, len(docs))
	for i, doc := range docs {
		if err := doc.Validate(); err != nil {
			return err
		}
		chromDocs[i] = chromem.Document{
			ID:       doc.URL,
			Content:  embeddingText(doc),
			Metadata: metadataToMap(doc),
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, doc := range docs {
		// chromem keeps the first copy of an ID; drop stale ones first.
		if err := s.collection.Delete(ctx, nil, nil, doc.URL); err != nil {
			return fmt.Errorf("replace %s: %w", doc.URL, err)
		}
	}
	return s.collection.AddDocuments(ctx, chromDocs, s.concurrency)
}

// Query ranks documents by similarity to the query and highlights the query
// terms in the best-matching field of each.
func (s *ChromemStore) Query(ctx context.Context, query string) ([]index.Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := s.opts.Limit
	if limit <= 0 {
		limit = 10
	}
	// chromem-go requires nResults <= collection size.
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}

	found, err := s.collection.Query(ctx, query, limit, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("chromem query: %w", err)
	}

	terms := highlight.Terms(query)
	results := make([]index.Result, 0, len(found))
	for _, r := range found {
		if r.Similarity < s.minSimilarity {
			continue
		}
		doc := mapToDocument(r.ID, r.Metadata)
		field := bestField(doc, terms)
		results = append(results, index.Result{
			Document:  s.opts.Strip(doc),
			Field:     field,
			Highlight: s.opts.FragmentFor(doc, field, terms),
		})
	}
	return results, nil
}

func (s *ChromemStore) Len() int {
	return s.collection.Count()
}

// bestField is the first field, in group order, containing a query term.
// Semantic hits without any lexical match are shown by description.
func bestField(doc document.Document, terms []string) string {
	for _, f := range index.Fields {
		if highlight.Build(doc.Field(f), terms, highlight.Options{}).Matched() {
			return f
		}
	}
	if doc.Description != "" {
		return index.FieldDescription
	}
	return index.FieldContent
}

func embeddingText(doc document.Document) string {
	parts := make([]string, 0, 3)
	for _, f := range index.Fields {
		if v := strings.TrimSpace(doc.Field(f)); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n\n")
}

// metadataToMap flattens a document for chromem's string metadata.
func metadataToMap(d document.Document) map[string]string {
	return map[string]string{
		"title":       d.Title,
		"description": d.Description,
		"content":     d.Content,
		"image":       d.Image,
		"date":        d.Date,
	}
}

func mapToDocument(id string, m map[string]string) document.Document {
	return document.Document{
		URL:         id,
		Title:       m["title"],
		Description: m["description"],
		Content:     m["content"],
		Image:       m["image"],
		Date:        m["date"],
	}
}
