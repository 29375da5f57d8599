// Package meili is an index backend that delegates storage and ranking to a
// Meilisearch instance.
package meili

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/meilisearch/meilisearch-go"

	"github.com/ziadkadry99/sitesearch/internal/document"
	"github.com/ziadkadry99/sitesearch/internal/highlight"
	"github.com/ziadkadry99/sitesearch/internal/index"
)

const (
	preTag  = "\x02"
	postTag = "\x03"

	defaultTimeout = 15 * time.Second
	pollInterval   = 50 * time.Millisecond
	primaryKey     = "id"
)

// DriverError reports a failed Meilisearch operation.
type DriverError struct {
	Op  string
	Err error
}

func (e *DriverError) Error() string {
	return "meilisearch " + e.Op + ": " + e.Err.Error()
}

func (e *DriverError) Unwrap() error { return e.Err }

// Config locates the Meilisearch index.
type Config struct {
	Host    string
	APIKey  string
	Index   string
	Timeout time.Duration
}

// Store implements index.Index on a Meilisearch index.
type Store struct {
	client  meilisearch.ServiceManager
	index   meilisearch.IndexManager
	opts    index.Options
	timeout time.Duration
}

// hit is the stored shape of a document. Meilisearch ids may not contain
// slashes, so the id is a digest of the URL.
type hit struct {
	ID          string `json:"id"`
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Image       string `json:"image,omitempty"`
	Date        string `json:"date,omitempty"`
}

// New connects to Meilisearch. The index is created on first write.
func New(cfg Config, opts index.Options) *Store {
	client := meilisearch.New(cfg.Host, meilisearch.WithAPIKey(cfg.APIKey))
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Store{
		client:  client,
		index:   client.Index(cfg.Index),
		opts:    opts,
		timeout: timeout,
	}
}

// Health checks that the server is reachable.
func (s *Store) Health() error {
	if _, err := s.client.Health(); err != nil {
		return &DriverError{Op: "Health", Err: err}
	}
	return nil
}

// EnsureIndex restricts the searchable attributes to the indexed fields, in
// group order so title matches rank first.
func (s *Store) EnsureIndex(ctx context.Context) error {
	task, err := s.index.UpdateSearchableAttributesWithContext(ctx, &index.Fields)
	if err != nil {
		return &DriverError{Op: "EnsureIndex", Err: err}
	}
	if err := s.wait(ctx, task.TaskUID); err != nil {
		return &DriverError{Op: "EnsureIndex", Err: fmt.Errorf("wait for settings: %w", err)}
	}
	return nil
}

// wait polls a task until it finishes, the store timeout passes or ctx ends.
func (s *Store) wait(ctx context.Context, taskUID int64) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	task, err := s.index.WaitForTaskWithContext(ctx, taskUID, pollInterval)
	if err != nil {
		return err
	}
	if task.Status == "failed" {
		return fmt.Errorf("task %d failed", taskUID)
	}
	return nil
}

func (s *Store) Add(ctx context.Context, doc document.Document) error {
	return s.AddBatch(ctx, []document.Document{doc})
}

// AddBatch upserts documents. Meilisearch replaces documents sharing an id.
func (s *Store) AddBatch(ctx context.Context, docs []document.Document) error {
	if len(docs) == 0 {
		return nil
	}
	hits := make([]hit, len(docs))
	for i, d := range docs {
		if err := d.Validate(); err != nil {
			return err
		}
		hits[i] = hit{
			ID:          DocumentID(d.URL),
			URL:         d.URL,
			Title:       d.Title,
			Description: d.Description,
			Content:     d.Content,
			Image:       d.Image,
			Date:        d.Date,
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	pk := primaryKey
	task, err := s.index.AddDocumentsWithContext(ctx, hits, &meilisearch.DocumentOptions{PrimaryKey: &pk})
	if err != nil {
		return &DriverError{Op: "AddBatch", Err: err}
	}
	if err := s.wait(ctx, task.TaskUID); err != nil {
		return &DriverError{Op: "AddBatch", Err: fmt.Errorf("wait for indexing: %w", err)}
	}
	return nil
}

// Query runs a search and reports each hit under the first field, in group
// order, that Meilisearch matched.
func (s *Store) Query(ctx context.Context, query string) ([]index.Result, error) {
	terms := highlight.Terms(query)
	if len(terms) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := &meilisearch.SearchRequest{
		Limit:                 int64(s.opts.Limit),
		AttributesToHighlight: index.Fields,
		HighlightPreTag:       preTag,
		HighlightPostTag:      postTag,
		AttributesToCrop:      []string{index.FieldDescription, index.FieldContent},
		CropLength:            int64(cropWords(s.opts.Window)),
		CropMarker:            highlight.DefaultEllipsis,
		ShowMatchesPosition:   true,
	}
	if req.Limit <= 0 {
		req.Limit = 20
	}
	// Without suggestions every query word must match; otherwise Meilisearch
	// drops trailing words until something does.
	if !s.opts.Suggest {
		req.MatchingStrategy = "all"
	}
	raw, err := s.index.SearchRaw(query, req)
	if err != nil {
		return nil, &DriverError{Op: "Query", Err: err}
	}
	if raw == nil {
		return nil, nil
	}
	results, err := parseResponse(*raw, s.opts)
	if err != nil {
		return nil, &DriverError{Op: "Query", Err: err}
	}
	return results, nil
}

// Len reports the stored document count, or 0 when the server cannot say.
func (s *Store) Len() int {
	stats, err := s.index.GetStats()
	if err != nil {
		return 0
	}
	return int(stats.NumberOfDocuments)
}

// DocumentID derives the Meilisearch primary key for a URL.
func DocumentID(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

// cropWords converts a rune window into Meilisearch's word-based crop length.
func cropWords(window int) int {
	n := window / 6
	if n < 4 {
		n = 4
	}
	return n
}

type searchResponse struct {
	Hits []rawHit `json:"hits"`
}

type rawHit struct {
	hit
	Formatted       map[string]any             `json:"_formatted"`
	MatchesPosition map[string]json.RawMessage `json:"_matchesPosition"`
}

func parseResponse(raw []byte, opts index.Options) ([]index.Result, error) {
	var resp searchResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	groups := make([]index.Group, len(index.Fields))
	for i, f := range index.Fields {
		groups[i].Field = f
	}
	for _, h := range resp.Hits {
		doc := document.Document{
			URL:         h.URL,
			Title:       h.Title,
			Description: h.Description,
			Content:     h.Content,
			Image:       h.Image,
			Date:        h.Date,
		}
		gi := matchedField(h.MatchesPosition)
		r := index.Result{
			Document: opts.Strip(doc),
			Field:    index.Fields[gi],
		}
		if opts.Highlight {
			if s, ok := h.Formatted[r.Field].(string); ok {
				r.Highlight = highlight.Parse(s, preTag, postTag)
			} else {
				r.Highlight = highlight.Plain(doc.Field(r.Field))
			}
		}
		groups[gi].Results = append(groups[gi].Results, r)
	}
	return index.Flatten(groups), nil
}

// matchedField returns the group index of the first matched field. Hits
// matched only through typo tolerance on other attributes fall back to the
// description group.
func matchedField(positions map[string]json.RawMessage) int {
	for i, f := range index.Fields {
		if p, ok := positions[f]; ok && len(p) > 2 {
			return i
		}
	}
	return 1
}
