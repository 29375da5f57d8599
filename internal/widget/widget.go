// Package widget bridges search input to an index and renders the results as
// HTML result cards.
package widget

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/ziadkadry99/sitesearch/internal/index"
	"github.com/ziadkadry99/sitesearch/internal/loader"
	"github.com/ziadkadry99/sitesearch/internal/logger"
	"github.com/ziadkadry99/sitesearch/internal/metrics"
)

// Element ids of the host page contract.
const (
	InputID     = "searchBox"
	ResultsID   = "searchResults"
	WrapperID   = "searchResultsDiv"
	HiddenClass = "hidden"
)

// DefaultImage is the thumbnail of documents without an image.
const DefaultImage = "/images/profile.png"

// Widget owns one index and the loader that fills it. It is safe for
// concurrent use; the document set is fetched at most once per widget after
// a successful load.
type Widget struct {
	loader loader.Loader
	index  index.Index

	log          zerolog.Logger
	metrics      *metrics.Metrics
	minQuery     int
	defaultImage string
	dateLayout   string
	location     *time.Location
	session      uuid.UUID

	mu      sync.Mutex // serializes loads
	loaded  bool
	checked bool
	loadErr error
	state   atomic.Int32
}

// Option configures a Widget.
type Option func(*Widget)

// WithLogger sets the widget logger.
func WithLogger(l zerolog.Logger) Option {
	return func(w *Widget) { w.log = l }
}

// WithMetrics records query and load metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Widget) { w.metrics = m }
}

// WithMinQueryLength sets how many characters a query needs before it runs.
func WithMinQueryLength(n int) Option {
	return func(w *Widget) {
		if n > 0 {
			w.minQuery = n
		}
	}
}

// WithDefaultImage sets the fallback thumbnail path.
func WithDefaultImage(path string) Option {
	return func(w *Widget) {
		if path != "" {
			w.defaultImage = path
		}
	}
}

// WithDateLayout sets the time layout used to display document dates.
func WithDateLayout(layout string) Option {
	return func(w *Widget) {
		if layout != "" {
			w.dateLayout = layout
		}
	}
}

// WithLocation sets the zone that zoneless dates are read in.
func WithLocation(loc *time.Location) Option {
	return func(w *Widget) {
		if loc != nil {
			w.location = loc
		}
	}
}

// New creates a widget over idx, filled lazily from l.
func New(l loader.Loader, idx index.Index, opts ...Option) *Widget {
	w := &Widget{
		loader:       l,
		index:        idx,
		log:          logger.Nop(),
		minQuery:     2,
		defaultImage: DefaultImage,
		dateLayout:   "Jan 2, 2006",
		location:     time.UTC,
		session:      uuid.New(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.log = w.log.With().Str("session", w.session.String()).Logger()
	return w
}

// Session identifies this widget instance.
func (w *Widget) Session() uuid.UUID { return w.session }

// State returns the current load state.
func (w *Widget) State() State { return State(w.state.Load()) }

// Err returns the error of the last failed load, if any.
func (w *Widget) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.loadErr
}

// MinQueryLength is the number of characters a query needs before it runs.
func (w *Widget) MinQueryLength() int { return w.minQuery }

// Len reports how many documents the index holds.
func (w *Widget) Len() int { return w.index.Len() }

func (w *Widget) setState(s State) { w.state.Store(int32(s)) }

// LoadData fetches the document set and adds every document to the index.
// It does nothing once a load has succeeded, or when the index already held
// entries before the first call. Concurrent callers wait for a single fetch.
func (w *Widget) LoadData(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.loaded {
		return nil
	}
	if !w.checked {
		w.checked = true
		if n := w.index.Len(); n > 0 {
			w.log.Info().Int("documents", n).Msg("index already populated, skipping fetch")
			w.loaded = true
			w.setState(Ready)
			return nil
		}
	}

	w.setState(Loading)
	start := time.Now()
	n, err := w.fill(ctx)
	w.metrics.RecordLoad(err, time.Since(start), n)
	if err != nil {
		w.loadErr = err
		w.setState(Failed)
		w.log.Error().Err(err).Msg("document set load failed")
		return err
	}

	w.loaded = true
	w.loadErr = nil
	w.setState(Ready)
	w.log.Info().Int("documents", n).Dur("took", time.Since(start)).Msg("document set loaded")
	return nil
}

func (w *Widget) fill(ctx context.Context) (int, error) {
	docs, err := w.loader.Load(ctx)
	if err != nil {
		return 0, err
	}
	if ba, ok := w.index.(index.BatchAdder); ok {
		if err := ba.AddBatch(ctx, docs); err != nil {
			return 0, fmt.Errorf("index documents: %w", err)
		}
		return len(docs), nil
	}
	for _, d := range docs {
		if err := w.index.Add(ctx, d); err != nil {
			return 0, fmt.Errorf("index %s: %w", d.URL, err)
		}
	}
	return len(docs), nil
}

// Search queries the index and removes repeated documents, keeping the first
// occurrence of each URL.
func (w *Widget) Search(ctx context.Context, query string) ([]index.Result, error) {
	results, err := w.index.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", query, err)
	}
	return Dedupe(results), nil
}

// Dedupe drops results whose document URL was already seen.
func Dedupe(results []index.Result) []index.Result {
	seen := make(map[string]struct{}, len(results))
	out := make([]index.Result, 0, len(results))
	for _, r := range results {
		if _, ok := seen[r.Document.URL]; ok {
			continue
		}
		seen[r.Document.URL] = struct{}{}
		out = append(out, r)
	}
	return out
}

// View is the outcome of one input event.
type View struct {
	Query   string
	State   State
	Results []index.Result
	// Node is the replacement results container.
	Node *html.Node
	Err  error
}

// HTML renders the container.
func (v View) HTML() string {
	var b strings.Builder
	if v.Node != nil {
		_ = html.Render(&b, v.Node)
	}
	return b.String()
}

// HandleInput applies the trigger policy to one input event: short or blank
// queries clear the results without touching the index; anything longer
// loads the document set if needed, then searches and renders.
func (w *Widget) HandleInput(ctx context.Context, query string) (View, error) {
	v := View{Query: query}
	if utf8.RuneCountInString(strings.TrimSpace(query)) < w.minQuery {
		v.State = w.State()
		v.Node = Container()
		w.metrics.RecordQuery("skipped", 0, 0)
		return v, nil
	}

	if err := w.LoadData(ctx); err != nil {
		v.State = Failed
		v.Err = err
		v.Node = ErrorNotice("Search is unavailable right now. Please try again.")
		w.metrics.RecordQuery("failed", 0, 0)
		return v, err
	}

	start := time.Now()
	results, err := w.Search(ctx, query)
	if err != nil {
		v.State = w.State()
		v.Err = err
		v.Node = ErrorNotice("Search failed. Please try again.")
		w.metrics.RecordQuery("failed", time.Since(start), 0)
		w.log.Warn().Err(err).Str("query", query).Msg("search failed")
		return v, err
	}

	v.State = Ready
	v.Results = results
	v.Node = w.Render(results)
	w.metrics.RecordQuery("ok", time.Since(start), len(results))
	w.log.Debug().Str("query", query).Int("results", len(results)).Msg("search")
	return v, nil
}
