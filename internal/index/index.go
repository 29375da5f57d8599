// Package index defines the narrow contract between the search widget and
// the full-text engine that actually stores and ranks documents.
package index

import (
	"context"
	"errors"

	"github.com/ziadkadry99/sitesearch/internal/document"
	"github.com/ziadkadry99/sitesearch/internal/highlight"
)

// Index field names in the order their match groups are reported.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldContent     = "content"
)

// Fields lists the indexed fields in group order.
var Fields = []string{FieldTitle, FieldDescription, FieldContent}

// ErrUnknownBackend is returned when a configured backend name is not recognised.
var ErrUnknownBackend = errors.New("unknown index backend")

// Index stores documents and answers queries against them.
type Index interface {
	// Add inserts or replaces a document, keyed by its URL.
	Add(ctx context.Context, doc document.Document) error

	// Query returns the matches for a raw query string, ordered by field group
	// and then relevance. A document may appear once per matching field.
	Query(ctx context.Context, query string) ([]Result, error)

	// Len returns the number of documents held.
	Len() int
}

// BatchAdder is implemented by backends that insert many documents more
// cheaply in one call than one by one.
type BatchAdder interface {
	AddBatch(ctx context.Context, docs []document.Document) error
}

// Result is one match: the stored document, the field it matched in and the
// highlight fragment generated for that field.
type Result struct {
	Document  document.Document
	Field     string
	Highlight highlight.Fragment
}

// Group is the set of results that matched in one field.
type Group struct {
	Field   string
	Results []Result
}

// Flatten concatenates per-field groups, keeping group order.
func Flatten(groups []Group) []Result {
	n := 0
	for _, g := range groups {
		n += len(g.Results)
	}
	out := make([]Result, 0, n)
	for _, g := range groups {
		out = append(out, g.Results...)
	}
	return out
}

// Options are the query options every backend honours.
type Options struct {
	// Enrich attaches the full stored document to each result. Without it
	// only the URL is populated.
	Enrich bool
	// Suggest relaxes matching when no document contains every query term.
	Suggest bool
	// Highlight generates highlight fragments.
	Highlight bool
	// Limit caps the results per field group.
	Limit int
	// Window is the fragment window in runes for long fields.
	Window int
}

// DefaultOptions mirrors the widget's needs: enriched, suggest-enabled,
// highlighted results.
func DefaultOptions() Options {
	return Options{
		Enrich:    true,
		Suggest:   true,
		Highlight: true,
		Limit:     20,
		Window:    160,
	}
}

// Strip drops everything but the URL when enrichment is off.
func (o Options) Strip(doc document.Document) document.Document {
	if o.Enrich {
		return doc
	}
	return document.Document{URL: doc.URL}
}

// FragmentFor builds the highlight fragment of a field according to the options.
func (o Options) FragmentFor(doc document.Document, field string, terms []string) highlight.Fragment {
	if !o.Highlight {
		return highlight.Fragment{}
	}
	window := 0
	if field != FieldTitle {
		window = o.Window
	}
	return highlight.Build(doc.Field(field), terms, highlight.Options{Window: window})
}
