// Package memory is the default index backend: a forward-tokenized inverted
// index held entirely in process memory.
//
// Every word of every field is indexed under each of its prefixes, so a
// query term matches any word it begins. Exact word hits rank above prefix
// hits. When suggestion is enabled, a field with no document containing all
// query terms falls back to documents containing some of them, and a term
// unknown to the index is replaced by vocabulary words one edit away.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/ziadkadry99/sitesearch/internal/document"
	"github.com/ziadkadry99/sitesearch/internal/index"
)

const (
	exactWeight  = 2
	prefixWeight = 1

	// fuzzyMinLen is the shortest term eligible for edit-distance fallback.
	fuzzyMinLen = 4
)

type posting struct {
	exact  int
	prefix int
}

func (p posting) score() int {
	return p.exact*exactWeight + p.prefix*prefixWeight
}

type entry struct {
	doc    document.Document
	seq    int
	tokens map[string][]string // field -> tokens, kept for replacement
}

// Index is an in-memory forward index. It is safe for concurrent use.
type Index struct {
	mu        sync.RWMutex
	opts      index.Options
	tokenizer Tokenizer

	docs     map[string]*entry
	seq      int
	postings map[string]map[string]map[string]posting // field -> term -> url -> posting
	vocab    map[string]int                           // whole word -> occurrences
	known    map[string]int                           // any indexed term -> occurrences
}

// Option configures an Index.
type Option func(*Index)

// WithTokenizer replaces the default word tokenizer.
func WithTokenizer(t Tokenizer) Option {
	return func(idx *Index) {
		if t != nil {
			idx.tokenizer = t
		}
	}
}

// WithOptions sets the query options.
func WithOptions(o index.Options) Option {
	return func(idx *Index) { idx.opts = o }
}

// New returns an empty index.
func New(opts ...Option) *Index {
	idx := &Index{
		opts:      index.DefaultOptions(),
		tokenizer: WordTokenizer{},
		docs:      make(map[string]*entry),
		postings:  make(map[string]map[string]map[string]posting, len(index.Fields)),
		vocab:     make(map[string]int),
		known:     make(map[string]int),
	}
	for _, f := range index.Fields {
		idx.postings[f] = make(map[string]map[string]posting)
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Len returns the number of indexed documents.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.docs)
}

// Add indexes doc, replacing any document with the same URL.
func (idx *Index) Add(ctx context.Context, doc document.Document) error {
	if err := doc.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	tokens := make(map[string][]string, len(index.Fields))
	for _, f := range index.Fields {
		tokens[f] = idx.tokenizer.Tokenize(doc.Field(f))
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	seq := idx.seq
	if old, ok := idx.docs[doc.URL]; ok {
		idx.unindex(doc.URL, old)
		seq = old.seq
	} else {
		idx.seq++
	}

	e := &entry{doc: doc, seq: seq, tokens: tokens}
	idx.docs[doc.URL] = e
	for field, words := range tokens {
		for _, w := range words {
			idx.indexWord(field, doc.URL, w)
		}
	}
	return nil
}

// AddBatch indexes docs under a single context check.
func (idx *Index) AddBatch(ctx context.Context, docs []document.Document) error {
	for _, d := range docs {
		if err := idx.Add(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

func (idx *Index) indexWord(field, url, word string) {
	runes := []rune(word)
	for n := 1; n <= len(runes); n++ {
		term := string(runes[:n])
		byURL := idx.postings[field][term]
		if byURL == nil {
			byURL = make(map[string]posting)
			idx.postings[field][term] = byURL
		}
		p := byURL[url]
		if n == len(runes) {
			p.exact++
		} else {
			p.prefix++
		}
		byURL[url] = p
		idx.known[term]++
	}
	idx.vocab[word]++
}

func (idx *Index) unindex(url string, e *entry) {
	for field, words := range e.tokens {
		for _, w := range words {
			runes := []rune(w)
			for n := 1; n <= len(runes); n++ {
				term := string(runes[:n])
				if byURL := idx.postings[field][term]; byURL != nil {
					delete(byURL, url)
					if len(byURL) == 0 {
						delete(idx.postings[field], term)
					}
				}
				if idx.known[term]--; idx.known[term] <= 0 {
					delete(idx.known, term)
				}
			}
			if idx.vocab[w]--; idx.vocab[w] <= 0 {
				delete(idx.vocab, w)
			}
		}
	}
}

type hit struct {
	url     string
	seq     int
	matched int
	score   int
}

// Query returns per-field matches flattened in field order.
func (idx *Index) Query(ctx context.Context, query string) ([]index.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	terms := dedupe(idx.tokenizer.Tokenize(query))
	if len(terms) == 0 {
		return nil, nil
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	// Each query term expands to the index terms it stands for: itself, or
	// near vocabulary words when suggestion is on and it is unknown.
	expanded := make([][]string, len(terms))
	var marks []string
	for i, t := range terms {
		expanded[i] = []string{t}
		if idx.opts.Suggest && idx.known[t] == 0 && len([]rune(t)) >= fuzzyMinLen {
			if near := idx.nearWords(t); len(near) > 0 {
				expanded[i] = near
			}
		}
		marks = append(marks, expanded[i]...)
	}

	groups := make([]index.Group, 0, len(index.Fields))
	for _, field := range index.Fields {
		hits := idx.matchField(field, expanded)
		if len(hits) == 0 {
			continue
		}
		if idx.opts.Limit > 0 && len(hits) > idx.opts.Limit {
			hits = hits[:idx.opts.Limit]
		}
		g := index.Group{Field: field, Results: make([]index.Result, 0, len(hits))}
		for _, h := range hits {
			doc := idx.docs[h.url].doc
			g.Results = append(g.Results, index.Result{
				Document:  idx.opts.Strip(doc),
				Field:     field,
				Highlight: idx.opts.FragmentFor(doc, field, marks),
			})
		}
		groups = append(groups, g)
	}
	return index.Flatten(groups), nil
}

// matchField scores documents in one field. All terms must match unless
// suggestion is on and nothing matches them all.
func (idx *Index) matchField(field string, expanded [][]string) []hit {
	byURL := make(map[string]*hit)
	for _, alternatives := range expanded {
		seen := make(map[string]bool)
		for _, term := range alternatives {
			for url, p := range idx.postings[field][term] {
				h := byURL[url]
				if h == nil {
					h = &hit{url: url, seq: idx.docs[url].seq}
					byURL[url] = h
				}
				h.score += p.score()
				if !seen[url] {
					seen[url] = true
					h.matched++
				}
			}
		}
	}

	all := make([]hit, 0, len(byURL))
	some := make([]hit, 0, len(byURL))
	for _, h := range byURL {
		if h.matched == len(expanded) {
			all = append(all, *h)
		} else {
			some = append(some, *h)
		}
	}

	hits := all
	if len(hits) == 0 && idx.opts.Suggest {
		hits = some
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].matched != hits[j].matched {
			return hits[i].matched > hits[j].matched
		}
		if hits[i].score != hits[j].score {
			return hits[i].score > hits[j].score
		}
		return hits[i].seq < hits[j].seq
	})
	return hits
}

// nearWords returns vocabulary words within one edit of term, sorted for
// stable output.
func (idx *Index) nearWords(term string) []string {
	tr := []rune(term)
	var near []string
	for w := range idx.vocab {
		if withinOneEdit(tr, []rune(w)) {
			near = append(near, w)
		}
	}
	sort.Strings(near)
	return near
}

// withinOneEdit reports whether a and b differ by at most one insertion,
// deletion or substitution.
func withinOneEdit(a, b []rune) bool {
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(b)-len(a) > 1 {
		return false
	}
	i, j, edits := 0, 0, 0
	for i < len(a) && j < len(b) {
		if a[i] == b[j] {
			i++
			j++
			continue
		}
		edits++
		if edits > 1 {
			return false
		}
		if len(a) == len(b) {
			i++
		}
		j++
	}
	return edits+(len(b)-j)+(len(a)-i) <= 1
}

func dedupe(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := terms[:0:0]
	for _, t := range terms {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
