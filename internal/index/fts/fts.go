// Package fts is an index backend on SQLite FTS5. It can run fully in memory
// or against a database file that outlives the process.
package fts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/ziadkadry99/sitesearch/internal/db"
	"github.com/ziadkadry99/sitesearch/internal/document"
	"github.com/ziadkadry99/sitesearch/internal/highlight"
	"github.com/ziadkadry99/sitesearch/internal/index"
)

// Index stores documents in SQLite and queries them through FTS5.
type Index struct {
	db   *db.DB
	opts index.Options

	mu    sync.Mutex // serializes writers
	seq   int
	count int
}

// New wraps an open database. The schema must already be migrated, which
// db.Open and db.OpenMemory do.
func New(d *db.DB, opts index.Options) (*Index, error) {
	idx := &Index{db: d, opts: opts}
	row := d.QueryRow(`SELECT COUNT(*), COALESCE(MAX(seq), 0) FROM documents`)
	if err := row.Scan(&idx.count, &idx.seq); err != nil {
		return nil, fmt.Errorf("reading document count: %w", err)
	}
	return idx, nil
}

// Len returns the number of stored documents.
func (idx *Index) Len() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.count
}

// Add stores one document.
func (idx *Index) Add(ctx context.Context, doc document.Document) error {
	return idx.AddBatch(ctx, []document.Document{doc})
}

// AddBatch stores docs in a single transaction.
func (idx *Index) AddBatch(ctx context.Context, docs []document.Document) error {
	for _, d := range docs {
		if err := d.Validate(); err != nil {
			return err
		}
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	tx, err := idx.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	added := 0
	seq := idx.seq
	for _, d := range docs {
		var existing int
		if err := tx.QueryRowContext(ctx, `SELECT seq FROM documents WHERE url = ?`, d.URL).Scan(&existing); err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("looking up %s: %w", d.URL, err)
			}
			seq++
			existing = seq
			added++
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM documents_fts WHERE url = ?`, d.URL); err != nil {
			return fmt.Errorf("clearing fts row for %s: %w", d.URL, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO documents (url, seq, title, description, content, image, date)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			d.URL, existing, d.Title, d.Description, d.Content, d.Image, d.Date); err != nil {
			return fmt.Errorf("storing %s: %w", d.URL, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO documents_fts (url, title, description, content) VALUES (?, ?, ?, ?)`,
			d.URL, d.Title, d.Description, d.Content); err != nil {
			return fmt.Errorf("indexing %s: %w", d.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing documents: %w", err)
	}
	idx.seq = seq
	idx.count += added
	return nil
}

// Query runs one FTS5 query per field and flattens the groups.
func (idx *Index) Query(ctx context.Context, query string) ([]index.Result, error) {
	terms := highlight.Terms(query)
	if len(terms) == 0 {
		return nil, nil
	}

	groups := make([]index.Group, 0, len(index.Fields))
	for _, field := range index.Fields {
		results, err := idx.queryField(ctx, field, terms, matchExpr(field, terms, "AND"))
		if err != nil {
			return nil, err
		}
		if len(results) == 0 && idx.opts.Suggest && len(terms) > 1 {
			results, err = idx.queryField(ctx, field, terms, matchExpr(field, terms, "OR"))
			if err != nil {
				return nil, err
			}
		}
		if len(results) > 0 {
			groups = append(groups, index.Group{Field: field, Results: results})
		}
	}
	return index.Flatten(groups), nil
}

// queryField returns the documents whose field matches expr. FTS5's own
// highlight() marks whole tokens, so fragments are built from the stored text
// to mark only the matched word prefixes.
func (idx *Index) queryField(ctx context.Context, field string, terms []string, expr string) ([]index.Result, error) {
	limit := idx.opts.Limit
	if limit <= 0 {
		limit = -1
	}

	rows, err := idx.db.QueryContext(ctx, `SELECT d.url, d.title, d.description, d.content, d.image, d.date
		FROM documents_fts
		JOIN documents d ON d.url = documents_fts.url
		WHERE documents_fts MATCH ?
		ORDER BY rank, d.seq
		LIMIT ?`, expr, limit)
	if err != nil {
		return nil, fmt.Errorf("fts query on %s: %w", field, err)
	}
	defer rows.Close()

	var results []index.Result
	for rows.Next() {
		var d document.Document
		if err := rows.Scan(&d.URL, &d.Title, &d.Description, &d.Content, &d.Image, &d.Date); err != nil {
			return nil, fmt.Errorf("scanning fts row: %w", err)
		}
		results = append(results, index.Result{
			Document:  idx.opts.Strip(d),
			Field:     field,
			Highlight: idx.opts.FragmentFor(d, field, terms),
		})
	}
	return results, rows.Err()
}

// matchExpr builds a column-filtered prefix query such as
// title : ("cat"* AND "dog"*).
func matchExpr(field string, terms []string, op string) string {
	quoted := make([]string, len(terms))
	for i, t := range terms {
		quoted[i] = `"` + strings.ReplaceAll(t, `"`, `""`) + `"*`
	}
	return field + " : (" + strings.Join(quoted, " "+op+" ") + ")"
}
