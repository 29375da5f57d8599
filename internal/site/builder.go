// Package site builds the document set the search widget loads: it walks the
// content tree, reads front matter and page bodies, and writes index.json.
package site

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"

	"github.com/ziadkadry99/sitesearch/internal/document"
	"github.com/ziadkadry99/sitesearch/internal/progress"
	"github.com/ziadkadry99/sitesearch/internal/walker"
)

// ErrNoContent is returned when the content tree holds no pages to index.
var ErrNoContent = errors.New("no content pages found")

// Builder turns a content directory into documents.
type Builder struct {
	ContentDir string
	Include    []string
	Exclude    []string
	Workers    int
	BaseURL    string
	Reporter   progress.Reporter
	Log        zerolog.Logger
}

// Build parses every content page and returns the published documents sorted
// by URL. Drafts are skipped. When two pages resolve to the same URL the one
// with the lower path wins.
func (b *Builder) Build(ctx context.Context) ([]document.Document, error) {
	files, err := walker.Walk(ctx, walker.Config{
		RootDir: b.ContentDir,
		Include: b.Include,
		Exclude: b.Exclude,
	})
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoContent, b.ContentDir)
	}

	workers := b.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("worker pool: %w", err)
	}
	defer pool.Release()

	reporter := b.Reporter
	if reporter == nil {
		reporter = progress.Nop{}
	}
	reporter.Start(len(files))

	pages := make([]Page, len(files))
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		done     int
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			fail(err)
			break
		}
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			page, err := b.parse(f)
			if err != nil {
				fail(err)
				return
			}
			pages[i] = page

			mu.Lock()
			done++
			reporter.Update(done, f.RelPath)
			mu.Unlock()
		})
		if err != nil {
			wg.Done()
			fail(fmt.Errorf("submit %s: %w", f.RelPath, err))
			break
		}
	}
	wg.Wait()
	reporter.Finish()

	if firstErr != nil {
		return nil, firstErr
	}
	return b.collect(pages), nil
}

func (b *Builder) parse(f walker.FileInfo) (Page, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return Page{}, fmt.Errorf("reading %s: %w", f.RelPath, err)
	}
	return ParsePage(f.RelPath, f.Format, data, b.BaseURL)
}

// collect drops drafts and URL collisions, then sorts by URL. pages arrive
// in path order.
func (b *Builder) collect(pages []Page) []document.Document {
	seen := make(map[string]string, len(pages))
	docs := make([]document.Document, 0, len(pages))
	for _, p := range pages {
		if p.Draft {
			b.Log.Debug().Str("path", p.RelPath).Msg("skipping draft")
			continue
		}
		if prev, ok := seen[p.Doc.URL]; ok {
			b.Log.Warn().Str("path", p.RelPath).Str("kept", prev).Str("url", p.Doc.URL).Msg("duplicate page url")
			continue
		}
		seen[p.Doc.URL] = p.RelPath
		docs = append(docs, p.Doc)
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].URL < docs[j].URL })
	return docs
}

// Write stores docs as the JSON document set at path, creating parent
// directories as needed.
func Write(path string, docs []document.Document) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := document.Encode(f, docs); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
