package loader

import (
	"context"
	"os"

	"github.com/ziadkadry99/sitesearch/internal/document"
)

// File reads the document set from a local path.
type File struct {
	Path string
}

func (f *File) Load(ctx context.Context) ([]document.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, &FetchError{Source: f.Path, Err: err}
	}
	defer fh.Close()
	return decode(f.Path, fh)
}
