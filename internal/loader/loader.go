// Package loader fetches the document-set resource the widget indexes.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ziadkadry99/sitesearch/internal/document"
)

// ErrLoad is matched by every loader failure, transport or parse.
var ErrLoad = errors.New("load document set")

// Loader fetches the full document set.
type Loader interface {
	Load(ctx context.Context) ([]document.Document, error)
}

// FetchError reports a transport failure reading a source.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.Source, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is makes every FetchError match ErrLoad.
func (e *FetchError) Is(target error) bool { return target == ErrLoad }

// Func adapts a function to the Loader interface.
type Func func(ctx context.Context) ([]document.Document, error)

func (f Func) Load(ctx context.Context) ([]document.Document, error) { return f(ctx) }

type options struct {
	httpClient *http.Client
	s3Region   string
	s3Endpoint string
	s3Client   ObjectGetter
}

// Option configures New.
type Option func(*options)

// WithHTTPClient sets the client used for http(s) sources.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithS3Region overrides the region from the AWS environment.
func WithS3Region(region string) Option {
	return func(o *options) { o.s3Region = region }
}

// WithS3Endpoint points s3:// sources at an S3-compatible endpoint.
func WithS3Endpoint(endpoint string) Option {
	return func(o *options) { o.s3Endpoint = endpoint }
}

// WithS3Client supplies a ready client for s3:// sources.
func WithS3Client(c ObjectGetter) Option {
	return func(o *options) { o.s3Client = c }
}

// New picks a loader by the source's scheme: http(s)://, s3://bucket/key, or
// a local file path.
func New(source string, opts ...Option) (Loader, error) {
	o := options{httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(&o)
	}

	switch {
	case source == "":
		return nil, fmt.Errorf("%w: empty source", ErrLoad)
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return &HTTP{URL: source, Client: o.httpClient}, nil
	case strings.HasPrefix(source, "s3://"):
		bucket, key, err := ParseS3URL(source)
		if err != nil {
			return nil, err
		}
		return &S3{
			Bucket:   bucket,
			Key:      key,
			Region:   o.s3Region,
			Endpoint: o.s3Endpoint,
			Client:   o.s3Client,
		}, nil
	default:
		return &File{Path: strings.TrimPrefix(source, "file://")}, nil
	}
}

// decode parses a document set, tagging parse failures with ErrLoad.
func decode(source string, r io.Reader) ([]document.Document, error) {
	docs, err := document.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w from %s: %w", ErrLoad, source, err)
	}
	return docs, nil
}
