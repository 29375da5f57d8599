// Package document defines the searchable page record shared by the site
// builder, the document-set loaders and every index backend.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrMalformed is returned when a document set cannot be decoded.
	ErrMalformed = errors.New("malformed document set")

	// ErrMissingURL is returned for a document without its identifying URL.
	ErrMissingURL = errors.New("document has no url")
)

// Document is one content page of the site.
type Document struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Image       string `json:"image,omitempty"`
	Date        string `json:"date,omitempty"`
}

// DisplayTitle returns the title, or the raw URL when the page has none.
func (d Document) DisplayTitle() string {
	if strings.TrimSpace(d.Title) == "" {
		return d.URL
	}
	return d.Title
}

// Thumbnail returns the page image, or defaultImage when the page has none.
func (d Document) Thumbnail(defaultImage string) string {
	if strings.TrimSpace(d.Image) == "" {
		return defaultImage
	}
	return d.Image
}

// Field returns the text of a named index field.
func (d Document) Field(name string) string {
	switch name {
	case "title":
		return d.Title
	case "description":
		return d.Description
	case "content":
		return d.Content
	default:
		return ""
	}
}

// Validate checks the invariants a document must satisfy before indexing.
func (d Document) Validate() error {
	if strings.TrimSpace(d.URL) == "" {
		return ErrMissingURL
	}
	return nil
}

// Decode parses a JSON array of documents.
func Decode(r io.Reader) ([]Document, error) {
	var docs []Document
	if err := json.NewDecoder(r).Decode(&docs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for i, d := range docs {
		if err := d.Validate(); err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", ErrMalformed, i, err)
		}
	}
	return docs, nil
}

// Encode writes docs as an indented JSON array.
func Encode(w io.Writer, docs []Document) error {
	if docs == nil {
		docs = []Document{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(docs)
}
