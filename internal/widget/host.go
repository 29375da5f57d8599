package widget

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/net/html"
)

// ErrMissingElement is returned when a host page lacks an element the widget
// binds to.
var ErrMissingElement = errors.New("host page is missing a search element")

// RequiredIDs are the element ids a host page must provide.
var RequiredIDs = []string{InputID, ResultsID, WrapperID}

// CheckHostPage parses a host page and verifies it provides every element
// the widget binds to.
func CheckHostPage(r io.Reader) error {
	doc, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("parse host page: %w", err)
	}
	found := make(map[string]bool, len(RequiredIDs))
	for n := range doc.Descendants() {
		if n.Type != html.ElementNode {
			continue
		}
		for _, a := range n.Attr {
			if a.Key == "id" {
				found[a.Val] = true
			}
		}
	}
	for _, id := range RequiredIDs {
		if !found[id] {
			return fmt.Errorf("%w: #%s", ErrMissingElement, id)
		}
	}
	return nil
}
