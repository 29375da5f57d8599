package widget

import (
	"slices"
	"strings"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Visibility tracks whether the results wrapper is shown. The wrapper is
// visible while the search input has focus.
type Visibility struct {
	mu     sync.Mutex
	hidden bool
}

// NewVisibility starts hidden, as the host page does.
func NewVisibility() *Visibility {
	return &Visibility{hidden: true}
}

func (v *Visibility) Focus() {
	v.mu.Lock()
	v.hidden = false
	v.mu.Unlock()
}

func (v *Visibility) Blur() {
	v.mu.Lock()
	v.hidden = true
	v.mu.Unlock()
}

func (v *Visibility) Hidden() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.hidden
}

// Wrap places container inside the results wrapper, carrying the hidden
// class while the input is blurred.
func (v *Visibility) Wrap(container *html.Node) *html.Node {
	div := element(atom.Div, attr("id", WrapperID))
	SetHidden(div, v.Hidden())
	if container != nil {
		div.AppendChild(container)
	}
	return div
}

// SetHidden adds or removes the hidden class on n.
func SetHidden(n *html.Node, hidden bool) {
	for i, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		classes := slices.DeleteFunc(strings.Fields(a.Val), func(c string) bool { return c == HiddenClass })
		if hidden {
			classes = append(classes, HiddenClass)
		}
		n.Attr[i].Val = strings.Join(classes, " ")
		return
	}
	if hidden {
		n.Attr = append(n.Attr, attr("class", HiddenClass))
	}
}

// HasClass reports whether n carries class c.
func HasClass(n *html.Node, c string) bool {
	for _, a := range n.Attr {
		if a.Key == "class" && slices.Contains(strings.Fields(a.Val), c) {
			return true
		}
	}
	return false
}
