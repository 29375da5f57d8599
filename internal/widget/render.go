package widget

import (
	"strings"

	"github.com/araddon/dateparse"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ziadkadry99/sitesearch/internal/document"
	"github.com/ziadkadry99/sitesearch/internal/highlight"
	"github.com/ziadkadry99/sitesearch/internal/index"
)

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, Data: a.String(), DataAtom: a, Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Container returns an empty results container.
func Container() *html.Node {
	return element(atom.Ul, attr("id", ResultsID))
}

// ErrorNotice returns a results container holding only a visible error
// message.
func ErrorNotice(msg string) *html.Node {
	ul := Container()
	li := element(atom.Li, attr("class", "search-error"), attr("role", "alert"))
	li.AppendChild(text(msg))
	ul.AppendChild(li)
	return ul
}

// Render builds a fresh results container with one card per result.
func (w *Widget) Render(results []index.Result) *html.Node {
	ul := Container()
	for _, r := range results {
		ul.AppendChild(w.card(r))
	}
	return ul
}

// card lays out one result:
//
//	<li class="search-result">
//	  <img class="search-thumb" src="...">
//	  <div class="search-body">
//	    <a href="url">title</a> <time>date</time> <p class="snippet">...</p>
//	  </div>
//	</li>
func (w *Widget) card(r index.Result) *html.Node {
	doc := r.Document
	li := element(atom.Li, attr("class", "search-result"))

	li.AppendChild(element(atom.Img,
		attr("class", "search-thumb"),
		attr("src", doc.Thumbnail(w.defaultImage)),
		attr("alt", ""),
		attr("loading", "lazy"),
	))

	body := element(atom.Div, attr("class", "search-body"))
	li.AppendChild(body)

	a := element(atom.A, attr("href", doc.URL))
	if r.Field == index.FieldTitle && r.Highlight.Matched() && strings.TrimSpace(doc.Title) != "" {
		appendFragment(a, r.Highlight)
	} else {
		a.AppendChild(text(doc.DisplayTitle()))
	}
	body.AppendChild(a)

	if t := w.dateNode(doc.Date); t != nil {
		body.AppendChild(t)
	}

	if snippet := snippetFragment(r); !snippet.IsZero() {
		p := element(atom.P, attr("class", "snippet"))
		appendFragment(p, snippet)
		body.AppendChild(p)
	}
	return li
}

// snippetFragment is the highlighted body or description match, or the plain
// description when the hit was on the title.
func snippetFragment(r index.Result) highlight.Fragment {
	if r.Field != index.FieldTitle && !r.Highlight.IsZero() {
		return r.Highlight
	}
	if d := strings.TrimSpace(r.Document.Description); d != "" {
		return highlight.Plain(d)
	}
	return highlight.Fragment{}
}

func appendFragment(n *html.Node, f highlight.Fragment) {
	for _, s := range f.Segments {
		if !s.Match {
			n.AppendChild(text(s.Text))
			continue
		}
		m := element(atom.Mark)
		m.AppendChild(text(s.Text))
		n.AppendChild(m)
	}
}

// dateNode formats a document date. Dates dateparse cannot read are shown
// as written.
func (w *Widget) dateNode(raw string) *html.Node {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	t := element(atom.Time)
	parsed, err := dateparse.ParseIn(raw, w.location)
	if err != nil {
		t.AppendChild(text(raw))
		return t
	}
	t.Attr = append(t.Attr, attr("datetime", parsed.Format("2006-01-02")))
	t.AppendChild(text(parsed.Format(w.dateLayout)))
	return t
}

// FormatDate renders a document date the way result cards show it.
func (w *Widget) FormatDate(d document.Document) string {
	n := w.dateNode(d.Date)
	if n == nil || n.FirstChild == nil {
		return ""
	}
	return n.FirstChild.Data
}

// Thumbnail returns the image a card shows for d.
func (w *Widget) Thumbnail(d document.Document) string {
	return d.Thumbnail(w.defaultImage)
}
