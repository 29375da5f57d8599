package site

import (
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// descriptionLimit caps a description taken from the page body, in runes.
const descriptionLimit = 200

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// pageText is what a page body contributes to its document.
type pageText struct {
	Title     string // First level-one heading, or the HTML <title>.
	Paragraph string // First paragraph.
	Content   string
}

// markdownText renders a markdown body to plain text through the goldmark AST.
func markdownText(source []byte) pageText {
	doc := markdown.Parser().Parse(text.NewReader(source))

	var out pageText
	var buf strings.Builder
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			if n.Type() == ast.TypeBlock {
				buf.WriteByte(' ')
			}
			return ast.WalkContinue, nil
		}
		switch n := n.(type) {
		case *ast.Heading:
			if n.Level == 1 && out.Title == "" {
				out.Title = inlineText(n, source)
			}
		case *ast.Paragraph:
			if out.Paragraph == "" {
				out.Paragraph = inlineText(n, source)
			}
		case *ast.FencedCodeBlock, *ast.CodeBlock:
			writeLines(&buf, n, source)
			return ast.WalkSkipChildren, nil
		case *ast.HTMLBlock:
			var raw bytes.Buffer
			writeLines(&raw, n, source)
			buf.WriteString(htmlText(raw.Bytes()).Content)
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		writeInline(&buf, n, source)
		return ast.WalkContinue, nil
	})

	out.Content = collapse(buf.String())
	return out
}

// inlineText returns the plain text under n.
func inlineText(n ast.Node, source []byte) string {
	var buf strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if _, ok := c.(*ast.RawHTML); ok {
			return ast.WalkSkipChildren, nil
		}
		writeInline(&buf, c, source)
		return ast.WalkContinue, nil
	})
	return collapse(buf.String())
}

func writeInline(buf *strings.Builder, n ast.Node, source []byte) {
	switch n := n.(type) {
	case *ast.Text:
		buf.Write(n.Segment.Value(source))
		if n.SoftLineBreak() || n.HardLineBreak() {
			buf.WriteByte(' ')
		}
	case *ast.String:
		buf.Write(n.Value)
	case *ast.AutoLink:
		buf.Write(n.Label(source))
	}
}

func writeLines(w io.Writer, n ast.Node, source []byte) {
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		_, _ = w.Write(seg.Value(source))
	}
}

// htmlText extracts the text of an HTML page or fragment, skipping scripts
// and styles.
func htmlText(source []byte) pageText {
	var out pageText
	doc, err := html.Parse(bytes.NewReader(source))
	if err != nil {
		return out
	}

	var buf strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Noscript, atom.Template:
				return
			case atom.Title:
				if out.Title == "" {
					out.Title = collapse(nodeText(n))
				}
				return
			case atom.H1:
				if out.Title == "" {
					out.Title = collapse(nodeText(n))
				}
			case atom.P:
				if out.Paragraph == "" {
					out.Paragraph = collapse(nodeText(n))
				}
			}
		}
		block := n.Type == html.ElementNode && !inlineElements[n.DataAtom]
		if block {
			buf.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if block {
			buf.WriteByte(' ')
		}
	}
	walk(doc)

	out.Content = collapse(buf.String())
	return out
}

var inlineElements = map[atom.Atom]bool{
	atom.A: true, atom.Abbr: true, atom.B: true, atom.Code: true, atom.Em: true,
	atom.I: true, atom.Kbd: true, atom.Mark: true, atom.Q: true, atom.S: true,
	atom.Small: true, atom.Span: true, atom.Strong: true, atom.Sub: true,
	atom.Sup: true, atom.Time: true, atom.U: true,
}

func nodeText(n *html.Node) string {
	var buf strings.Builder
	for d := range n.Descendants() {
		if d.Type == html.TextNode {
			buf.WriteString(d.Data)
		}
	}
	return buf.String()
}

// collapse trims s and folds every whitespace run into one space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// summarize shortens s to at most descriptionLimit runes, cutting at a word
// boundary.
func summarize(s string) string {
	if utf8.RuneCountInString(s) <= descriptionLimit {
		return s
	}
	runes := []rune(s)[:descriptionLimit]
	cut := string(runes)
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
