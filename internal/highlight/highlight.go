// Package highlight builds highlight fragments: snippets of text in which the
// substrings matching a query are marked for emphasis.
package highlight

import (
	"html"
	"strings"
	"unicode"
)

// DefaultEllipsis marks a side of a fragment that was cropped.
const DefaultEllipsis = "…"

// Segment is a run of fragment text that is either matched or not.
type Segment struct {
	Text  string `json:"text"`
	Match bool   `json:"match,omitempty"`
}

// Fragment is an ordered list of segments.
type Fragment struct {
	Segments []Segment `json:"segments"`
}

// Options controls fragment construction.
type Options struct {
	// Window crops the fragment to this many runes around the first match.
	// Zero keeps the whole text.
	Window int
	// Ellipsis replaces cropped text. Defaults to DefaultEllipsis.
	Ellipsis string
}

// Text returns the fragment without any markup.
func (f Fragment) Text() string {
	var b strings.Builder
	for _, s := range f.Segments {
		b.WriteString(s.Text)
	}
	return b.String()
}

// HTML returns the escaped fragment with matches wrapped in <mark>.
func (f Fragment) HTML() string {
	var b strings.Builder
	for _, s := range f.Segments {
		if s.Match {
			b.WriteString("<mark>")
			b.WriteString(html.EscapeString(s.Text))
			b.WriteString("</mark>")
			continue
		}
		b.WriteString(html.EscapeString(s.Text))
	}
	return b.String()
}

// Matched reports whether any segment is a match.
func (f Fragment) Matched() bool {
	for _, s := range f.Segments {
		if s.Match {
			return true
		}
	}
	return false
}

// IsZero reports whether the fragment carries no text at all.
func (f Fragment) IsZero() bool {
	return len(f.Segments) == 0
}

// Terms splits a query into distinct lowercase terms.
func Terms(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !isWordRune(r)
	})
	seen := make(map[string]bool, len(fields))
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		terms = append(terms, f)
	}
	return terms
}

type span struct{ start, end int }

// Build marks every occurrence of terms in text. A term matches at the start
// of a word (prefix semantics) or anywhere inside CJK text, case-insensitively.
// When several terms match at the same position the longest one wins.
func Build(text string, terms []string, opts Options) Fragment {
	runes := []rune(text)
	lower := make([]rune, len(runes))
	for i, r := range runes {
		lower[i] = unicode.ToLower(r)
	}

	termRunes := make([][]rune, 0, len(terms))
	for _, t := range terms {
		if t == "" {
			continue
		}
		tr := []rune(strings.ToLower(t))
		termRunes = append(termRunes, tr)
	}

	var spans []span
	for i := 0; i < len(lower); {
		if !isBoundary(lower, i) {
			i++
			continue
		}
		best := 0
		for _, tr := range termRunes {
			if len(tr) > best && hasPrefixAt(lower, i, tr) {
				best = len(tr)
			}
		}
		if best == 0 {
			i++
			continue
		}
		spans = append(spans, span{i, i + best})
		i += best
	}

	start, end := 0, len(runes)
	if opts.Window > 0 && len(runes) > opts.Window {
		start, end = cropWindow(runes, spans, opts.Window)
	}

	ellipsis := opts.Ellipsis
	if ellipsis == "" {
		ellipsis = DefaultEllipsis
	}

	var f Fragment
	if start > 0 {
		f.add(ellipsis, false)
	}
	pos := start
	for _, sp := range spans {
		if sp.end <= start || sp.start >= end {
			continue
		}
		s, e := max(sp.start, start), min(sp.end, end)
		f.add(string(runes[pos:s]), false)
		f.add(string(runes[s:e]), true)
		pos = e
	}
	f.add(string(runes[pos:end]), false)
	if end < len(runes) {
		f.add(ellipsis, false)
	}
	return f
}

// Parse converts text in which matches are delimited by pre and post markers
// into a fragment. An unterminated marker extends to the end of the text.
func Parse(text, pre, post string) Fragment {
	var f Fragment
	if pre == "" || post == "" {
		f.add(text, false)
		return f
	}
	for text != "" {
		i := strings.Index(text, pre)
		if i < 0 {
			f.add(text, false)
			break
		}
		f.add(text[:i], false)
		text = text[i+len(pre):]
		j := strings.Index(text, post)
		if j < 0 {
			f.add(text, true)
			break
		}
		f.add(text[:j], true)
		text = text[j+len(post):]
	}
	return f
}

// Plain wraps text in a fragment with no matches.
func Plain(text string) Fragment {
	var f Fragment
	f.add(text, false)
	return f
}

func (f *Fragment) add(text string, match bool) {
	if text == "" {
		return
	}
	if n := len(f.Segments); n > 0 && f.Segments[n-1].Match == match {
		f.Segments[n-1].Text += text
		return
	}
	f.Segments = append(f.Segments, Segment{Text: text, Match: match})
}

// cropWindow picks a window of the given size that keeps a little context
// before the first match and does not start mid-word.
func cropWindow(runes []rune, spans []span, window int) (int, int) {
	anchor := 0
	if len(spans) > 0 {
		anchor = spans[0].start
	}
	start := anchor - window/4
	if start < 0 {
		start = 0
	}
	if start+window > len(runes) {
		start = len(runes) - window
	}
	if start > 0 {
		for i := start; i < anchor && i < len(runes); i++ {
			if unicode.IsSpace(runes[i]) {
				start = i + 1
				break
			}
		}
	}
	end := start + window
	if end > len(runes) {
		end = len(runes)
	}
	return start, end
}

func hasPrefixAt(text []rune, at int, prefix []rune) bool {
	if at+len(prefix) > len(text) {
		return false
	}
	for i, r := range prefix {
		if text[at+i] != r {
			return false
		}
	}
	return true
}

func isBoundary(text []rune, i int) bool {
	if !isWordRune(text[i]) {
		return false
	}
	return i == 0 || !isWordRune(text[i-1]) || IsCJK(text[i])
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsCJK reports whether r belongs to a script written without spaces.
func IsCJK(r rune) bool {
	return unicode.In(r, unicode.Han, unicode.Hiragana, unicode.Katakana, unicode.Hangul)
}
