package site

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/ziadkadry99/sitesearch/internal/document"
	"github.com/ziadkadry99/sitesearch/internal/frontmatter"
	"github.com/ziadkadry99/sitesearch/internal/walker"
)

// Page is a parsed content file.
type Page struct {
	RelPath string
	Draft   bool
	Doc     document.Document
}

// ParsePage turns one content file into its document. rel is the slash
// separated path below the content root.
func ParsePage(rel string, format walker.Format, data []byte, baseURL string) (Page, error) {
	meta, body, err := frontmatter.Parse(data)
	if err != nil {
		return Page{}, fmt.Errorf("%s: %w", rel, err)
	}

	var extracted pageText
	switch format {
	case walker.HTML:
		extracted = htmlText(body)
	default:
		extracted = markdownText(body)
	}

	doc := document.Document{
		URL:         absURL(baseURL, PageURL(rel, meta)),
		Title:       firstString(meta, "title"),
		Description: firstString(meta, "description", "summary"),
		Content:     extracted.Content,
		Image:       imageOf(meta),
		Date:        dateOf(meta),
	}
	if doc.Title == "" {
		doc.Title = extracted.Title
	}
	if doc.Description == "" {
		doc.Description = summarize(extracted.Paragraph)
	}

	draft, _ := meta["draft"].(bool)
	return Page{RelPath: rel, Draft: draft, Doc: doc}, nil
}

// PageURL derives the site path of a content file. index.md and _index.md
// stand for their directory; front matter url replaces the whole path and
// slug replaces the last segment.
func PageURL(rel string, meta map[string]any) string {
	if u := firstString(meta, "url"); u != "" {
		if !strings.HasPrefix(u, "/") {
			u = "/" + u
		}
		return u
	}

	dir, file := path.Split(rel)
	name := strings.TrimSuffix(file, path.Ext(file))

	var segs []string
	if dir = strings.Trim(dir, "/"); dir != "" {
		segs = strings.Split(dir, "/")
	}
	slug := firstString(meta, "slug")
	switch strings.ToLower(name) {
	case "index", "_index":
		if slug != "" && len(segs) > 0 {
			segs[len(segs)-1] = slug
		}
	default:
		if slug != "" {
			name = slug
		}
		segs = append(segs, name)
	}
	if len(segs) == 0 {
		return "/"
	}
	for i, s := range segs {
		segs[i] = urlize(s)
	}
	return "/" + strings.Join(segs, "/") + "/"
}

func urlize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), "-"))
}

func absURL(base, u string) string {
	if base == "" {
		return u
	}
	return strings.TrimRight(base, "/") + u
}

// firstString returns the first non-empty string value among keys.
func firstString(meta map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := meta[k].(type) {
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		case nil:
		default:
			if s := strings.TrimSpace(fmt.Sprint(v)); s != "" {
				return s
			}
		}
	}
	return ""
}

func imageOf(meta map[string]any) string {
	if img := firstString(meta, "image", "featured_image", "cover"); img != "" {
		return img
	}
	if imgs, ok := meta["images"].([]any); ok && len(imgs) > 0 {
		if s, ok := imgs[0].(string); ok {
			return s
		}
	}
	return ""
}

// dateOf formats the page date. Dates without a clock in UTC keep the short
// form.
func dateOf(meta map[string]any) string {
	for _, k := range []string{"date", "publishDate"} {
		switch v := meta[k].(type) {
		case time.Time:
			_, offset := v.Zone()
			if offset == 0 && v.Hour() == 0 && v.Minute() == 0 && v.Second() == 0 && v.Nanosecond() == 0 {
				return v.Format("2006-01-02")
			}
			return v.Format(time.RFC3339)
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return s
			}
		}
	}
	return ""
}
