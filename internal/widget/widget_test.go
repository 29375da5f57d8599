package widget

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/ziadkadry99/sitesearch/internal/document"
	"github.com/ziadkadry99/sitesearch/internal/highlight"
	"github.com/ziadkadry99/sitesearch/internal/index"
	"github.com/ziadkadry99/sitesearch/internal/index/memory"
	"github.com/ziadkadry99/sitesearch/internal/loader"
)

// countingLoader serves a fixed document set and counts fetches.
type countingLoader struct {
	docs  []document.Document
	err   error
	calls atomic.Int32
}

func (c *countingLoader) Load(ctx context.Context) ([]document.Document, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.docs, nil
}

func catDocs() []document.Document {
	return []document.Document{
		{URL: "/posts/cats-and-dogs/", Title: "Cats and Dogs", Description: "Living with both", Content: "A cat and a dog can share a home."},
		{URL: "/posts/category-theory/", Title: "Category Theory", Description: "Arrows all the way down", Content: "Objects, morphisms and the category of sets."},
		{URL: "/posts/go/", Title: "Learning Go", Description: "Goroutines", Content: "Channels and select."},
	}
}

func newWidget(t *testing.T, l loader.Loader, opts ...Option) *Widget {
	t.Helper()
	return New(l, memory.New(), opts...)
}

// elements collects every element with tag a under n.
func elements(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	for d := range n.Descendants() {
		if d.Type == html.ElementNode && d.DataAtom == a {
			out = append(out, d)
		}
	}
	return out
}

func textOf(n *html.Node) string {
	var b strings.Builder
	for d := range n.Descendants() {
		if d.Type == html.TextNode {
			b.WriteString(d.Data)
		}
	}
	return b.String()
}

func attrOf(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func TestShortQueriesRenderEmptyContainer(t *testing.T) {
	l := &countingLoader{docs: catDocs()}
	w := newWidget(t, l)

	for _, q := range []string{"", " ", "c", "  c  ", "\t\n", "猫"} {
		v, err := w.HandleInput(context.Background(), q)
		require.NoError(t, err, q)
		assert.Nil(t, v.Node.FirstChild, "query %q should render an empty container", q)
		assert.Equal(t, ResultsID, attrOf(v.Node, "id"))
		assert.Empty(t, v.Results)
	}
	assert.Equal(t, int32(0), l.calls.Load(), "short queries must not fetch")
	assert.Equal(t, Idle, w.State())
}

func TestCatScenario(t *testing.T) {
	w := newWidget(t, &countingLoader{docs: catDocs()})

	v, err := w.HandleInput(context.Background(), "cat")
	require.NoError(t, err)
	assert.Equal(t, Ready, v.State)

	cards := elements(v.Node, atom.Li)
	require.Len(t, cards, 2)

	urls := map[string]int{}
	for _, c := range cards {
		links := elements(c, atom.A)
		require.Len(t, links, 1)
		urls[attrOf(links[0], "href")]++

		marks := elements(links[0], atom.Mark)
		require.NotEmpty(t, marks, "title of %s should be highlighted", attrOf(links[0], "href"))
		assert.Equal(t, "cat", strings.ToLower(textOf(marks[0])))
	}
	assert.Equal(t, map[string]int{"/posts/cats-and-dogs/": 1, "/posts/category-theory/": 1}, urls)
}

func TestNoDuplicateURLs(t *testing.T) {
	// "dog" matches the first document in its title and in its content.
	w := newWidget(t, &countingLoader{docs: catDocs()})
	for _, q := range []string{"dog", "cat", "category", "the", "go"} {
		v, err := w.HandleInput(context.Background(), q)
		require.NoError(t, err)
		seen := map[string]bool{}
		for _, a := range elements(v.Node, atom.A) {
			href := attrOf(a, "href")
			assert.False(t, seen[href], "query %q rendered %s twice", q, href)
			seen[href] = true
		}
	}
}

func TestDedupeKeepsFirstSeenOrder(t *testing.T) {
	in := []index.Result{
		{Document: document.Document{URL: "/b/"}, Field: index.FieldTitle},
		{Document: document.Document{URL: "/a/"}, Field: index.FieldTitle},
		{Document: document.Document{URL: "/b/"}, Field: index.FieldContent},
		{Document: document.Document{URL: "/c/"}, Field: index.FieldContent},
		{Document: document.Document{URL: "/a/"}, Field: index.FieldContent},
	}
	out := Dedupe(in)
	require.Len(t, out, 3)
	assert.Equal(t, "/b/", out[0].Document.URL)
	assert.Equal(t, index.FieldTitle, out[0].Field)
	assert.Equal(t, "/a/", out[1].Document.URL)
	assert.Equal(t, "/c/", out[2].Document.URL)
}

func TestMissingTitleFallsBackToURL(t *testing.T) {
	w := newWidget(t, &countingLoader{docs: []document.Document{
		{URL: "/untitled/", Content: "a quiet cat"},
	}})
	v, err := w.HandleInput(context.Background(), "quiet")
	require.NoError(t, err)
	links := elements(v.Node, atom.A)
	require.Len(t, links, 1)
	assert.Equal(t, "/untitled/", textOf(links[0]))
}

func TestMissingImageFallsBackToDefault(t *testing.T) {
	docs := []document.Document{
		{URL: "/plain/", Title: "Plain page"},
		{URL: "/pic/", Title: "Picture page", Image: "/img/pic.png"},
	}
	w := newWidget(t, &countingLoader{docs: docs})
	v, err := w.HandleInput(context.Background(), "page")
	require.NoError(t, err)

	srcs := map[string]string{}
	for _, c := range elements(v.Node, atom.Li) {
		img := elements(c, atom.Img)
		require.Len(t, img, 1)
		srcs[attrOf(elements(c, atom.A)[0], "href")] = attrOf(img[0], "src")
	}
	assert.Equal(t, "/images/profile.png", srcs["/plain/"])
	assert.Equal(t, "/img/pic.png", srcs["/pic/"])
}

func TestDefaultImageOption(t *testing.T) {
	w := newWidget(t, &countingLoader{docs: []document.Document{{URL: "/x/", Title: "Example"}}},
		WithDefaultImage("/static/blank.svg"))
	v, err := w.HandleInput(context.Background(), "example")
	require.NoError(t, err)
	img := elements(v.Node, atom.Img)
	require.Len(t, img, 1)
	assert.Equal(t, "/static/blank.svg", attrOf(img[0], "src"))
}

func TestLoadsExactlyOnce(t *testing.T) {
	l := &countingLoader{docs: catDocs()}
	w := newWidget(t, l)
	ctx := context.Background()

	for _, q := range []string{"cat", "dog", "go", "category", "x", "cats"} {
		_, err := w.HandleInput(ctx, q)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), l.calls.Load())
	assert.Equal(t, 3, w.Len())
}

func TestConcurrentFirstQueriesShareOneLoad(t *testing.T) {
	l := &countingLoader{docs: catDocs()}
	w := newWidget(t, l)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.HandleInput(context.Background(), "cat")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), l.calls.Load())
}

func TestPopulatedIndexSkipsFetch(t *testing.T) {
	idx := memory.New()
	require.NoError(t, idx.Add(context.Background(), document.Document{URL: "/pre/", Title: "Preloaded"}))
	l := &countingLoader{docs: catDocs()}
	w := New(l, idx)

	v, err := w.HandleInput(context.Background(), "preloaded")
	require.NoError(t, err)
	assert.Len(t, v.Results, 1)
	assert.Equal(t, int32(0), l.calls.Load())
}

func TestLoadFailureRendersNoticeAndRetries(t *testing.T) {
	l := &countingLoader{err: &loader.FetchError{Source: "/index.json", Err: errors.New("connection refused")}}
	w := newWidget(t, l)
	ctx := context.Background()

	v, err := w.HandleInput(ctx, "cat")
	require.Error(t, err)
	assert.ErrorIs(t, err, loader.ErrLoad)
	assert.Equal(t, Failed, v.State)
	assert.Equal(t, Failed, w.State())
	assert.ErrorIs(t, w.Err(), loader.ErrLoad)
	assert.Contains(t, v.HTML(), `role="alert"`)
	assert.Empty(t, elements(v.Node, atom.A))

	// The next input retries and recovers.
	l.err = nil
	l.docs = catDocs()
	v, err = w.HandleInput(ctx, "cat")
	require.NoError(t, err)
	assert.Equal(t, Ready, v.State)
	assert.Len(t, v.Results, 2)
	assert.NoError(t, w.Err())
	assert.Equal(t, int32(2), l.calls.Load())
}

func TestInvalidDocumentFailsLoad(t *testing.T) {
	w := newWidget(t, &countingLoader{docs: []document.Document{{Title: "no url"}}})
	err := w.LoadData(context.Background())
	assert.ErrorIs(t, err, document.ErrMissingURL)
	assert.Equal(t, Failed, w.State())
}

type failingIndex struct{ index.Index }

func (failingIndex) Query(context.Context, string) ([]index.Result, error) {
	return nil, errors.New("index offline")
}

func TestQueryFailureRendersNotice(t *testing.T) {
	w := New(&countingLoader{docs: catDocs()}, failingIndex{memory.New()})
	v, err := w.HandleInput(context.Background(), "cat")
	require.Error(t, err)
	assert.Equal(t, Ready, v.State)
	assert.Contains(t, v.HTML(), "search-error")
}

func TestRenderSnippetAndDate(t *testing.T) {
	w := newWidget(t, nil)
	results := []index.Result{
		{
			Document: document.Document{URL: "/a/", Title: "Alpha", Description: "first <b>letter</b>", Date: "2024-03-05"},
			Field:    index.FieldTitle,
			Highlight: highlight.Fragment{Segments: []highlight.Segment{
				{Text: "Alp", Match: true}, {Text: "ha"},
			}},
		},
		{
			Document:  document.Document{URL: "/b/", Title: "Beta", Date: "sometime in spring"},
			Field:     index.FieldContent,
			Highlight: highlight.Build("the alphabet song", []string{"alpha"}, highlight.Options{}),
		},
	}
	out := w.Render(results)
	s := (View{Node: out}).HTML()

	assert.Contains(t, s, `<a href="/a/"><mark>Alp</mark>ha</a>`)
	assert.Contains(t, s, `<time datetime="2024-03-05">Mar 5, 2024</time>`)
	assert.Contains(t, s, `<p class="snippet">first &lt;b&gt;letter&lt;/b&gt;</p>`)
	assert.Contains(t, s, `<time>sometime in spring</time>`)
	assert.Contains(t, s, `<p class="snippet">the <mark>alpha</mark>bet song</p>`)
}

func TestRenderReplacesContainer(t *testing.T) {
	w := newWidget(t, &countingLoader{docs: catDocs()})
	first, err := w.HandleInput(context.Background(), "cat")
	require.NoError(t, err)
	second, err := w.HandleInput(context.Background(), "go")
	require.NoError(t, err)
	assert.NotSame(t, first.Node, second.Node)
	assert.Len(t, elements(first.Node, atom.Li), 2)
}

func TestMinQueryLengthOption(t *testing.T) {
	l := &countingLoader{docs: catDocs()}
	w := newWidget(t, l, WithMinQueryLength(4))
	v, err := w.HandleInput(context.Background(), "cat")
	require.NoError(t, err)
	assert.Nil(t, v.Node.FirstChild)
	assert.Equal(t, int32(0), l.calls.Load())
}

func TestSessionIsStable(t *testing.T) {
	w1 := newWidget(t, nil)
	w2 := newWidget(t, nil)
	assert.Equal(t, w1.Session(), w1.Session())
	assert.NotEqual(t, w1.Session(), w2.Session())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "failed", Failed.String())
	b, err := Ready.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "ready", string(b))
}
