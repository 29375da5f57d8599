package document

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	input := `[
		{"url": "/posts/cats/", "title": "Cats and Dogs", "description": "pets", "content": "all about cats", "image": "/img/cat.png", "date": "2024-03-01"},
		{"url": "/posts/untitled/", "content": "body only"}
	]`

	docs, err := Decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "/posts/cats/", docs[0].URL)
	assert.Equal(t, "Cats and Dogs", docs[0].Title)
	assert.Equal(t, "/img/cat.png", docs[0].Image)
	assert.Equal(t, "2024-03-01", docs[0].Date)
	assert.Empty(t, docs[1].Title)
	assert.Empty(t, docs[1].Image)
}

func TestDecodeMalformed(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"url": "not an array"}`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
}

func TestDecodeMissingURL(t *testing.T) {
	_, err := Decode(strings.NewReader(`[{"title": "orphan"}]`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformed))
	assert.True(t, errors.Is(err, ErrMissingURL))
}

func TestDisplayTitleFallsBackToURL(t *testing.T) {
	assert.Equal(t, "Hello", Document{URL: "/a/", Title: "Hello"}.DisplayTitle())
	assert.Equal(t, "/a/", Document{URL: "/a/"}.DisplayTitle())
	assert.Equal(t, "/a/", Document{URL: "/a/", Title: "   "}.DisplayTitle())
}

func TestThumbnailFallsBackToDefault(t *testing.T) {
	assert.Equal(t, "/img/x.png", Document{Image: "/img/x.png"}.Thumbnail("/images/profile.png"))
	assert.Equal(t, "/images/profile.png", Document{}.Thumbnail("/images/profile.png"))
}

func TestField(t *testing.T) {
	d := Document{Title: "t", Description: "d", Content: "c"}
	assert.Equal(t, "t", d.Field("title"))
	assert.Equal(t, "d", d.Field("description"))
	assert.Equal(t, "c", d.Field("content"))
	assert.Empty(t, d.Field("image"))
}

func TestEncodeThenDecode(t *testing.T) {
	var buf bytes.Buffer
	in := []Document{{URL: "/x/?a=1&b=2", Title: "<X>"}}
	require.NoError(t, Encode(&buf, in))
	assert.Contains(t, buf.String(), "&b=2", "html escaping should be off")

	out, err := Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestEncodeNilWritesEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
