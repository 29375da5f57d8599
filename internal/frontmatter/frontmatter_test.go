package frontmatter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		format Format
		fm     string
		body   string
	}{
		{"none", "# Title\n", None, "", "# Title\n"},
		{"empty", "", None, "", ""},
		{"yaml", "---\ntitle: A\n---\nbody\n", YAML, "title: A\n", "body\n"},
		{"toml", "+++\ntitle = \"A\"\n+++\nbody\n", TOML, "title = \"A\"\n", "body\n"},
		{"crlf", "---\r\ntitle: A\r\n---\r\nbody", YAML, "title: A\r\n", "body"},
		{"empty block", "---\n---\nbody", YAML, "", "body"},
		{"no trailing newline", "+++\na = 1\n+++", TOML, "a = 1\n", ""},
		{"delimiter later in file", "intro\n---\nx\n---\n", None, "", "intro\n---\nx\n---\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			format, fm, body, err := Split([]byte(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.format, format)
			assert.Equal(t, tt.fm, string(fm))
			assert.Equal(t, tt.body, string(body))
		})
	}
}

func TestSplitUnterminated(t *testing.T) {
	_, _, _, err := Split([]byte("---\ntitle: A\nno end\n"))
	assert.ErrorIs(t, err, ErrUnterminated)
}

func TestParseYAML(t *testing.T) {
	meta, body, err := Parse([]byte("---\ntitle: Cats\nimage: /img/cat.png\ndraft: true\n---\nAll about cats.\n"))
	require.NoError(t, err)
	assert.Equal(t, "Cats", meta["title"])
	assert.Equal(t, "/img/cat.png", meta["image"])
	assert.Equal(t, true, meta["draft"])
	assert.Equal(t, "All about cats.\n", string(body))
}

func TestParseTOML(t *testing.T) {
	meta, body, err := Parse([]byte("+++\ntitle = \"Dogs\"\ntags = [\"pets\"]\n+++\nWoof.\n"))
	require.NoError(t, err)
	assert.Equal(t, "Dogs", meta["title"])
	assert.Equal(t, []any{"pets"}, meta["tags"])
	assert.Equal(t, "Woof.\n", string(body))
}

func TestParseWithoutFrontMatter(t *testing.T) {
	meta, body, err := Parse([]byte("plain"))
	require.NoError(t, err)
	assert.Empty(t, meta)
	assert.Equal(t, "plain", string(body))
}

func TestParseInvalid(t *testing.T) {
	_, _, err := Parse([]byte("---\ntitle: [oops\n---\n"))
	assert.Error(t, err)

	_, _, err = Parse([]byte("+++\ntitle = \n+++\n"))
	assert.Error(t, err)
}

func TestConvert(t *testing.T) {
	in := "+++\ntitle = \"Hello\"\ndate = 2024-01-02\ntags = [\"a\", \"b\"]\ndraft = false\n+++\nBody = text\n"

	out, changed, err := Convert([]byte(in))
	require.NoError(t, err)
	require.True(t, changed)

	s := string(out)
	assert.True(t, strings.HasPrefix(s, "---\n"))
	assert.True(t, strings.HasSuffix(s, "---\nBody = text\n"), "body must be untouched: %q", s)
	assert.Contains(t, s, "title: Hello\n")
	assert.Contains(t, s, "date: 2024-01-02\n")
	assert.Contains(t, s, "draft: false\n")
	assert.NotContains(t, s, "+++")

	ti, di, gi := strings.Index(s, "title:"), strings.Index(s, "date:"), strings.Index(s, "tags:")
	assert.True(t, ti < di && di < gi, "key order not kept: %q", s)

	meta, body, err := Parse(out)
	require.NoError(t, err)
	assert.Equal(t, "Hello", meta["title"])
	assert.Equal(t, []any{"a", "b"}, meta["tags"])
	assert.Equal(t, "Body = text\n", string(body))
}

func TestConvertNestedTable(t *testing.T) {
	in := "+++\ntitle = \"X\"\n[params]\nauthor = \"Ann\"\n+++\n"
	out, changed, err := Convert([]byte(in))
	require.NoError(t, err)
	require.True(t, changed)

	meta, _, err := Parse(out)
	require.NoError(t, err)
	params, ok := meta["params"].(map[string]any)
	require.True(t, ok, "params should be a mapping: %q", out)
	assert.Equal(t, "Ann", params["author"])
}

func TestConvertLeavesOthersAlone(t *testing.T) {
	for _, in := range []string{"---\ntitle: A\n---\nx", "no front matter", ""} {
		out, changed, err := Convert([]byte(in))
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, in, string(out))
	}
}

func TestConvertTree(t *testing.T) {
	root := t.TempDir()
	write := func(rel, content string) {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
	write("posts/a.md", "+++\ntitle = \"A\"\n+++\nA body\n")
	write("b.md", "---\ntitle: B\n---\n")
	write("notes.txt", "+++\ntitle = \"skip\"\n+++\n")

	changed, err := ConvertTree(root, "**/*.md")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "posts", "a.md")}, changed)

	data, err := os.ReadFile(filepath.Join(root, "posts", "a.md"))
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: A\n---\nA body\n", string(data))

	data, err = os.ReadFile(filepath.Join(root, "notes.txt"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "+++")
}
