package highlight

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerms(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"cat", []string{"cat"}},
		{"  Cat  dog ", []string{"cat", "dog"}},
		{"cat, cat; CAT", []string{"cat"}},
		{"go-lang", []string{"go", "lang"}},
		{"", []string{}},
		{"!!!", []string{}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Terms(tt.query), "Terms(%q)", tt.query)
	}
}

func TestBuildMarksWordPrefixes(t *testing.T) {
	f := Build("Cats and Dogs", []string{"cat"}, Options{})
	assert.Equal(t, []Segment{
		{Text: "Cat", Match: true},
		{Text: "s and Dogs"},
	}, f.Segments)
	assert.Equal(t, "<mark>Cat</mark>s and Dogs", f.HTML())
	assert.Equal(t, "Cats and Dogs", f.Text())
	assert.True(t, f.Matched())
}

func TestBuildIgnoresMidWordMatches(t *testing.T) {
	f := Build("Concatenate the bobcat", []string{"cat"}, Options{})
	assert.False(t, f.Matched())
	assert.Equal(t, "Concatenate the bobcat", f.Text())
}

func TestBuildMarksEveryOccurrence(t *testing.T) {
	f := Build("Category theory: a cat's view", []string{"cat"}, Options{})
	assert.Equal(t, "<mark>Cat</mark>egory theory: a <mark>cat</mark>&#39;s view", f.HTML())
}

func TestBuildPrefersLongestTerm(t *testing.T) {
	f := Build("category", []string{"cat", "categ"}, Options{})
	assert.Equal(t, "<mark>categ</mark>ory", f.HTML())
}

func TestBuildMatchesInsideCJK(t *testing.T) {
	f := Build("東京の猫カフェ", []string{"猫"}, Options{})
	assert.Equal(t, "東京の<mark>猫</mark>カフェ", f.HTML())
}

func TestBuildEscapesHTML(t *testing.T) {
	f := Build("<script>cat</script>", []string{"cat"}, Options{})
	assert.Equal(t, "&lt;script&gt;<mark>cat</mark>&lt;/script&gt;", f.HTML())
}

func TestBuildCropsAroundFirstMatch(t *testing.T) {
	text := strings.Repeat("lorem ipsum ", 20) + "the cat sat " + strings.Repeat("dolor sit ", 20)
	f := Build(text, []string{"cat"}, Options{Window: 40})

	got := f.Text()
	assert.True(t, strings.HasPrefix(got, DefaultEllipsis))
	assert.True(t, strings.HasSuffix(got, DefaultEllipsis))
	assert.Contains(t, f.HTML(), "<mark>cat</mark>")
	assert.LessOrEqual(t, len([]rune(got)), 40+2)
}

func TestBuildNoMatchKeepsLeadingText(t *testing.T) {
	text := strings.Repeat("word ", 30)
	f := Build(text, []string{"zebra"}, Options{Window: 10, Ellipsis: "..."})
	assert.False(t, f.Matched())
	assert.True(t, strings.HasPrefix(f.Text(), "word"))
	assert.True(t, strings.HasSuffix(f.Text(), "..."))
}

func TestBuildEmpty(t *testing.T) {
	assert.True(t, Build("", []string{"cat"}, Options{}).IsZero())
}

func TestParse(t *testing.T) {
	f := Parse("a \x02cat\x03 and a \x02dog\x03", "\x02", "\x03")
	assert.Equal(t, []Segment{
		{Text: "a "},
		{Text: "cat", Match: true},
		{Text: " and a "},
		{Text: "dog", Match: true},
	}, f.Segments)
}

func TestParseUnterminated(t *testing.T) {
	f := Parse("x <em>cat", "<em>", "</em>")
	assert.Equal(t, []Segment{{Text: "x "}, {Text: "cat", Match: true}}, f.Segments)
}

func TestParseWithoutMarkers(t *testing.T) {
	f := Parse("plain", "", "")
	assert.Equal(t, "plain", f.Text())
	assert.False(t, f.Matched())
}
