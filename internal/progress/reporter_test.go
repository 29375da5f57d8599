package progress

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCIReporter(t *testing.T) {
	var buf bytes.Buffer
	r := &CIReporter{Label: "Indexing", Out: &buf}

	r.Start(2)
	r.Update(1, "posts/cats.md")
	r.Update(2, "posts/dogs.md")
	r.Finish()

	assert.Equal(t, "Indexing: 2 files\n[1/2] posts/cats.md\n[2/2] posts/dogs.md\nIndexing: done\n", buf.String())
}

func TestNewReporterCI(t *testing.T) {
	t.Setenv("CI", "true")
	r, ok := NewReporter("Indexing").(*CIReporter)
	if assert.True(t, ok) {
		assert.Equal(t, "Indexing", r.Label)
	}
}

func TestNewReporterTerminal(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("GITHUB_ACTIONS", "")
	_, ok := NewReporter("Indexing").(*TerminalReporter)
	assert.True(t, ok)
}

func TestTerminalReporterBeforeStart(t *testing.T) {
	r := &TerminalReporter{}
	assert.NotPanics(t, func() {
		r.Update(1, "x")
		r.Finish()
	})
}

func TestNop(t *testing.T) {
	var r Reporter = Nop{}
	r.Start(3)
	r.Update(1, "x")
	r.Finish()
}
