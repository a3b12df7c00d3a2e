package annotate_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	urlsupaction "github.com/simeg/urlsup-action"
	"github.com/simeg/urlsup-action/internal/annotate"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"docs/guide.md", "docs/guide.md"},
		{"./docs/guide.md", "docs/guide.md"},
		{"docs/../README.md", "README.md"},
		{"a/b/../../c.md", "c.md"},
		{"./a/./b.md", "a/b.md"},
		{"../escape.md", "escape.md"},
		{"README.md", "README.md"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, annotate.NormalizePath(tc.in), "input %q", tc.in)
	}
}

func TestEmit(t *testing.T) {
	var out bytes.Buffer

	issues := []urlsupaction.Issue{
		{File: "a.md", Line: 3, URL: "http://x", StatusCode: "404"},
	}

	count := annotate.Emit(&out, issues)

	assert.Equal(t, 1, count)
	assert.Contains(t, out.String(), "::error file=a.md,line=3::")
	assert.Contains(t, out.String(), "Broken URL: http://x")
	assert.Contains(t, out.String(), "(HTTP 404)")
}

func TestEmit_WithErrorDetail(t *testing.T) {
	var out bytes.Buffer

	annotate.Emit(&out, []urlsupaction.Issue{
		{File: "b.md", Line: 1, URL: "http://y", Error: "connection refused"},
	})

	line := out.String()
	require.Contains(t, line, "- connection refused")
	assert.NotContains(t, line, "HTTP")
}

// Entries missing a file, line or URL are skipped, not emitted.
func TestEmit_SkipsInvalidEntries(t *testing.T) {
	var out bytes.Buffer

	count := annotate.Emit(&out, []urlsupaction.Issue{
		{File: "", Line: 1, URL: "http://x"},
		{File: "a.md", Line: 0, URL: "http://x"},
		{File: "a.md", Line: 1, URL: ""},
		{File: "ok.md", Line: 2, URL: "http://fine"},
	})

	assert.Equal(t, 1, count)
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("::error")))
	assert.Contains(t, out.String(), "file=ok.md,line=2")
}

// "null" placeholders from older reports are not rendered as detail.
func TestEmit_IgnoresNullPlaceholders(t *testing.T) {
	var out bytes.Buffer

	annotate.Emit(&out, []urlsupaction.Issue{
		{File: "a.md", Line: 1, URL: "http://x", StatusCode: "null", Error: "null"},
	})

	assert.Equal(t, "::error file=a.md,line=1::Broken URL: http://x\n", out.String())
}
