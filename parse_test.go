package urlsupaction_test

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	urlsupaction "github.com/simeg/urlsup-action"
)

func TestParse_IssuesShape(t *testing.T) {
	data := []byte(`{"status":"failure","issues":[{"file":"a.md","line":3,"url":"http://x","status_code":"404"}]}`)

	report := urlsupaction.Parse(data)

	require.Len(t, report.Issues, 1)
	assert.Equal(t, "a.md", report.Issues[0].File)
	assert.Equal(t, 3, report.Issues[0].Line)
	assert.Equal(t, "http://x", report.Issues[0].URL)
	assert.Equal(t, "404", report.Issues[0].StatusCode)

	assert.Equal(t, urlsupaction.StatusFailure, report.Metrics.Status)
	assert.Equal(t, 1, report.Metrics.BrokenURLs)
	assert.False(t, report.Rich)
}

func TestParse_FailedURLsShape(t *testing.T) {
	data := []byte(`{"status":"failure","failed_urls":[
		{"file":"docs/b.md","line":7,"url":"http://y","status_code":500,"error":"server error"}]}`)

	report := urlsupaction.Parse(data)

	require.Len(t, report.Issues, 1)
	assert.Equal(t, "docs/b.md", report.Issues[0].File)
	assert.Equal(t, 7, report.Issues[0].Line)
	assert.Equal(t, "500", report.Issues[0].StatusCode)
	assert.Equal(t, "server error", report.Issues[0].Error)
}

func TestParse_ResultsShape(t *testing.T) {
	t.Run("flat entries", func(t *testing.T) {
		data := []byte(`{"status":"failure","results":[
			{"success":true,"url":"http://ok"},
			{"success":false,"url":"http://broken","file":"c.md","line":9,"status_code":"404"}]}`)

		report := urlsupaction.Parse(data)

		require.Len(t, report.Issues, 1)
		assert.Equal(t, "c.md", report.Issues[0].File)
		assert.Equal(t, 9, report.Issues[0].Line)
		assert.Equal(t, "http://broken", report.Issues[0].URL)
	})

	t.Run("nested entries", func(t *testing.T) {
		data := []byte(`{"status":"failure","results":[
			{"url":"http://broken","location":{"file":"d.md","line":2},
			 "result":{"success":false,"status_code":"410","error":"gone"}}]}`)

		report := urlsupaction.Parse(data)

		require.Len(t, report.Issues, 1)
		assert.Equal(t, "d.md", report.Issues[0].File)
		assert.Equal(t, 2, report.Issues[0].Line)
		assert.Equal(t, "410", report.Issues[0].StatusCode)
		assert.Equal(t, "gone", report.Issues[0].Error)
	})
}

// Shape priority is deterministic: issues wins over failed_urls wins over
// results, and sources are never mixed within one parse.
func TestParse_ShapePriority(t *testing.T) {
	data := []byte(`{
		"status": "failure",
		"issues": [{"file":"winner.md","line":1,"url":"http://a"}],
		"failed_urls": [{"file":"loser.md","line":1,"url":"http://b"}],
		"results": [{"success":false,"file":"loser.md","line":1,"url":"http://c"}]
	}`)

	report := urlsupaction.Parse(data)

	require.Len(t, report.Issues, 1)
	assert.Equal(t, "winner.md", report.Issues[0].File)

	withoutIssues := []byte(`{
		"status": "failure",
		"failed_urls": [{"file":"second.md","line":1,"url":"http://b"}],
		"results": [{"success":false,"file":"third.md","line":1,"url":"http://c"}]
	}`)

	report = urlsupaction.Parse(withoutIssues)

	require.Len(t, report.Issues, 1)
	assert.Equal(t, "second.md", report.Issues[0].File)
}

func TestParse_UnrecognizedShape(t *testing.T) {
	report := urlsupaction.Parse([]byte(`{"status":"success","links":[{"url":"http://x"}]}`))

	assert.Empty(t, report.Issues)
	assert.Equal(t, urlsupaction.StatusSuccess, report.Metrics.Status)
	// Estimated: a clean run counts as at least one checked URL.
	assert.Equal(t, 1, report.Metrics.TotalURLs)
	assert.Equal(t, 0, report.Metrics.BrokenURLs)
}

// Encoding N issues into each raw shape and parsing must yield exactly N
// canonical issues with matching file/line/url.
func TestParse_RoundTrip(t *testing.T) {
	const n = 5

	entries := make([]map[string]any, 0, n)
	for i := range n {
		entries = append(entries, map[string]any{
			"file": fmt.Sprintf("doc-%d.md", i),
			"line": i + 1,
			"url":  fmt.Sprintf("http://example.com/%d", i),
		})
	}

	shapes := map[string]map[string]any{
		"issues":      {"status": "failure", "issues": entries},
		"failed_urls": {"status": "failure", "failed_urls": entries},
		"results":     {"status": "failure", "results": withSuccessFlag(entries)},
	}

	for name, shape := range shapes {
		t.Run(name, func(t *testing.T) {
			data, err := json.Marshal(shape)
			require.NoError(t, err)

			report := urlsupaction.Parse(data)

			require.Len(t, report.Issues, n)
			for i, issue := range report.Issues {
				assert.Equal(t, fmt.Sprintf("doc-%d.md", i), issue.File)
				assert.Equal(t, i+1, issue.Line)
				assert.Equal(t, fmt.Sprintf("http://example.com/%d", i), issue.URL)
			}
		})
	}
}

func withSuccessFlag(entries []map[string]any) []map[string]any {
	out := make([]map[string]any, 0, len(entries))

	for _, entry := range entries {
		flagged := map[string]any{"success": false}
		for k, v := range entry {
			flagged[k] = v
		}

		out = append(out, flagged)
	}

	return out
}

func TestParse_Idempotence(t *testing.T) {
	data := []byte(`{"status":"failure","issues":[{"file":"a.md","line":3,"url":"http://x"}],
		"urls":{"validated":12,"unique":10,"success_rate":91.6,"total_found":14},
		"files":{"total":4,"processed":4}}`)

	first := urlsupaction.Parse(data)
	second := urlsupaction.Parse(data)

	assert.Equal(t, first, second)
}

func TestParse_RichMetadata(t *testing.T) {
	data := []byte(`{"status":"failure","issues":[{"file":"a.md","line":3,"url":"http://x"}],
		"urls":{"validated":12,"unique":10,"success_rate":91.6,"total_found":14},
		"files":{"total":4,"processed":3}}`)

	report := urlsupaction.Parse(data)

	require.True(t, report.Rich)
	assert.Equal(t, 12, report.Metrics.TotalURLs)
	assert.Equal(t, 91, report.Metrics.SuccessRate)
	assert.Equal(t, 10, report.Metrics.UniqueURLs)
	assert.Equal(t, 14, report.Metrics.TotalFoundURLs)
	assert.Equal(t, 4, report.Metrics.TotalFiles)
	assert.Equal(t, 3, report.Metrics.ProcessedFiles)
}

func TestParse_TextFallback(t *testing.T) {
	t.Run("counters present", func(t *testing.T) {
		report := urlsupaction.Parse([]byte("Checking...\n42 URLs found\n3 failed\n"))

		assert.Equal(t, 42, report.Metrics.TotalURLs)
		assert.Equal(t, 3, report.Metrics.BrokenURLs)
		assert.Equal(t, 92, report.Metrics.SuccessRate)
		assert.Equal(t, urlsupaction.StatusFailure, report.Metrics.Status)
	})

	t.Run("alternate failed phrasing", func(t *testing.T) {
		report := urlsupaction.Parse([]byte("15 URLs found\n2 URLs failed\n"))

		assert.Equal(t, 15, report.Metrics.TotalURLs)
		assert.Equal(t, 2, report.Metrics.BrokenURLs)
	})

	t.Run("no counters", func(t *testing.T) {
		report := urlsupaction.Parse([]byte("garbage output"))

		assert.Zero(t, report.Metrics.TotalURLs)
		assert.Zero(t, report.Metrics.BrokenURLs)
		assert.Empty(t, report.Issues)
	})
}

func TestParseFile_Missing(t *testing.T) {
	report := urlsupaction.ParseFile(filepath.Join(t.TempDir(), "nope.json"))

	assert.Empty(t, report.Issues)
	assert.Zero(t, report.Metrics.TotalURLs)
	assert.Equal(t, urlsupaction.StatusUnknown, report.Metrics.Status)
}

func TestParse_LineDefaults(t *testing.T) {
	report := urlsupaction.Parse([]byte(`{"status":"failure","issues":[{"file":"a.md","url":"http://x"}]}`))

	require.Len(t, report.Issues, 1)
	assert.Equal(t, 1, report.Issues[0].Line)
}

func TestParse_DescriptionPreferredOverError(t *testing.T) {
	report := urlsupaction.Parse([]byte(`{"status":"failure","issues":[
		{"file":"a.md","line":1,"url":"http://x","description":"connection refused","error":"ignored"}]}`))

	require.Len(t, report.Issues, 1)
	assert.Equal(t, "connection refused", report.Issues[0].Error)
}
