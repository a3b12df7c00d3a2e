package urlsupaction

import (
	"encoding/json"
	"strings"
)

// Run status values reported by urlsup at the top level of its JSON report.
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
	StatusUnknown = "unknown"
)

// Issue is one broken URL, normalized from whichever raw report shape
// produced it. Immutable once constructed.
type Issue struct {
	File       string `json:"file"`
	Line       int    `json:"line"`
	URL        string `json:"url"`
	StatusCode string `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
}

// Metrics are derived per run from the issue list plus raw report metadata.
// File and found/unique counts are only populated when the report carries
// rich metadata (urlsup >= 2.3).
type Metrics struct {
	TotalURLs      int    `json:"total_urls"`
	BrokenURLs     int    `json:"broken_urls"`
	SuccessRate    int    `json:"success_rate"`
	Status         string `json:"status"`
	TotalFiles     int    `json:"total_files"`
	ProcessedFiles int    `json:"processed_files"`
	TotalFoundURLs int    `json:"total_found_urls"`
	UniqueURLs     int    `json:"unique_urls"`
}

// Report is the canonical view of one urlsup run, format-agnostic.
type Report struct {
	Issues  []Issue
	Metrics Metrics

	// Rich is true when the raw report carried urls/files metadata,
	// false when metrics had to be estimated.
	Rich bool
}

// flexString accepts JSON strings and numbers. urlsup emitted status codes
// as numbers in older releases and as strings later.
type flexString string

func (s *flexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = ""

		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}

		*s = flexString(str)

		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}

	*s = flexString(num.String())

	return nil
}

// rawReport captures every top-level key any known urlsup release emits.
// The three issue carriers are kept raw so that key presence (not emptiness)
// decides which shape wins; resolution happens exactly once, in Parse.
type rawReport struct {
	Status     string          `json:"status"`
	Issues     json.RawMessage `json:"issues"`
	FailedURLs json.RawMessage `json:"failed_urls"`
	Results    json.RawMessage `json:"results"`
	URLs       *rawURLStats    `json:"urls"`
	Files      *rawFileStats   `json:"files"`
}

// rawIssue is the current shape (urlsup >= 2.2, .issues[]).
type rawIssue struct {
	File        string     `json:"file"`
	Line        int        `json:"line"`
	URL         string     `json:"url"`
	StatusCode  flexString `json:"status_code"`
	Description string     `json:"description"`
	Error       string     `json:"error"`
}

// rawFailedURL is the legacy shape (.failed_urls[]).
type rawFailedURL struct {
	File       string     `json:"file"`
	Line       int        `json:"line"`
	URL        string     `json:"url"`
	StatusCode flexString `json:"status_code"`
	Error      string     `json:"error"`
}

// rawResult is the alternative legacy shape (.results[]), where broken URLs
// are entries with success=false, either flat or nested under result/location.
type rawResult struct {
	Success    *bool      `json:"success"`
	URL        string     `json:"url"`
	File       string     `json:"file"`
	Line       int        `json:"line"`
	StatusCode flexString `json:"status_code"`
	Error      string     `json:"error"`

	Location *rawLocation     `json:"location"`
	Result   *rawResultDetail `json:"result"`
}

type rawLocation struct {
	File string `json:"file"`
	Line int    `json:"line"`
}

type rawResultDetail struct {
	Success    *bool      `json:"success"`
	StatusCode flexString `json:"status_code"`
	Error      string     `json:"error"`
}

// rawURLStats is the rich metadata block (urls{}).
type rawURLStats struct {
	TotalFound  int     `json:"total_found"`
	Unique      int     `json:"unique"`
	Validated   int     `json:"validated"`
	SuccessRate float64 `json:"success_rate"`
}

// rawFileStats is the rich metadata block (files{}).
type rawFileStats struct {
	Total     int `json:"total"`
	Processed int `json:"processed"`
}
