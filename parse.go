// Package urlsupaction normalizes urlsup JSON reports into a single canonical
// issue list and metric set, independent of which report schema produced them.
package urlsupaction

import (
	"encoding/json"
	"log/slog"
	"os"
	"regexp"
	"strconv"
)

/*
Usage:

report := urlsupaction.Parse(data)
for _, issue := range report.Issues {
    fmt.Printf("%s:%d %s\n", issue.File, issue.Line, issue.URL)
}

// Or straight from the report file written by the runner.
report = urlsupaction.ParseFile("urlsup-report.json")
fmt.Printf("%d/%d broken\n", report.Metrics.BrokenURLs, report.Metrics.TotalURLs)
*/

var (
	urlsFoundPattern  = regexp.MustCompile(`(\d+) URLs found`)
	urlsFailedPattern = regexp.MustCompile(`(\d+) (?:URLs )?failed`)
)

// Parse normalizes raw report bytes into a canonical Report. It never fails:
// malformed JSON falls back to a plain-text scan, and content matching no
// known shape yields an empty issue list with estimated metrics.
func Parse(data []byte) *Report {
	var raw rawReport
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.Warn("report is not valid JSON, attempting basic parsing", "error", err)

		return parseText(data)
	}

	issues := extractIssues(&raw)

	return &Report{
		Issues:  issues,
		Metrics: extractMetrics(&raw, issues),
		Rich:    raw.URLs != nil,
	}
}

// ParseFile reads and parses a report file. A missing or unreadable file is
// logged and returned as a zero-count failure report, never an error.
func ParseFile(path string) *Report {
	data, err := os.ReadFile(path) //nolint:gosec // report path is produced by this action
	if err != nil {
		slog.Error("report file not found", "path", path, "error", err)

		return &Report{Metrics: Metrics{Status: StatusUnknown}}
	}

	return Parse(data)
}

// parseText is the best-effort fallback for non-JSON tool output. It scans for
// the counters urlsup prints in its human-readable summary and otherwise
// reports zero counts.
func parseText(data []byte) *Report {
	content := string(data)

	total := 0
	if m := urlsFoundPattern.FindStringSubmatch(content); m != nil {
		total, _ = strconv.Atoi(m[1])
	}

	broken := 0
	if m := urlsFailedPattern.FindStringSubmatch(content); m != nil {
		broken, _ = strconv.Atoi(m[1])
	}

	status := StatusSuccess
	if broken > 0 {
		status = StatusFailure
	}

	return &Report{
		Metrics: Metrics{
			TotalURLs:   total,
			BrokenURLs:  broken,
			SuccessRate: basicSuccessRate(total, broken),
			Status:      status,
		},
	}
}

// extractIssues resolves the three-shape union exactly once, in fixed
// priority order: issues > failed_urls > results. Sources are never mixed
// within one parse.
func extractIssues(raw *rawReport) []Issue {
	switch {
	case raw.Issues != nil:
		var entries []rawIssue
		if err := json.Unmarshal(raw.Issues, &entries); err != nil {
			slog.Warn("malformed issues array", "error", err)

			return nil
		}

		issues := make([]Issue, 0, len(entries))
		for _, entry := range entries {
			description := entry.Description
			if description == "" {
				description = entry.Error
			}

			issues = append(issues, Issue{
				File:       entry.File,
				Line:       defaultLine(entry.Line),
				URL:        entry.URL,
				StatusCode: string(entry.StatusCode),
				Error:      description,
			})
		}

		return issues

	case raw.FailedURLs != nil:
		var entries []rawFailedURL
		if err := json.Unmarshal(raw.FailedURLs, &entries); err != nil {
			slog.Warn("malformed failed_urls array", "error", err)

			return nil
		}

		issues := make([]Issue, 0, len(entries))
		for _, entry := range entries {
			issues = append(issues, Issue{
				File:       entry.File,
				Line:       defaultLine(entry.Line),
				URL:        entry.URL,
				StatusCode: string(entry.StatusCode),
				Error:      entry.Error,
			})
		}

		return issues

	case raw.Results != nil:
		var entries []rawResult
		if err := json.Unmarshal(raw.Results, &entries); err != nil {
			slog.Warn("malformed results array", "error", err)

			return nil
		}

		var issues []Issue

		for _, entry := range entries {
			if !resultFailed(&entry) {
				continue
			}

			issues = append(issues, normalizeResult(&entry))
		}

		return issues
	}

	return nil
}

// resultFailed reports whether a results[] entry describes a broken URL,
// checking both the flat and the nested success flag.
func resultFailed(entry *rawResult) bool {
	if entry.Success != nil && !*entry.Success {
		return true
	}

	return entry.Result != nil && entry.Result.Success != nil && !*entry.Result.Success
}

func normalizeResult(entry *rawResult) Issue {
	issue := Issue{
		File:       entry.File,
		Line:       entry.Line,
		URL:        entry.URL,
		StatusCode: string(entry.StatusCode),
		Error:      entry.Error,
	}

	if loc := entry.Location; loc != nil {
		if loc.File != "" {
			issue.File = loc.File
		}

		if loc.Line > 0 {
			issue.Line = loc.Line
		}
	}

	if detail := entry.Result; detail != nil {
		if detail.StatusCode != "" {
			issue.StatusCode = string(detail.StatusCode)
		}

		if detail.Error != "" {
			issue.Error = detail.Error
		}
	}

	issue.Line = defaultLine(issue.Line)

	return issue
}

// extractMetrics reads rich metadata when present. Otherwise it synthesizes a
// deliberately approximate estimate: older urlsup output does not report a
// total-URL count, so a clean run counts as a single checked URL and a failed
// run counts only its broken URLs.
func extractMetrics(raw *rawReport, issues []Issue) Metrics {
	status := raw.Status
	if status == "" {
		status = StatusUnknown
	}

	broken := len(issues)

	if raw.URLs != nil {
		total := raw.URLs.Validated
		if total == 0 {
			total = raw.URLs.Unique
		}

		metrics := Metrics{
			TotalURLs:      total,
			BrokenURLs:     broken,
			SuccessRate:    int(raw.URLs.SuccessRate),
			Status:         status,
			TotalFoundURLs: raw.URLs.TotalFound,
			UniqueURLs:     raw.URLs.Unique,
		}

		if raw.Files != nil {
			metrics.TotalFiles = raw.Files.Total
			metrics.ProcessedFiles = raw.Files.Processed
		}

		return metrics
	}

	total := max(broken, 1)

	return Metrics{
		TotalURLs:   total,
		BrokenURLs:  broken,
		SuccessRate: basicSuccessRate(total, broken),
		Status:      status,
	}
}

// basicSuccessRate is the integer-truncated percentage of working URLs.
func basicSuccessRate(total, broken int) int {
	if total <= 0 {
		return 0
	}

	return (total - broken) * 100 / total
}

func defaultLine(line int) int {
	if line <= 0 {
		return 1
	}

	return line
}
