// Package annotate turns canonical issues into GitHub workflow-command
// annotations, one ::error line per broken URL.
package annotate

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	urlsupaction "github.com/simeg/urlsup-action"
)

// Emit writes one annotation per issue and returns the number emitted.
// Entries missing a file, line or URL are skipped and logged, not emitted.
func Emit(out io.Writer, issues []urlsupaction.Issue) int {
	emitted := 0

	for _, issue := range issues {
		if issue.File == "" || issue.Line <= 0 || issue.URL == "" {
			slog.Warn("invalid annotation data",
				"file", issue.File, "line", issue.Line, "url", issue.URL)

			continue
		}

		fmt.Fprintf(out, "::error file=%s,line=%d::%s\n",
			NormalizePath(issue.File), issue.Line, message(issue))

		emitted++
	}

	return emitted
}

// message builds the annotation text with optional status and error detail.
func message(issue urlsupaction.Issue) string {
	var b strings.Builder

	b.WriteString("Broken URL: ")
	b.WriteString(issue.URL)

	if issue.StatusCode != "" && issue.StatusCode != "null" {
		fmt.Fprintf(&b, " (HTTP %s)", issue.StatusCode)
	}

	if issue.Error != "" && issue.Error != "null" {
		fmt.Fprintf(&b, " - %s", issue.Error)
	}

	return b.String()
}

// NormalizePath cleans a report path for display: .. segments collapse
// against preceding segments, . segments and leading ./ are dropped. A path
// that collapses to nothing falls back to its base name.
func NormalizePath(path string) string {
	var parts []string

	for _, part := range strings.FieldsFunc(path, func(r rune) bool { return r == '/' }) {
		switch part {
		case "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
		case ".", "":
		default:
			parts = append(parts, part)
		}
	}

	if len(parts) == 0 {
		segments := strings.Split(path, "/")

		return strings.TrimLeft(segments[len(segments)-1], "./")
	}

	return strings.TrimLeft(strings.Join(parts, "/"), "./")
}
