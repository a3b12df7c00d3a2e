// Package summary renders the markdown job summary for a validation run.
package summary

import (
	"fmt"
	"strings"

	urlsupaction "github.com/simeg/urlsup-action"
)

// maxBreakdownRows bounds the per-issue table so huge reports cannot blow up
// the job summary.
const maxBreakdownRows = 20

const progressBarLength = 20

// Params carries everything the renderer needs for one document.
type Params struct {
	TotalURLs   int
	BrokenURLs  int
	SuccessRate int
	ExitCode    int
	RunID       string

	// Issues feeds the optional breakdown table; may be nil.
	Issues []urlsupaction.Issue
}

type runState int

const (
	stateSuccess runState = iota
	stateFailure
	stateNoURLs
)

// classify picks the overall state: a nonzero tool exit wins, then the
// zero-URL warning, then success.
func classify(p Params) runState {
	switch {
	case p.ExitCode != 0:
		return stateFailure
	case p.TotalURLs == 0:
		return stateNoURLs
	default:
		return stateSuccess
	}
}

// Render produces the full markdown document.
func Render(p Params) string {
	var b strings.Builder

	state := classify(p)

	emoji, text, color := "✅", "All URLs are working", "green"

	switch state {
	case stateFailure:
		emoji, text, color = "❌", "Some URLs are broken", "red"
	case stateNoURLs:
		emoji, text, color = "⚠️", "No URLs found", "yellow"
	case stateSuccess:
	}

	workingURLs := p.TotalURLs - p.BrokenURLs

	fmt.Fprintf(&b, "# %s URL Validation Report\n\n", emoji)
	b.WriteString("## Summary\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| **Status** | <span style=\"color: %s;\">%s</span> |\n", color, text)
	fmt.Fprintf(&b, "| **Total URLs** | %d |\n", p.TotalURLs)
	fmt.Fprintf(&b, "| **Working URLs** | %d |\n", workingURLs)
	fmt.Fprintf(&b, "| **Broken URLs** | %d |\n", p.BrokenURLs)
	fmt.Fprintf(&b, "| **Success Rate** | %d%% |\n\n", p.SuccessRate)

	if p.TotalURLs > 0 {
		fmt.Fprintf(&b, "## Progress\n\n```\n%s %d%%\n```\n\n", progressBar(p.SuccessRate), p.SuccessRate)
	}

	if p.BrokenURLs > 0 {
		writeBreakdown(&b, p.Issues)
	}

	writeRecommendations(&b, p.BrokenURLs > 0)

	fmt.Fprintf(&b, `
---

<details>
<summary>📋 Action Details</summary>

- **Action:** [urlsup-action](https://github.com/simeg/urlsup-action)
- **Tool:** [urlsup](https://github.com/simeg/urlsup)
- **Report:** Available as workflow artifact
- **Run ID:** %s

</details>
`, p.RunID)

	return b.String()
}

func writeBreakdown(b *strings.Builder, issues []urlsupaction.Issue) {
	b.WriteString("## Broken URLs Details\n\n")

	if len(issues) == 0 {
		b.WriteString("**Note:** Could not parse detailed breakdown from report. " +
			"See the uploaded report artifact for full details.\n\n")

		return
	}

	if len(issues) > maxBreakdownRows {
		issues = issues[:maxBreakdownRows]
	}

	b.WriteString("| File | Line | URL | Status | Error |\n")
	b.WriteString("|------|------|-----|--------|-------|\n")

	for _, issue := range issues {
		status := issue.StatusCode
		if status == "" {
			status = "N/A"
		}

		errText := issue.Error
		if errText == "" {
			errText = "N/A"
		}

		fmt.Fprintf(b, "| `%s` | %d | %s | %s | %s |\n",
			strings.TrimLeft(Escape(issue.File), "./"),
			issue.Line,
			Escape(issue.URL),
			Escape(status),
			Escape(errText))
	}

	b.WriteString("\n")
}

func writeRecommendations(b *strings.Builder, hasBroken bool) {
	b.WriteString("## Recommendations\n\n")

	if hasBroken {
		b.WriteString(`- 🔍 **Review broken URLs** above and fix or remove them
- 🔄 **Check if URLs are temporarily down** - consider retrying
- ⚙️ **Consider allowlisting** URLs that are expected to be unavailable
- 📋 **Use exclude patterns** for URLs that should not be checked

`)

		return
	}

	b.WriteString(`- ✨ **Great job!** All URLs in your repository are working
- 🔄 **Consider scheduling** regular URL checks to catch broken links early
- 📊 **Monitor trends** by comparing reports over time

`)
}

// Escape makes text safe for a markdown table cell: pipes are escaped and
// newlines collapse to spaces.
func Escape(text string) string {
	replacer := strings.NewReplacer("|", "\\|", "\n", " ", "\r", " ")

	return replacer.Replace(text)
}

func progressBar(successPercentage int) string {
	filled := successPercentage * progressBarLength / 100
	filled = min(max(filled, 0), progressBarLength)

	return strings.Repeat("█", filled) + strings.Repeat("░", progressBarLength-filled)
}
