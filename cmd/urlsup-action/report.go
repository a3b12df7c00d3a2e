//nolint:wrapcheck
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/farcloser/primordium/format"
	"github.com/urfave/cli/v3"

	urlsupaction "github.com/simeg/urlsup-action"
	"github.com/simeg/urlsup-action/internal/gha"
)

var errReportArgs = errors.New("expected at most one argument: report path")

func reportCommand() *cli.Command {
	return &cli.Command{
		Name:      "report",
		Usage:     "Print a digest of a urlsup report",
		ArgsUsage: "[report.json]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: console, json, markdown",
				Value:   "console",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 1 {
				return fmt.Errorf("%w: got %d", errReportArgs, cmd.NArg())
			}

			reportPath := cmd.Args().First()
			if reportPath == "" {
				reportPath = filepath.Join(gha.Workspace(), reportFileName)
			}

			return runReport(reportPath, cmd.String("format"))
		},
	}
}

func runReport(reportPath, formatName string) error {
	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return err
	}

	report := urlsupaction.ParseFile(reportPath)

	data := &format.Data{
		Object: reportPath,
		Meta:   reportToMap(report),
	}

	return formatter.PrintAll([]*format.Data{data}, os.Stdout)
}

// reportToMap converts a canonical report into the map structure the output
// formatters consume.
func reportToMap(report *urlsupaction.Report) map[string]any {
	metrics := report.Metrics

	meta := map[string]any{
		"summary": fmt.Sprintf("%d/%d URLs broken (%s)",
			metrics.BrokenURLs, metrics.TotalURLs, metrics.Status),
		"metrics": map[string]any{
			"total_urls":   metrics.TotalURLs,
			"broken_urls":  metrics.BrokenURLs,
			"success_rate": fmt.Sprintf("%d%%", metrics.SuccessRate),
			"status":       metrics.Status,
		},
	}

	if report.Rich {
		meta["files"] = map[string]any{
			"total":     metrics.TotalFiles,
			"processed": metrics.ProcessedFiles,
		}
		meta["urls"] = map[string]any{
			"total_found": metrics.TotalFoundURLs,
			"unique":      metrics.UniqueURLs,
		}
	}

	if len(report.Issues) > 0 {
		issues := make([]any, 0, len(report.Issues))
		for _, issue := range report.Issues {
			line := fmt.Sprintf("%s:%d %s", issue.File, issue.Line, issue.URL)
			if issue.StatusCode != "" {
				line += " (HTTP " + issue.StatusCode + ")"
			}

			if issue.Error != "" {
				line += " - " + issue.Error
			}

			issues = append(issues, line)
		}

		meta["issues"] = issues
	}

	return meta
}
