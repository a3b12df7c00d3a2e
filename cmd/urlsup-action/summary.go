package main

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	urlsupaction "github.com/simeg/urlsup-action"
	"github.com/simeg/urlsup-action/internal/gha"
	"github.com/simeg/urlsup-action/internal/summary"
)

func summaryCommand() *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "Append the markdown job summary from the previous step's outputs",
		Action: func(_ context.Context, _ *cli.Command) error {
			return runSummary()
		},
	}
}

// runSummary reads the metrics the validate step exported through its
// outputs (passed back in as environment variables by the action workflow)
// and the report file for the per-issue breakdown.
func runSummary() error {
	slog.Info("generating job summary")

	params := summary.Params{
		TotalURLs:   intEnv("TOTAL_URLS"),
		BrokenURLs:  intEnv("BROKEN_URLS"),
		SuccessRate: percentEnv("SUCCESS_RATE"),
		ExitCode:    intEnv("EXIT_CODE"),
		RunID:       gha.RunID(),
	}

	if reportPath := os.Getenv("REPORT_PATH"); reportPath != "" && params.BrokenURLs > 0 {
		params.Issues = urlsupaction.ParseFile(reportPath).Issues
	}

	if err := gha.AppendSummary(summary.Render(params)); err != nil {
		slog.Error("failed to write job summary", "error", err)

		return nil
	}

	slog.Info("job summary generated")

	return nil
}

func intEnv(key string) int {
	value, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return 0
	}

	return value
}

func percentEnv(key string) int {
	value, err := strconv.Atoi(strings.TrimSuffix(strings.TrimSpace(os.Getenv(key)), "%"))
	if err != nil {
		return 0
	}

	return value
}
