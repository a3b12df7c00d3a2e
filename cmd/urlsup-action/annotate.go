package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"

	urlsupaction "github.com/simeg/urlsup-action"
	"github.com/simeg/urlsup-action/internal/annotate"
	"github.com/simeg/urlsup-action/internal/gha"
)

func annotateCommand() *cli.Command {
	return &cli.Command{
		Name:  "annotate",
		Usage: "Emit one GitHub annotation per broken URL from the report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "report",
				Usage:   "Path to the urlsup JSON report",
				Sources: cli.EnvVars("REPORT_PATH"),
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			return runAnnotate(cmd.String("report"))
		},
	}
}

func runAnnotate(reportPath string) error {
	if reportPath == "" {
		reportPath = filepath.Join(gha.Workspace(), reportFileName)
	}

	slog.Info("processing report", "path", reportPath)

	report := urlsupaction.ParseFile(reportPath)

	format := "basic"
	if report.Rich {
		format = "rich metadata"
	}

	slog.Info("detected urlsup format", "format", format)

	count := annotate.Emit(os.Stdout, report.Issues)

	slog.Info("annotation processing complete", "annotations", count)

	return nil
}
