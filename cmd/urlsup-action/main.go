package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/simeg/urlsup-action/version"
)

func main() {
	ctx := context.Background()

	appl := &cli.Command{
		Name:    version.Name(),
		Usage:   "GitHub Actions wrapper for the urlsup URL checker",
		Version: version.Version() + " " + version.Commit(),
		Commands: []*cli.Command{
			setupCommand(),
			validateCommand(),
			annotateCommand(),
			summaryCommand(),
			reportCommand(),
		},
	}

	if err := appl.Run(ctx, os.Args); err != nil {
		slog.Error("failed to run", "error", err)
		os.Exit(1)
	}
}
