package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/simeg/urlsup-action/internal/config"
	"github.com/simeg/urlsup-action/internal/gha"
	"github.com/simeg/urlsup-action/internal/setup"
	"github.com/simeg/urlsup-action/internal/telemetry"
)

func setupCommand() *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Install and cache the urlsup binary, adding it to the workflow PATH",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "tool-version",
				Usage:   "urlsup version to install (semver or \"latest\")",
				Value:   "latest",
				Sources: cli.EnvVars("URLSUP_VERSION"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runSetup(ctx, cmd.String("tool-version"))
		},
	}
}

func runSetup(ctx context.Context, requested string) error {
	slog.Info("setting up urlsup binary", "requested", requested)

	collector := telemetry.New(config.FromEnv().Telemetry)
	collector.StartTimer("setup")

	result, err := setup.Run(ctx, requested)
	if err != nil {
		return fmt.Errorf("setup failed: %w", err)
	}

	if err := gha.AppendPath(result.BinDir()); err != nil {
		slog.Error("failed to extend workflow PATH", "error", err)
	}

	for key, value := range map[string]string{
		"binary-path": result.BinaryPath,
		"version":     result.Version,
	} {
		if err := gha.WriteOutput(key, value); err != nil {
			slog.Error("failed to write step output", "key", key, "error", err)
		}
	}

	collector.EndTimer("setup")
	collector.Record("cache_hit", result.CacheHit)
	collector.Annotations(os.Stdout)

	slog.Info("urlsup setup complete", "version", result.Version, "cache_hit", result.CacheHit)

	return nil
}
