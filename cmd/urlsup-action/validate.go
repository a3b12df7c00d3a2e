package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	urlsupaction "github.com/simeg/urlsup-action"
	"github.com/simeg/urlsup-action/internal/command"
	"github.com/simeg/urlsup-action/internal/config"
	"github.com/simeg/urlsup-action/internal/gha"
	"github.com/simeg/urlsup-action/internal/runner"
	"github.com/simeg/urlsup-action/internal/telemetry"
)

const reportFileName = "urlsup-report.json"

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:  "validate",
		Usage: "Run urlsup over the workspace and publish metrics as step outputs",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return runValidate(ctx)
		},
	}
}

func runValidate(ctx context.Context) error {
	slog.Info("starting URL validation")

	cfg := config.FromEnv()
	collector := telemetry.New(cfg.Telemetry)
	collector.StartTimer("validation")

	reportPath := filepath.Join(gha.Workspace(), reportFileName)

	exitCode, ok := executeValidation(ctx, cfg, collector, reportPath)
	if !ok {
		// Tool missing: reserved exit code, zeroed outputs already written.
		os.Exit(runner.ExitToolMissing)
	}

	report := urlsupaction.ParseFile(reportPath)

	if err := writeReportOutputs(report, reportPath, exitCode); err != nil {
		slog.Error("failed to write step outputs", "error", err)
	}

	collector.EndTimer("validation")
	collector.Record("total_files", report.Metrics.TotalFiles)
	collector.Annotations(os.Stdout)

	if cfg.ShowPerformance {
		if section := collector.PerformanceSection(); section != "" {
			if err := gha.AppendSummary(section); err != nil {
				slog.Error("failed to append performance summary", "error", err)
			}
		}
	}

	logVerdict(cfg, report.Metrics.BrokenURLs)

	// The wrapper never exits nonzero for broken URLs; failing the workflow
	// is deferred to a later step so annotations and the summary still run.
	return nil
}

// executeValidation runs the single or batched path and returns the tool's
// exit code. ok is false when the urlsup binary is missing.
func executeValidation(
	ctx context.Context,
	cfg *config.Config,
	collector *telemetry.Collector,
	reportPath string,
) (int, bool) {
	if cfg.ParallelProcessing {
		if run, handled := tryBatched(ctx, cfg, collector, reportPath); handled {
			return run, true
		}
	}

	args := command.Build(cfg)
	slog.Info("executing urlsup", "args", strings.Join(args, " "))

	result := runner.New().Run(ctx, args, reportPath)

	if result.State == runner.StateToolMissing {
		writeZeroOutputs(runner.ExitToolMissing)

		return 0, false
	}

	if result.Stderr != "" {
		fmt.Fprintln(os.Stderr, result.Stderr)
	}

	return result.ExitCode, true
}

// tryBatched attempts the batched path. handled is false when batching does
// not apply or discovery failed, in which case the caller falls back to the
// sequential path.
func tryBatched(
	ctx context.Context,
	cfg *config.Config,
	collector *telemetry.Collector,
	reportPath string,
) (int, bool) {
	files, err := runner.DiscoverFiles(cfg, gha.Workspace())
	if err != nil {
		slog.Warn("file discovery failed, falling back to sequential run", "error", err)

		return 0, false
	}

	if !runner.ShouldBatch(cfg.ParallelProcessing, len(files)) {
		slog.Info("below batching threshold, running sequentially", "files", len(files))

		return 0, false
	}

	workers := runner.WorkerCount(cfg.Concurrency, runtime.NumCPU())

	run, err := runner.RunBatched(ctx, cfg, files, workers, reportPath)
	if err != nil {
		slog.Error("batched run could not be finalized", "error", err)
	}

	for _, duration := range run.Durations {
		collector.RecordBatchDuration(duration)
	}

	collector.Record("batches", run.Batches)

	return run.ExitCode, true
}

// writeReportOutputs appends the result metrics to the step output file,
// including the rich-metadata fields when the report carried them.
func writeReportOutputs(report *urlsupaction.Report, reportPath string, exitCode int) error {
	metrics := report.Metrics

	outputs := [][2]string{
		{"total-urls", strconv.Itoa(metrics.TotalURLs)},
		{"broken-urls", strconv.Itoa(metrics.BrokenURLs)},
		{"success-rate", strconv.Itoa(metrics.SuccessRate) + "%"},
		{"report-path", reportPath},
		{"exit-code", strconv.Itoa(exitCode)},
	}

	if report.Rich {
		outputs = append(outputs,
			[2]string{"total-files", strconv.Itoa(metrics.TotalFiles)},
			[2]string{"processed-files", strconv.Itoa(metrics.ProcessedFiles)},
			[2]string{"total-found-urls", strconv.Itoa(metrics.TotalFoundURLs)},
			[2]string{"unique-urls", strconv.Itoa(metrics.UniqueURLs)},
		)
	}

	for _, pair := range outputs {
		if err := gha.WriteOutput(pair[0], pair[1]); err != nil {
			return err
		}
	}

	return nil
}

func writeZeroOutputs(exitCode int) {
	outputs := [][2]string{
		{"total-urls", "0"},
		{"broken-urls", "0"},
		{"success-rate", "0%"},
		{"exit-code", strconv.Itoa(exitCode)},
		{"report-path", ""},
	}

	for _, pair := range outputs {
		if err := gha.WriteOutput(pair[0], pair[1]); err != nil {
			slog.Error("failed to write step output", "key", pair[0], "error", err)
		}
	}
}

func logVerdict(cfg *config.Config, brokenURLs int) {
	slog.Info("validation finished", "broken_urls", brokenURLs, "fail_on_error", cfg.FailOnError)

	switch {
	case brokenURLs > 0 && cfg.FailOnError:
		slog.Error("URL validation failed", "broken_urls", brokenURLs)
	case brokenURLs > 0:
		slog.Warn("broken URLs found, but fail-on-error is disabled", "broken_urls", brokenURLs)
	default:
		slog.Info("all URLs are valid")
	}
}
