package runner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	urlsupaction "github.com/simeg/urlsup-action"
	"github.com/simeg/urlsup-action/internal/command"
	"github.com/simeg/urlsup-action/internal/config"
)

const (
	// batchThreshold is the minimum discovered file count before the batched
	// path is worth its overhead.
	batchThreshold = 20

	// maxWorkers is a conservative cap on concurrent urlsup invocations;
	// each one opens its own connection pool.
	maxWorkers = 4
)

// defaultExtensions are scanned when include-extensions is not set.
var defaultExtensions = []string{"md", "markdown"}

// ShouldBatch reports whether the batched path applies: it requires the
// explicit enable flag and at least batchThreshold discovered files.
func ShouldBatch(enabled bool, fileCount int) bool {
	return enabled && fileCount >= batchThreshold
}

// WorkerCount clamps the requested concurrency to at most maxWorkers and at
// most the host's core count. Absent or malformed input falls back to the
// cap itself.
func WorkerCount(requested string, numCPU int) int {
	workers := maxWorkers

	if parsed, err := strconv.Atoi(strings.TrimSpace(requested)); err == nil && parsed > 0 {
		workers = parsed
	}

	workers = min(workers, maxWorkers, numCPU)

	return max(workers, 1)
}

// DiscoverFiles collects the files a batched run would partition, honoring
// the files roots, the recursion flag and the extension filter. Explicitly
// listed files are always included.
func DiscoverFiles(cfg *config.Config, workspace string) ([]string, error) {
	extensions := defaultExtensions
	if cfg.IncludeExtensions != "" {
		extensions = nil
		for _, ext := range strings.Split(cfg.IncludeExtensions, ",") {
			ext = strings.TrimPrefix(strings.TrimSpace(ext), ".")
			if ext != "" {
				extensions = append(extensions, ext)
			}
		}
	}

	roots := strings.Fields(cfg.Files)
	if len(roots) == 0 {
		roots = []string{"."}
	}

	var files []string

	for _, root := range roots {
		if !filepath.IsAbs(root) {
			root = filepath.Join(workspace, root)
		}

		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", root, err)
		}

		if !info.IsDir() {
			files = append(files, root)

			continue
		}

		walked, err := walkRoot(root, cfg.Recursive, extensions)
		if err != nil {
			return nil, err
		}

		files = append(files, walked...)
	}

	slices.Sort(files)

	return files, nil
}

func walkRoot(root string, recursive bool, extensions []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if entry.IsDir() {
			if !recursive && path != root {
				return fs.SkipDir
			}

			return nil
		}

		ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
		if slices.Contains(extensions, ext) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", root, err)
	}

	return files, nil
}

// Partition splits files into contiguous batches of the given size; the
// final batch may be shorter.
func Partition(files []string, size int) [][]string {
	if size < 1 {
		size = 1
	}

	var batches [][]string

	for start := 0; start < len(files); start += size {
		end := min(start+size, len(files))
		batches = append(batches, files[start:end])
	}

	return batches
}

// BatchRun is the outcome of a batched execution after the merge step.
type BatchRun struct {
	Report *urlsupaction.Report

	// ExitCode is the wrapper-level verdict: 1 when any batch failed or the
	// merged status is failure, 0 otherwise.
	ExitCode int

	Batches       int
	FailedBatches int
	Durations     []time.Duration
}

// RunBatched partitions files, runs one independent driver per batch through
// a bounded worker pool, and merges the sub-reports in batch-completion
// order. A batch whose process fails is recorded as a failed batch rather
// than aborting its siblings; failed batches are not retried. The merged
// report is written to reportPath in the rich urlsup shape.
func RunBatched(
	ctx context.Context,
	cfg *config.Config,
	files []string,
	workers int,
	reportPath string,
) (*BatchRun, error) {
	batches := Partition(files, workers)

	slog.Info("running batched validation",
		"files", len(files), "batches", len(batches), "workers", workers)

	run := &BatchRun{Batches: len(batches)}

	var (
		mu        sync.Mutex
		reports   []*urlsupaction.Report
		waitGroup sync.WaitGroup
	)

	sem := make(chan struct{}, workers)

	for idx, batch := range batches {
		waitGroup.Add(1)

		go func(idx int, batch []string) {
			defer waitGroup.Done()

			sem <- struct{}{}

			defer func() { <-sem }()

			started := time.Now()
			report, failed := runBatch(ctx, cfg, batch, fmt.Sprintf("%s.batch-%d", reportPath, idx))
			elapsed := time.Since(started)

			mu.Lock()
			defer mu.Unlock()

			reports = append(reports, report)
			run.Durations = append(run.Durations, elapsed)

			if failed {
				run.FailedBatches++
			}
		}(idx, batch)
	}

	waitGroup.Wait()

	run.Report = urlsupaction.Merge(reports)

	if run.FailedBatches > 0 {
		run.Report.Metrics.Status = urlsupaction.StatusFailure
	}

	if run.Report.Metrics.Status != urlsupaction.StatusSuccess {
		run.ExitCode = 1
	}

	encoded, err := run.Report.Encode()
	if err != nil {
		return run, fmt.Errorf("encoding merged report: %w", err)
	}

	if err := os.WriteFile(reportPath, encoded, 0o644); err != nil { //nolint:gosec // workspace report file
		return run, fmt.Errorf("writing merged report: %w", err)
	}

	return run, nil
}

// runBatch executes one batch through its own driver and parses its
// sub-report. The boolean result marks a failed batch.
func runBatch(ctx context.Context, cfg *config.Config, batch []string, batchPath string) (*urlsupaction.Report, bool) {
	defer os.Remove(batchPath)

	batchCfg := *cfg
	batchCfg.Files = strings.Join(batch, " ")

	result := New().Run(ctx, command.Build(&batchCfg), batchPath)
	if result.State != StateCompleted {
		slog.Warn("batch execution failed", "state", result.State.String(), "files", len(batch))

		return &urlsupaction.Report{
			Metrics: urlsupaction.Metrics{Status: urlsupaction.StatusFailure},
		}, true
	}

	return urlsupaction.ParseFile(batchPath), false
}
