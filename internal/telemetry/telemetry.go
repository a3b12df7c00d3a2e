// Package telemetry collects opt-in performance metrics for one action run.
// The collector is an explicitly constructed object handed to each stage, so
// nothing leaks across runs or tests. A nil or disabled collector is inert.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Repository size categories, by total file count.
const (
	sizeSmallLimit  = 20
	sizeMediumLimit = 100
)

// Collector accumulates timers and metrics while a run progresses.
type Collector struct {
	enabled bool

	mu             sync.Mutex
	metrics        map[string]any
	timers         map[string]time.Time
	batchDurations []float64
}

// New returns a collector; when enabled is false every method is a no-op.
func New(enabled bool) *Collector {
	return &Collector{
		enabled: enabled,
		metrics: map[string]any{},
		timers:  map[string]time.Time{},
	}
}

// Enabled reports whether the collector records anything.
func (c *Collector) Enabled() bool {
	return c != nil && c.enabled
}

// StartTimer marks the beginning of a named operation.
func (c *Collector) StartTimer(name string) {
	if !c.Enabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.timers[name] = time.Now()
}

// EndTimer stops a named timer, records "<name>_duration" in seconds and
// returns the duration. Returns zero when disabled or the timer never
// started.
func (c *Collector) EndTimer(name string) float64 {
	if !c.Enabled() {
		return 0
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	started, ok := c.timers[name]
	if !ok {
		return 0
	}

	delete(c.timers, name)

	seconds := time.Since(started).Seconds()
	c.metrics[name+"_duration"] = seconds

	return seconds
}

// Record stores one named metric.
func (c *Collector) Record(name string, value any) {
	if !c.Enabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.metrics[name] = value
}

// RecordBatchDuration adds one batch's wall-clock time to the distribution
// summarized by PerformanceSection.
func (c *Collector) RecordBatchDuration(d time.Duration) {
	if !c.Enabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.batchDurations = append(c.batchDurations, d.Seconds())
}

// Metric returns a recorded metric and whether it exists.
func (c *Collector) Metric(name string) (any, bool) {
	if !c.Enabled() {
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	value, ok := c.metrics[name]

	return value, ok
}

// RepositoryInfo describes the run environment: repository visibility,
// runner OS and size category. Empty when disabled.
func (c *Collector) RepositoryInfo() map[string]string {
	if !c.Enabled() {
		return map[string]string{}
	}

	info := map[string]string{
		"repo_type": "public",
		"runner_os": os.Getenv("RUNNER_OS"),
	}

	if os.Getenv("GITHUB_REPOSITORY_VISIBILITY") == "private" {
		info["repo_type"] = "private"
	}

	return info
}

// SizeCategory buckets a repository by file count.
func SizeCategory(totalFiles int) string {
	switch {
	case totalFiles < sizeSmallLimit:
		return "small"
	case totalFiles < sizeMediumLimit:
		return "medium"
	default:
		return "large"
	}
}

// Annotations writes ::notice workflow commands for the recorded metrics.
func (c *Collector) Annotations(out io.Writer) {
	if !c.Enabled() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if d, ok := c.metrics["validation_duration"].(float64); ok {
		fmt.Fprintf(out, "::notice title=Performance::Validation completed in %.2fs\n", d)
	}

	if d, ok := c.metrics["setup_duration"].(float64); ok {
		fmt.Fprintf(out, "::notice title=Performance::Setup completed in %.2fs\n", d)
	}

	if hit, ok := c.metrics["cache_hit"].(bool); ok && hit {
		fmt.Fprintln(out, "::notice title=Performance::Binary cache hit - faster execution")
	}

	if files, ok := c.metrics["total_files"].(int); ok {
		fmt.Fprintf(out, "::notice title=Repository::Size category: %s (%d files)\n",
			SizeCategory(files), files)
	}
}

// PerformanceSection renders the markdown performance block for the job
// summary. Empty when disabled or nothing was recorded.
func (c *Collector) PerformanceSection() string {
	if !c.Enabled() {
		return ""
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.metrics) == 0 && len(c.batchDurations) == 0 {
		return ""
	}

	var b strings.Builder

	b.WriteString("## Performance\n\n")
	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")

	keys := make([]string, 0, len(c.metrics))
	for key := range c.metrics {
		keys = append(keys, key)
	}

	sort.Strings(keys)

	for _, key := range keys {
		switch value := c.metrics[key].(type) {
		case float64:
			fmt.Fprintf(&b, "| %s | %.2fs |\n", metricLabel(key), value)
		default:
			fmt.Fprintf(&b, "| %s | %v |\n", metricLabel(key), value)
		}
	}

	if len(c.batchDurations) > 0 {
		durations := c.batchDurations
		fmt.Fprintf(&b, "| Batches | %d |\n", len(durations))
		fmt.Fprintf(&b, "| Batch mean | %.2fs |\n", stat.Mean(durations, nil))
		fmt.Fprintf(&b, "| Batch min | %.2fs |\n", floats.Min(durations))
		fmt.Fprintf(&b, "| Batch max | %.2fs |\n", floats.Max(durations))
	}

	b.WriteString("\n")

	return b.String()
}

func metricLabel(key string) string {
	label := strings.ReplaceAll(key, "_", " ")

	if label == "" {
		return label
	}

	return strings.ToUpper(label[:1]) + label[1:]
}
