// Package runner drives urlsup executions: the single sequential run, and
// the batched fan-out for large file sets.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/farcloser/primordium/fault"

	"github.com/simeg/urlsup-action/internal/integration/urlsup"
)

// ExitToolMissing is the reserved wrapper exit code for a missing urlsup
// binary, distinct from any urlsup outcome.
const ExitToolMissing = 127

// State tracks a run through its lifecycle. ToolMissing and ExecutionError
// are terminal.
type State int

const (
	StateNotStarted State = iota
	StateCheckingTool
	StateToolMissing
	StateRunning
	StateCompleted
	StateExecutionError
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "not_started"
	case StateCheckingTool:
		return "checking_tool"
	case StateToolMissing:
		return "tool_missing"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateExecutionError:
		return "execution_error"
	}

	return "unknown"
}

// Result is the outcome of one driver run. ExitCode is urlsup's own exit
// code, captured independently of the wrapper's final reported status.
type Result struct {
	State       State
	ExitCode    int
	ToolVersion string
	ReportPath  string
	Stderr      string
}

// Driver executes urlsup once, writing its stdout to a report file.
type Driver struct {
	state State
}

// New returns a driver in the NotStarted state.
func New() *Driver {
	return &Driver{state: StateNotStarted}
}

// State returns the driver's current lifecycle state.
func (d *Driver) State() State {
	return d.state
}

// Run verifies the tool, spawns it with the built argument list and captures
// its report. Spawn-level failures are caught and mapped to ExecutionError;
// the run never raises past this boundary.
func (d *Driver) Run(ctx context.Context, args []string, reportPath string) *Result {
	d.state = StateCheckingTool

	version, err := urlsup.Check(ctx)
	if err != nil {
		if errors.Is(err, fault.ErrMissingRequirements) {
			slog.Error("urlsup binary not found in PATH")

			d.state = StateToolMissing

			return &Result{State: StateToolMissing, ExitCode: ExitToolMissing}
		}

		slog.Error("urlsup version check failed", "error", err)

		d.state = StateToolMissing

		return &Result{State: StateToolMissing, ExitCode: ExitToolMissing}
	}

	d.state = StateRunning

	report, err := os.Create(reportPath) //nolint:gosec // report path is workspace-relative, chosen by us
	if err != nil {
		slog.Error("failed to create report file", "path", reportPath, "error", err)

		d.state = StateExecutionError

		return &Result{State: StateExecutionError, ExitCode: 1, ToolVersion: version}
	}
	defer report.Close()

	exitCode, stderr, err := urlsup.Run(ctx, args, report)
	if err != nil {
		slog.Error("failed to execute urlsup", "error", err)

		d.state = StateExecutionError

		return &Result{
			State:       StateExecutionError,
			ExitCode:    1,
			ToolVersion: version,
			ReportPath:  reportPath,
			Stderr:      stderr,
		}
	}

	if exitCode != 0 {
		slog.Warn("urlsup exited with nonzero code", "code", exitCode)
	}

	d.state = StateCompleted

	return &Result{
		State:       StateCompleted,
		ExitCode:    exitCode,
		ToolVersion: version,
		ReportPath:  reportPath,
		Stderr:      stderr,
	}
}
