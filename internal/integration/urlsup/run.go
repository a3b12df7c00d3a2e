package urlsup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"

	"github.com/farcloser/primordium/fault"

	"github.com/simeg/urlsup-action/internal/integration/binary"
)

// Check verifies the binary is callable and returns its version. It requires
// urlsup to be available in the system PATH.
func Check(ctx context.Context) (string, error) {
	path, found := binary.Available(Name)
	if !found {
		return "", fmt.Errorf("%w: %s", fault.ErrMissingRequirements, Name)
	}

	version, ok := binary.Version(ctx, path)
	if !ok {
		return "", fmt.Errorf("%w: %s --version", fault.ErrCommandFailure, Name)
	}

	return version, nil
}

// Run invokes urlsup with the given argument list, streaming its stdout to
// out and collecting stderr for diagnostics. The tool's own exit code is
// returned separately from spawn-level failures: a nonzero exit (broken URLs
// found) is a normal outcome, not an error.
func Run(ctx context.Context, args []string, out io.Writer) (int, string, error) {
	slog.Debug("urlsup.Run", "args", args)

	path, found := binary.Available(Name)
	if !found {
		return 0, "", fmt.Errorf("%w: %s", fault.ErrMissingRequirements, Name)
	}

	//nolint:gosec // args are built from action inputs by the command builder
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Stdout = out

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode(), stderr.String(), nil
		}

		return 0, stderr.String(), fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	return 0, stderr.String(), nil
}
