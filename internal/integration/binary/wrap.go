package binary

import (
	"context"
	"os/exec"
	"regexp"
	"time"
)

const versionTimeout = 10 * time.Second

var semverPattern = regexp.MustCompile(`(\d+\.\d+\.\d+)`)

// Available checks if a binary is available in the system PATH.
func Available(binName string) (string, bool) {
	path, err := exec.LookPath(binName)

	return path, err == nil
}

// Version runs `<bin> --version` and extracts a semver from its output.
// It returns false when the binary cannot be executed or prints no
// recognizable version.
func Version(ctx context.Context, binPath string) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	//nolint:gosec // binPath comes from PATH lookup or our own cache dir
	output, err := exec.CommandContext(ctx, binPath, "--version").Output()
	if err != nil {
		return "", false
	}

	match := semverPattern.FindStringSubmatch(string(output))
	if match == nil {
		return "unknown", true
	}

	return match[1], true
}
