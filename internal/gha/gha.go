// Package gha wraps the GitHub Actions runner interfaces: workspace
// discovery, the key=value output file, the step summary file and PATH
// extension. Every writer is a no-op outside an Actions environment so the
// binary stays runnable locally.
package gha

import (
	"fmt"
	"os"
)

// Workspace returns the checkout directory, defaulting to the current
// directory outside of Actions.
func Workspace() string {
	if workspace := os.Getenv("GITHUB_WORKSPACE"); workspace != "" {
		return workspace
	}

	return "."
}

// RunID returns the workflow run identifier.
func RunID() string {
	if id := os.Getenv("GITHUB_RUN_ID"); id != "" {
		return id
	}

	return "N/A"
}

// WriteOutput appends one key=value line to the host-provided output file.
func WriteOutput(key, value string) error {
	return appendLine(os.Getenv("GITHUB_OUTPUT"), key+"="+value)
}

// AppendSummary appends a markdown fragment to the job summary file.
func AppendSummary(markdown string) error {
	file := os.Getenv("GITHUB_STEP_SUMMARY")
	if file == "" {
		return nil
	}

	return appendRaw(file, markdown)
}

// AppendPath adds a directory to the PATH of subsequent workflow steps.
func AppendPath(dir string) error {
	return appendLine(os.Getenv("GITHUB_PATH"), dir)
}

func appendLine(file, line string) error {
	if file == "" {
		return nil
	}

	return appendRaw(file, line+"\n")
}

func appendRaw(file, content string) error {
	handle, err := os.OpenFile(file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644) //nolint:gosec // runner-owned file
	if err != nil {
		return fmt.Errorf("opening %s: %w", file, err)
	}
	defer handle.Close()

	if _, err := handle.WriteString(content); err != nil {
		return fmt.Errorf("writing %s: %w", file, err)
	}

	return nil
}
