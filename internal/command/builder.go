// Package command builds the urlsup argument list from action inputs.
package command

import (
	"strings"

	"github.com/simeg/urlsup-action/internal/config"
)

// Build maps the action configuration to an ordered urlsup argument list.
// Unset options are omitted entirely; no empty flags are emitted. Output is
// unconditionally forced to JSON and the progress bar is disabled, because
// the report is consumed programmatically.
func Build(cfg *config.Config) []string {
	var args []string

	// File selection.
	if cfg.Files != "" {
		args = append(args, strings.Fields(cfg.Files)...)
	} else {
		args = append(args, ".")
	}

	if cfg.Recursive {
		args = append(args, "--recursive")
	}

	if cfg.IncludeExtensions != "" {
		args = append(args, "--include", cfg.IncludeExtensions)
	}

	// Network configuration.
	if cfg.Timeout != "" {
		args = append(args, "--timeout", cfg.Timeout)
	}

	if cfg.Concurrency != "" {
		args = append(args, "--concurrency", cfg.Concurrency)
	}

	// A literal "0" means retries are explicitly opted out of, not one retry
	// with a zero budget.
	if cfg.Retry != "" && cfg.Retry != "0" {
		args = append(args, "--retry", cfg.Retry)
	}

	if cfg.RetryDelay != "" {
		args = append(args, "--retry-delay", cfg.RetryDelay)
	}

	if cfg.RateLimit != "" && cfg.RateLimit != "0" {
		args = append(args, "--rate-limit", cfg.RateLimit)
	}

	// URL filtering.
	if cfg.Allowlist != "" {
		args = append(args, "--allowlist", cfg.Allowlist)
	}

	if cfg.AllowStatus != "" {
		args = append(args, "--allow-status", cfg.AllowStatus)
	}

	if cfg.ExcludePattern != "" {
		args = append(args, "--exclude-pattern", cfg.ExcludePattern)
	}

	if cfg.AllowTimeout {
		args = append(args, "--allow-timeout")
	}

	if cfg.FailureThreshold != "" {
		args = append(args, "--failure-threshold", cfg.FailureThreshold)
	}

	// Output configuration.
	args = append(args, "--format", "json")

	if cfg.Quiet {
		args = append(args, "--quiet")
	}

	if cfg.Verbose {
		args = append(args, "--verbose")
	}

	args = append(args, "--no-progress")

	// Advanced options.
	if cfg.UserAgent != "" {
		args = append(args, "--user-agent", cfg.UserAgent)
	}

	if cfg.Proxy != "" {
		args = append(args, "--proxy", cfg.Proxy)
	}

	if cfg.Insecure {
		args = append(args, "--insecure")
	}

	if cfg.ConfigFile != "" {
		args = append(args, "--config", cfg.ConfigFile)
	}

	if cfg.NoConfig {
		args = append(args, "--no-config")
	}

	return args
}
