package command_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/simeg/urlsup-action/internal/command"
	"github.com/simeg/urlsup-action/internal/config"
)

func TestBuild_Defaults(t *testing.T) {
	args := command.Build(&config.Config{Recursive: true})

	assert.Equal(t, ".", args[0])
	assert.Contains(t, args, "--recursive")
	assert.Contains(t, args, "--format")
	assert.Contains(t, args, "json")
	assert.Contains(t, args, "--no-progress")
}

func TestBuild_FilesSplitOnWhitespace(t *testing.T) {
	args := command.Build(&config.Config{Files: "README.md docs/guide.md"})

	assert.Equal(t, "README.md", args[0])
	assert.Equal(t, "docs/guide.md", args[1])
	assert.NotContains(t, args, ".")
}

func TestBuild_NetworkOptions(t *testing.T) {
	args := command.Build(&config.Config{
		Timeout:     "30",
		Concurrency: "10",
		RetryDelay:  "2",
	})

	assert.Subset(t, args, []string{"--timeout", "30", "--concurrency", "10", "--retry-delay", "2"})
}

// A literal "0" for retry and rate-limit is an explicit opt-out and must not
// be passed as a flag; "1" must be.
func TestBuild_ZeroOptOut(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.Config
		flag   string
		expect bool
	}{
		{"retry zero skipped", config.Config{Retry: "0"}, "--retry", false},
		{"retry one passed", config.Config{Retry: "1"}, "--retry", true},
		{"retry unset skipped", config.Config{}, "--retry", false},
		{"rate-limit zero skipped", config.Config{RateLimit: "0"}, "--rate-limit", false},
		{"rate-limit one passed", config.Config{RateLimit: "1"}, "--rate-limit", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			args := command.Build(&tc.cfg)

			if tc.expect {
				assert.Contains(t, args, tc.flag)
			} else {
				assert.NotContains(t, args, tc.flag)
			}
		})
	}
}

func TestBuild_BooleanFlags(t *testing.T) {
	args := command.Build(&config.Config{
		AllowTimeout: true,
		Quiet:        true,
		Verbose:      true,
		Insecure:     true,
		NoConfig:     true,
	})

	assert.Subset(t, args, []string{"--allow-timeout", "--quiet", "--verbose", "--insecure", "--no-config"})

	off := command.Build(&config.Config{})

	for _, flag := range []string{"--allow-timeout", "--quiet", "--verbose", "--insecure", "--no-config", "--recursive"} {
		assert.NotContains(t, off, flag)
	}
}

func TestBuild_FilteringAndAdvanced(t *testing.T) {
	args := command.Build(&config.Config{
		IncludeExtensions: "md,html",
		Allowlist:         "example.com",
		AllowStatus:       "200,204,301",
		ExcludePattern:    "localhost",
		FailureThreshold:  "25",
		UserAgent:         "curl/8.0",
		Proxy:             "http://proxy:8080",
		ConfigFile:        ".urlsup.toml",
	})

	assert.Subset(t, args, []string{
		"--include", "md,html",
		"--allowlist", "example.com",
		"--allow-status", "200,204,301",
		"--exclude-pattern", "localhost",
		"--failure-threshold", "25",
		"--user-agent", "curl/8.0",
		"--proxy", "http://proxy:8080",
		"--config", ".urlsup.toml",
	})
}

// Unset options must be omitted entirely, never emitted as empty flags.
func TestBuild_NoEmptyArguments(t *testing.T) {
	args := command.Build(&config.Config{})

	for _, arg := range args {
		assert.NotEmpty(t, arg)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	cfg := &config.Config{Files: "docs", Recursive: true, Timeout: "5", Retry: "3"}

	assert.Equal(t, command.Build(cfg), command.Build(cfg))
}
