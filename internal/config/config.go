// Package config loads action inputs from the INPUT_* environment variables
// GitHub Actions sets for each step.
package config

import (
	"os"
	"strings"
)

// Config holds every action input. Numeric inputs stay strings on purpose:
// they are forwarded to urlsup uninterpreted, and urlsup is responsible for
// rejecting malformed values.
type Config struct {
	Files             string
	Recursive         bool
	IncludeExtensions string
	Timeout           string
	Concurrency       string
	Retry             string
	RetryDelay        string
	RateLimit         string
	Allowlist         string
	AllowStatus       string
	ExcludePattern    string
	AllowTimeout      bool
	FailureThreshold  string
	Quiet             bool
	Verbose           bool
	UserAgent         string
	Proxy             string
	Insecure          bool
	ConfigFile        string
	NoConfig          bool

	FailOnError        bool
	ParallelProcessing bool
	Telemetry          bool
	ShowPerformance    bool
}

// FromEnv reads all action inputs. Absent inputs get their action.yml
// defaults: recursive and fail-on-error are true, every other boolean false.
func FromEnv() *Config {
	return &Config{
		Files:             os.Getenv("INPUT_FILES"),
		Recursive:         boolInput("INPUT_RECURSIVE", true),
		IncludeExtensions: os.Getenv("INPUT_INCLUDE_EXTENSIONS"),
		Timeout:           os.Getenv("INPUT_TIMEOUT"),
		Concurrency:       os.Getenv("INPUT_CONCURRENCY"),
		Retry:             os.Getenv("INPUT_RETRY"),
		RetryDelay:        os.Getenv("INPUT_RETRY_DELAY"),
		RateLimit:         os.Getenv("INPUT_RATE_LIMIT"),
		Allowlist:         os.Getenv("INPUT_ALLOWLIST"),
		AllowStatus:       os.Getenv("INPUT_ALLOW_STATUS"),
		ExcludePattern:    os.Getenv("INPUT_EXCLUDE_PATTERN"),
		AllowTimeout:      boolInput("INPUT_ALLOW_TIMEOUT", false),
		FailureThreshold:  os.Getenv("INPUT_FAILURE_THRESHOLD"),
		Quiet:             boolInput("INPUT_QUIET", false),
		Verbose:           boolInput("INPUT_VERBOSE", false),
		UserAgent:         os.Getenv("INPUT_USER_AGENT"),
		Proxy:             os.Getenv("INPUT_PROXY"),
		Insecure:          boolInput("INPUT_INSECURE", false),
		ConfigFile:        os.Getenv("INPUT_CONFIG"),
		NoConfig:          boolInput("INPUT_NO_CONFIG", false),

		FailOnError:        boolInput("INPUT_FAIL_ON_ERROR", true),
		ParallelProcessing: boolInput("INPUT_PARALLEL_PROCESSING", false),
		Telemetry:          boolInput("INPUT_TELEMETRY", false),
		ShowPerformance:    boolInput("INPUT_SHOW_PERFORMANCE", false),
	}
}

// ToBool converts an action input to a boolean. Recognized true-like tokens
// are true, 1, yes and on, case-insensitive; everything else, including
// absence, is false.
func ToBool(value string) bool {
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}

func boolInput(key string, fallback bool) bool {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}

	return ToBool(value)
}
