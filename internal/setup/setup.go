// Package setup installs and caches the urlsup binary for the runner.
package setup

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/farcloser/primordium/fault"
	"github.com/google/go-github/v72/github"
	"golang.org/x/oauth2"

	"github.com/simeg/urlsup-action/internal/integration/binary"
)

const (
	toolOwner = "simeg"
	toolRepo  = "urlsup"

	apiTimeout = 30 * time.Second
)

var errBrokenInstall = errors.New("installed binary is not functional")

// Result describes a completed setup.
type Result struct {
	BinaryPath string
	Version    string
	CacheHit   bool
}

// BinDir is the directory setup adds to the workflow PATH.
func (r *Result) BinDir() string {
	return filepath.Dir(r.BinaryPath)
}

// Run ensures a working urlsup binary in the user cache, installing it via
// cargo when the cached copy is absent or the wrong version. requested is a
// semver (with or without a v prefix) or "latest".
func Run(ctx context.Context, requested string) (*Result, error) {
	if requested == "" {
		requested = "latest"
	}

	cacheDir, err := cachePath()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Join(cacheDir, "bin"), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	binaryPath := filepath.Join(cacheDir, "bin", toolRepo)

	if cached, ok := cachedVersion(ctx, binaryPath, requested); ok {
		slog.Info("urlsup already installed and cached", "version", cached)

		return &Result{BinaryPath: binaryPath, Version: cached, CacheHit: true}, nil
	}

	version := resolveVersion(ctx, requested)

	if err := cargoInstall(ctx, cacheDir, version); err != nil {
		return nil, err
	}

	installed, ok := binary.Version(ctx, binaryPath)
	if !ok {
		os.Remove(binaryPath)

		return nil, errBrokenInstall
	}

	slog.Info("urlsup installed", "version", installed)

	return &Result{BinaryPath: binaryPath, Version: installed}, nil
}

func cachePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home dir: %w", err)
	}

	return filepath.Join(home, ".cache", toolRepo), nil
}

// cachedVersion reports whether the cached binary already satisfies the
// requested version.
func cachedVersion(ctx context.Context, binaryPath, requested string) (string, bool) {
	if _, err := os.Stat(binaryPath); err != nil {
		return "", false
	}

	existing, ok := binary.Version(ctx, binaryPath)
	if !ok {
		return "", false
	}

	if requested == "latest" {
		return existing, true
	}

	if existing == strings.TrimPrefix(requested, "v") {
		return existing, true
	}

	slog.Info("cached version does not match, reinstalling",
		"cached", existing, "requested", requested)

	return "", false
}

// resolveVersion turns "latest" into a concrete release tag through the
// GitHub Releases API, authenticated with GITHUB_TOKEN when available. On
// API failure it returns "latest" and lets cargo resolve it instead.
func resolveVersion(ctx context.Context, requested string) string {
	if requested != "latest" {
		return strings.TrimPrefix(requested, "v")
	}

	ctx, cancel := context.WithTimeout(ctx, apiTimeout)
	defer cancel()

	httpClient := &http.Client{Timeout: apiTimeout}
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		httpClient = &http.Client{
			Transport: &oauth2.Transport{
				Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}),
			},
			Timeout: apiTimeout,
		}
	}

	release, _, err := github.NewClient(httpClient).Repositories.GetLatestRelease(ctx, toolOwner, toolRepo)
	if err != nil {
		slog.Warn("could not resolve latest release, deferring to cargo", "error", err)

		return "latest"
	}

	tag := strings.TrimPrefix(release.GetTagName(), "v")
	if tag == "" {
		return "latest"
	}

	slog.Info("resolved latest urlsup release", "version", tag)

	return tag
}

func cargoInstall(ctx context.Context, cacheDir, version string) error {
	cargoPath, found := binary.Available("cargo")
	if !found {
		return fmt.Errorf("%w: cargo", fault.ErrMissingRequirements)
	}

	args := []string{"install", toolRepo, "--root", cacheDir, "--force"}
	if version != "latest" {
		args = append(args, "--version", version)
	}

	slog.Info("installing urlsup via cargo", "version", version)

	cmd := exec.CommandContext(ctx, cargoPath, args...)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	return nil
}
