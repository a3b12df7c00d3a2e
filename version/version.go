// Package version exposes build-time information, set via -ldflags.
package version

//nolint:gochecknoglobals // populated by the linker
var (
	name    = "urlsup-action"
	version = "dev"
	commit  = "unknown"
)

// Name returns the binary name.
func Name() string {
	return name
}

// Version returns the release version.
func Version() string {
	return version
}

// Commit returns the git commit the binary was built from.
func Commit() string {
	return commit
}
