// Package version exposes build version information for the tool.
package version

import "fmt"

// Populated via ldflags in release builds; the zero values identify a
// development build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// GetVersion returns the bare version string.
func GetVersion() string {
	return Version
}

// GetFullVersion returns the version with commit and build date, e.g.
// "v0.3.0 (commit: abc123, built: 2026-01-15T10:30:00Z)".
func GetFullVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
