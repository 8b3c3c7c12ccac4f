// Package version holds the canonical version information for filmsync.
// Values are overwritten by the main package at startup (injected via
// LDFLAGS in release builds).
package version

var (
	Version   = "v1.2.0-dev"
	BuildTime = "unknown"
)

// String returns the full version string for display.
func String() string {
	return Version + " (" + BuildTime + ")"
}
