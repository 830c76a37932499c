// Package version provides build-time version information for the
// command-line harnesses.
package version

// These variables are set at build time using -ldflags.
var (
	// Version is the semantic version.
	Version = "0.1.0"

	// GitCommit is the git commit hash.
	GitCommit = "unknown"
)

// String returns a printable version line.
func String() string {
	return Version + " (" + GitCommit + ")"
}
