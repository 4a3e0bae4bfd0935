// Package buildinfo holds build-time variables injected via ldflags.
package buildinfo

// Populated by -ldflags at release build time; defaults used for local dev.
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// String returns the version with its commit suffix.
func String() string {
	if GitCommit == "unknown" {
		return Version
	}
	return Version + " (" + GitCommit + ")"
}
