package version

import (
	"fmt"
	"runtime/debug"
)

// Build variables to be set via ldflags during compilation
// These variables are injected by GoReleaser with consistent paths:
// -X 'github.com/gantryhq/gantry/pkg/version.Version=v1.0.0'
// -X 'github.com/gantryhq/gantry/pkg/version.CommitHash=abc123'
// -X 'github.com/gantryhq/gantry/pkg/version.BuildDate=2024-01-01T00:00:00Z'
var (
	// Version is the semantic version of the binary (e.g., "1.0.0")
	Version = "unknown"
	// CommitHash is the git commit hash used to build the binary
	CommitHash = "unknown"
	// BuildDate is the timestamp when the binary was built (RFC3339 format)
	BuildDate = "unknown"
)

// Info returns build information in a structured format
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildDate  string `json:"build_date"`
}

// Get returns the current build information
func Get() Info {
	return Info{
		Version:    resolveVersion(),
		CommitHash: CommitHash,
		BuildDate:  BuildDate,
	}
}

// GetVersion returns just the version string
func GetVersion() string {
	return resolveVersion()
}

// String renders build information as a single human-readable line
func (i Info) String() string {
	return fmt.Sprintf("gantry %s (commit %s, built %s)", i.Version, i.CommitHash, i.BuildDate)
}

// resolveVersion falls back to module build info when ldflags were not set,
// which covers `go install` builds
func resolveVersion() string {
	if Version != "unknown" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
