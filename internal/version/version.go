// Package version holds the exporter version. The version string is written
// into every manifest.json as manifest_version, so downstream importers can
// tell which tool produced a kit.
package version

import (
	"fmt"
	"runtime"
)

// These variables are set at build time using -ldflags
var (
	// Version is the semantic version of the exporter
	Version = "1.0.18"

	// GitCommit is the git commit hash when the binary was built
	GitCommit = "unknown"
)

// String returns the human-readable version line.
func String() string {
	return fmt.Sprintf("kitpack %s (%s, %s/%s)", Version, GitCommit, runtime.GOOS, runtime.GOARCH)
}
