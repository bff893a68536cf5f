package version

import "fmt"

// These variables are set via ldflags during build
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// GetVersion returns the version string
func GetVersion() string {
	return Version
}

// GetFullVersion returns the version with the short commit for release builds
func GetFullVersion() string {
	if Version == "dev" || GitCommit == "unknown" {
		return Version
	}
	commit := GitCommit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	return fmt.Sprintf("%s (%s)", Version, commit)
}

// String returns a one-line build description
func String() string {
	return fmt.Sprintf("gostl-slice %s, commit %s, built %s", Version, GitCommit, BuildDate)
}
