// Package version holds build metadata injected via ldflags:
//
//	-X github.com/tacogips/sectionforge/internal/version.Version=x.y.z
package version

var (
	// Version is the release version.
	Version = "dev"
	// GitCommit is the commit the binary was built from.
	GitCommit = "unknown"
	// BuildDate is the build timestamp.
	BuildDate = "unknown"
)
