package build

import "runtime"

// Set at link time, e.g. -ldflags "-X github.com/G-Research/acctdb/internal/acctdb/build.ReleaseVersion=v1.2.0"
var (
	ReleaseVersion = "UNKNOWN_VERSION"
	GitCommit      = "UNKNOWN_GITCOMMIT"
	BuildTime      = "UNKNOWN_BUILDTIME"
	GoVersion      = runtime.Version()
)
