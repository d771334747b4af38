// Package version exposes build metadata, set at link time:
//
//	go build -ldflags "-X github.com/jackzampolin/docustruct/version.GitRelease=v1.2.0 \
//	  -X github.com/jackzampolin/docustruct/version.GitCommit=$(git rev-parse --short HEAD) \
//	  -X github.com/jackzampolin/docustruct/version.GitCommitDate=$(git log -1 --format=%cs)"
package version

import (
	"fmt"
	"runtime"
)

var (
	// GitRelease is the release tag, "dev" for local builds.
	GitRelease = "dev"
	// GitCommit is the short commit hash.
	GitCommit = "unknown"
	// GitCommitDate is the commit date.
	GitCommitDate = "unknown"
	// GoInfo describes the toolchain and platform.
	GoInfo = fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
)
