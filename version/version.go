// Package version exposes build metadata set at link time.
//
//	go build -ldflags "-X github.com/natthawutgeng05/ocr-typhoon/version.GitRelease=v1.0.0"
package version

import (
	"fmt"
	"runtime"
)

var (
	// GitRelease is the release tag, or "dev" for local builds.
	GitRelease = "dev"
	// GitCommit is the commit hash the binary was built from.
	GitCommit = "unknown"
	// GitCommitDate is the commit date in RFC 3339 form.
	GitCommitDate = "unknown"
	// GoInfo describes the toolchain and target platform.
	GoInfo = fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH)
)

// APIVersion is reported by the health endpoint.
const APIVersion = "1.0.0"
