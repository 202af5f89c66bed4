// Package version provides version information.
package version

import (
	"fmt"
	"runtime"
)

// Version is the current version of bazel-debug-config
const Version = "0.1.0"

// GetVersion returns the current version
func GetVersion() string {
	return Version
}

// String returns the version line printed by --version.
func String() string {
	return fmt.Sprintf("%s (%s %s/%s)", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
