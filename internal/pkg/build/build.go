// Package build contains information from the build environment,
// the values are set by ldflags.
package build

import (
	"runtime"
)

var (
	BuildVersion = "dev"
	GitCommit    = "-"
	BuildDate    = "-"
)

// Version for the --version flag.
func Version() string {
	return "Version:    " + BuildVersion + "\n" +
		"Git commit: " + GitCommit + "\n" +
		"Build date: " + BuildDate + "\n" +
		"Go version: " + runtime.Version() + "\n" +
		"Os/Arch:    " + runtime.GOOS + "/" + runtime.GOARCH + "\n"
}
