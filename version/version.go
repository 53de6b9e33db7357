// Package version reports the version of the multitrack binaries.
package version

import (
	"fmt"
	"runtime/debug"
)

// Version can be set at build time:
// go build -ldflags "-X github.com/vsariola/multitrack/version.Version=$(git describe --dirty)"
var Version string

// Build describes the binary: the version given at build time, if any, and
// the VCS revision and Go version recorded by the toolchain.
type Build struct {
	Version   string
	Revision  string
	Modified  bool
	GoVersion string
}

var Current = readBuild(Version)

func readBuild(v string) Build {
	b := Build{Version: v}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	b.GoVersion = info.GoVersion
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			b.Revision = setting.Value[:min(7, len(setting.Value))]
		case "vcs.modified":
			b.Modified = setting.Value == "true"
		}
	}
	return b
}

// Short returns the version, or the revision if no version was set, or
// "devel" if neither is known.
func (b Build) Short() string {
	switch {
	case b.Version != "":
		return b.Version
	case b.Revision == "":
		return "devel"
	case b.Modified:
		return b.Revision + "-dirty"
	}
	return b.Revision
}

func (b Build) String() string {
	if b.GoVersion == "" {
		return b.Short()
	}
	return fmt.Sprintf("%s (%s)", b.Short(), b.GoVersion)
}
