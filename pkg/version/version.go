// Package version reports how the tempo binary was built.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

var (
	Version   string // Set via ldflags.
	Branch    string
	BuildUser string
	BuildDate string

	Revision  = getRevision(readBuildInfo)
	GoVersion = runtime.Version()
	GoOS      = runtime.GOOS
	GoArch    = runtime.GOARCH
)

var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the ldflags version, then the module version from the
// build info, then the VCS revision.
func GetVersion() string {
	return getVersion(Version, readBuildInfo)
}

// String summarizes the build on one line.
func String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "tempo %s (%s", GetVersion(), Revision)

	if Branch != "" {
		fmt.Fprintf(&b, ", branch %s", Branch)
	}

	if BuildDate != "" {
		fmt.Fprintf(&b, ", built %s", BuildDate)
	}

	if BuildUser != "" {
		fmt.Fprintf(&b, " by %s", BuildUser)
	}

	fmt.Fprintf(&b, ") %s %s/%s", GoVersion, GoOS, GoArch)

	return b.String()
}

func getVersion(ldflags string, read func() (*debug.BuildInfo, bool)) string {
	if ldflags != "" {
		return ldflags
	}

	if info, ok := read(); ok {
		v := info.Main.Version
		if v != "" && v != "(devel)" {
			return v
		}
	}

	return getRevision(read)
}

func getRevision(read func() (*debug.BuildInfo, bool)) string {
	rev := "unknown"

	buildInfo, ok := read()
	if !ok {
		return rev
	}

	modified := false

	for _, v := range buildInfo.Settings {
		switch v.Key {
		case "vcs.revision":
			rev = v.Value[:min(len(v.Value), 7)]

		case "vcs.modified":
			modified = v.Value == "true"
		}
	}

	if modified {
		return rev + "-dirty"
	}

	return rev
}
