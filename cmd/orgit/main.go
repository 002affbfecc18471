package main

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set with -ldflags "-X main.version=... -X main.commit=... -X main.date=..."
var (
	version = "dev"
	commit  = ""
	date    = ""
)

func main() {
	Execute()
}

// versionString describes the binary. Builds without ldflags, such as
// go install, fall back to the module version and VCS stamp of the build.
func versionString() string {
	v, rev, when := version, commit, date
	if info, ok := debug.ReadBuildInfo(); ok {
		v, rev, when = fromBuildInfo(info, v, rev, when)
	}
	if rev == "" {
		rev = "none"
	}
	if when == "" {
		when = "unknown"
	}
	return fmt.Sprintf("orgit %s (%s, %s, %s)", v, rev[:min(7, len(rev))], when, runtime.Version())
}

// fromBuildInfo fills the unset parts of version, commit and date from info.
func fromBuildInfo(info *debug.BuildInfo, version, commit, date string) (string, string, string) {
	if version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch {
		case s.Key == "vcs.revision" && commit == "":
			commit = s.Value
		case s.Key == "vcs.time" && date == "":
			date = s.Value
		}
	}
	return version, commit, date
}
