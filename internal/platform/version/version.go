// Package version reports which build of the helpful service is running.
package version

import (
	"runtime"
	"runtime/debug"
)

// Service names this binary in /version and the startup log.
const Service = "helpful"

const unknown = "unknown"

// Release metadata set with -ldflags "-X .../version.Version=v1.4.0". Empty
// values fall back to the VCS stamp the go tool embeds.
var (
	Version   = ""
	Commit    = ""
	BuildTime = ""
)

type Info struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Modified  bool   `json:"modified"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the build of the running binary.
func Get() Info {
	bi, _ := debug.ReadBuildInfo()
	return resolve(Info{Version: Version, Commit: Commit, BuildTime: BuildTime}, bi)
}

// resolve fills the fields linked is missing from bi. bi may be nil.
func resolve(linked Info, bi *debug.BuildInfo) Info {
	info := linked
	info.Service = Service
	info.GoVersion = runtime.Version()

	if bi != nil {
		if info.Version == "" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			info.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.Commit == "" {
					info.Commit = s.Value
				}
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = s.Value
				}
			case "vcs.modified":
				info.Modified = s.Value == "true"
			}
		}
	}

	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = unknown
	}
	if info.BuildTime == "" {
		info.BuildTime = unknown
	}
	return info
}
