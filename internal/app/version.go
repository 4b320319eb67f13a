package app

import (
	"fmt"
	"runtime/debug"
)

// Set with -ldflags "-X github.com/heartmarshall/roadsigns-backend/internal/app.Version=1.4.0".
var (
	Version   = "dev"
	Commit    = ""
	BuildTime = ""
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	Modified  bool   `json:"modified,omitempty"`
}

// Info reports the ldflags values, falling back to the VCS stamp the Go
// toolchain embeds when they were not set.
func Info() BuildInfo {
	info := BuildInfo{Version: Version, Commit: Commit, BuildTime: BuildTime}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
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
	return info
}

// BuildVersion is the one-line form used in logs and the health endpoint.
func BuildVersion() string {
	info := Info()
	commit := info.Commit
	if len(commit) > 12 {
		commit = commit[:12]
	}
	if commit == "" {
		commit = "unknown"
	}
	if info.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (%s)", info.Version, commit)
}
