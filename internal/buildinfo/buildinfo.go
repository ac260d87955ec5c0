// Package buildinfo reports the version of the running binary.
package buildinfo

import (
	"runtime"
	"runtime/debug"
	"strings"
)

// These values are injected via ldflags for release binaries.
// They default to empty for local/dev builds.
var (
	Version = ""
	Commit  = ""
	Date    = ""
)

const defaultModulePath = "github.com/aidanlsb/tern"

// Info describes how the binary was built.
type Info struct {
	Version    string `json:"version"`
	ModulePath string `json:"module_path"`
	Commit     string `json:"commit,omitempty"`
	CommitTime string `json:"commit_time,omitempty"`
	Modified   bool   `json:"modified"`
	GoVersion  string `json:"go_version"`
	Platform   string `json:"platform"`
}

var readBuildInfo = debug.ReadBuildInfo

// Current reads the embedded module and VCS metadata, falling back to the
// ldflags values when the toolchain recorded none.
func Current() Info {
	info := Info{
		Version:    "devel",
		ModulePath: defaultModulePath,
		GoVersion:  runtime.Version(),
		Platform:   runtime.GOOS + "/" + runtime.GOARCH,
	}

	if bi, ok := readBuildInfo(); ok && bi != nil {
		if bi.Main.Path != "" {
			info.ModulePath = bi.Main.Path
		}
		info.Version = normalize(bi.Main.Version)
		if bi.GoVersion != "" {
			info.GoVersion = bi.GoVersion
		}
		info.Commit = setting(bi, "vcs.revision")
		info.CommitTime = setting(bi, "vcs.time")
		info.Modified = strings.EqualFold(setting(bi, "vcs.modified"), "true")
	}

	if info.Version == "devel" && Version != "" {
		info.Version = normalize(Version)
	}
	if info.Commit == "" {
		info.Commit = Commit
	}
	if info.CommitTime == "" {
		info.CommitTime = Date
	}
	return info
}

func normalize(version string) string {
	if version == "" || version == "(devel)" {
		return "devel"
	}
	return version
}

func setting(bi *debug.BuildInfo, key string) string {
	for _, s := range bi.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
