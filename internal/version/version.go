// Package version reports build metadata injected with -ldflags or read
// from the module build info.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
	"time"
)

// ProjectName is the binary name shown in version output.
const ProjectName = "dispatchdesk"

// Set at build time:
//
//	-ldflags "-X github.com/truckline/dispatchdesk/internal/version.version=1.2.0"
var (
	version   = "dev"
	buildDate = "unknown"
	commit    = "unknown"
)

// BuildInfo contains build-time information.
type BuildInfo struct {
	Version   string
	BuildDate string
	Commit    string
	GoVersion string
	OS        string
	Arch      string
}

// GetBuildInfo returns the ldflags values, filling a dev build from
// debug.ReadBuildInfo when the binary was installed with go install.
func GetBuildInfo() *BuildInfo {
	info := &BuildInfo{
		Version:   version,
		BuildDate: buildDate,
		Commit:    commit,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	if info.Version != "dev" {
		return info
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}

	if v := bi.Main.Version; v != "" && v != "(devel)" {
		info.Version = strings.TrimPrefix(v, "v")
	}

	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "unknown" && len(s.Value) >= 7 {
				info.Commit = s.Value[:7]
			}
		case "vcs.time":
			if info.BuildDate == "unknown" {
				info.BuildDate = s.Value
			}
		}
	}

	return info
}

// GetVersionString returns "v<version>".
func GetVersionString() string {
	return "v" + GetBuildInfo().Version
}

// GetFullVersionString returns "v<version> (<commit>)".
func GetFullVersionString() string {
	info := GetBuildInfo()
	return fmt.Sprintf("v%s (%s)", info.Version, info.Commit)
}

// GetBuildDate parses the build date.
func GetBuildDate() (time.Time, error) {
	info := GetBuildInfo()
	if info.BuildDate == "unknown" {
		return time.Time{}, fmt.Errorf("build date not available")
	}

	return time.Parse(time.RFC3339, info.BuildDate)
}

// IsDevBuild reports whether no version was injected at build time.
func IsDevBuild() bool {
	return version == "dev"
}

// String renders the multi-line output of --version.
func (b *BuildInfo) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s version %s\n", ProjectName, b.Version)
	fmt.Fprintf(&sb, "Build date: %s\n", b.BuildDate)
	fmt.Fprintf(&sb, "Commit: %s\n", b.Commit)
	fmt.Fprintf(&sb, "Go version: %s\n", b.GoVersion)
	fmt.Fprintf(&sb, "OS/Arch: %s/%s\n", b.OS, b.Arch)

	return sb.String()
}
