// Package version reports build metadata for the siteassets binary.
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Name is the program name used in version strings and the User-Agent
const Name = "siteassets"

// ProjectURL is advertised in the User-Agent
const ProjectURL = "https://github.com/quantmind-br/siteassets-go"

// Build-time variables (set via ldflags)
var (
	Version   = "dev"
	BuildTime = "unknown"
	Commit    = "unknown"
)

// Info contains version information
type Info struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	Commit    string `json:"commit"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// Get returns the current version info
func Get() Info {
	return Info{
		Version:   Version,
		BuildTime: BuildTime,
		Commit:    Commit,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// String returns a formatted version string
func (i Info) String() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s, %s %s/%s)",
		Name, i.Version, i.Commit, i.BuildTime, i.GoVersion, i.OS, i.Arch)
}

// Short returns the version without a leading "v"
func Short() string {
	return strings.TrimPrefix(Version, "v")
}

// Full returns a full version string
func Full() string {
	return Get().String()
}

// UserAgent returns the User-Agent sent to static hosts
func UserAgent() string {
	return fmt.Sprintf("%s/%s (+%s)", Name, Short(), ProjectURL)
}
