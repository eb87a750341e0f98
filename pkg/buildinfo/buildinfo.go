// Package buildinfo exposes the build version of infinityflow.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/infinityflow/pkg/buildinfo.Version=v0.3.0 \
//	    -X github.com/matzehuels/infinityflow/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/infinityflow/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Unstamped builds fall back to the module version and VCS settings the Go
// toolchain records in the binary.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info is the resolved build information.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go"`
}

var (
	once     sync.Once
	resolved Info
)

// Get returns the build information, filling unstamped fields from the
// binary's embedded build settings.
func Get() Info {
	once.Do(func() {
		resolved = Info{Version: Version, Commit: Commit, Date: Date, GoVersion: runtime.Version()}
		bi, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		if resolved.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
			resolved.Version = bi.Main.Version
		}
		for _, s := range bi.Settings {
			switch {
			case s.Key == "vcs.revision" && resolved.Commit == "none":
				resolved.Commit = s.Value
			case s.Key == "vcs.time" && resolved.Date == "unknown":
				resolved.Date = s.Value
			}
		}
	})
	return resolved
}

func (i Info) String() string {
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s\ngo: %s", i.Version, i.Commit, i.Date, i.GoVersion)
}

// Template returns the cobra version template.
func Template() string {
	i := Get()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", i.Version, i.Commit, i.Date)
}
