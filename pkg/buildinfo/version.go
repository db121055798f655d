// Package buildinfo provides build-time version information.
//
// Variables are set via ldflags during build:
//
//	go build -ldflags "-X github.com/jamestrimble/maximal-clique/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/jamestrimble/maximal-clique/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/jamestrimble/maximal-clique/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Binaries built with go install carry no ldflags; for those the module
// version and VCS stamp embedded by the toolchain are used instead.
package buildinfo

import (
	"fmt"
	"runtime/debug"
	"sync"
)

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

var fillOnce sync.Once

// fill replaces unset values from the embedded build info.
func fill() {
	fillOnce.Do(func() {
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			Version = info.Main.Version
		}
		for _, s := range info.Settings {
			switch {
			case s.Key == "vcs.revision" && Commit == "none":
				Commit = s.Value
			case s.Key == "vcs.time" && Date == "unknown":
				Date = s.Value
			}
		}
	})
}

// Info is the JSON form of the build information.
type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Get returns the build information.
func Get() Info {
	fill()
	return Info{Version: Version, Commit: Commit, Date: Date}
}

// String returns the formatted build information.
func String() string {
	fill()
	return fmt.Sprintf("version: %s\ncommit: %s\nbuilt: %s", Version, Commit, Date)
}

// Template returns the version template string for cobra.
func Template() string {
	fill()
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
