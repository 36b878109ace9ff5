package buildinfo

import (
	"runtime"
	"runtime/debug"
)

// Build-time variables (set via ldflags).
var (
	Name      = "DevOps Demo App"
	Version   = "1.0.0"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info contains build information.
type Info struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
}

// Get returns the build information.
func Get() Info {
	return Info{
		Name:      Name,
		Version:   Version,
		Commit:    commit(),
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
	}
}

// String returns a formatted version string.
func String() string {
	return Name + " " + Version + " (" + commit() + ") built at " + BuildTime
}

func commit() string {
	if Commit != "unknown" && Commit != "" {
		return Commit
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && s.Value != "" {
				if len(s.Value) > 12 {
					return s.Value[:12]
				}
				return s.Value
			}
		}
	}
	return "unknown"
}
