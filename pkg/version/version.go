// Package version holds build metadata injected by the linker, falling back
// to the module build info for go install builds.
package version

import "runtime/debug"

const unknown = "unknown"

// Set with -ldflags "-X github.com/Sumatoshi-tech/seasonality/pkg/version.Version=...".
var (
	Version = "dev"
	Commit  = unknown
	Date    = unknown
)

// InitBinaryVersion fills unset fields from the embedded build info.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if Commit == unknown {
				Commit = s.Value
			}
		case "vcs.time":
			if Date == unknown {
				Date = s.Value
			}
		}
	}
}

// String renders the version line printed by the CLI.
func String(name string) string {
	return name + " " + Version + " (commit: " + Commit + ", built: " + Date + ")"
}
