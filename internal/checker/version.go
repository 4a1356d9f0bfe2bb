package checker

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set through -ldflags at release time.
var (
	Version   = "dev"
	Commit    = "unknown"
	Date      = "unknown"
	GoVersion = runtime.Version()
)

// PrintVersion prints build information. A binary built with `go install`
// carries no ldflags, so the module version is used instead.
func PrintVersion() {
	version := Version
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
	}

	fmt.Println("hassglue - Home Assistant Supervisor update and file size companion")
	fmt.Printf("  %-10s %s\n", "Version:", version)
	fmt.Printf("  %-10s %s\n", "Go Version:", GoVersion)
	fmt.Printf("  %-10s %s\n", "Git Commit:", Commit)
	fmt.Printf("  %-10s %s\n", "Built:", Date)
	fmt.Printf("  %-10s %s/%s\n", "OS/Arch:", runtime.GOOS, runtime.GOARCH)
}
