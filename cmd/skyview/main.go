// Package main is the entry point for the skyview CLI.
//
// The binary serves the weather dashboard, answers one-shot forecast
// lookups, maintains the location catalog, and packages the service
// into a Docker container. All functionality lives in the internal/cli
// package, which defines cobra commands.
//
// Build-time variables (version, commit, date) are injected via ldflags
// during the release process. During development, they default to
// "dev", "none", and "unknown" respectively.
package main

import (
	// The containerized image has no zoneinfo database; the embedded
	// copy keeps per-location timezone math working there.
	_ "time/tzdata"

	"github.com/data-tamer2410/sky-view/internal/cli"
)

// version, commit, and date are set at build time via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Inject build-time version info into the CLI package. This
	// decouples the build system (ldflags) from the CLI framework.
	cli.Version = version
	cli.Commit = commit
	cli.Date = date

	rootCmd := cli.NewRootCommand()
	cli.Execute(rootCmd)
}
