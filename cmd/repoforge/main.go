// Package main is the entry point for the repoforge CLI.
//
// repoforge bulk-provisions GitHub repositories from a declarative YAML
// configuration: it issues Tailscale auth keys, creates repositories,
// uploads template content, injects encrypted Actions secrets, and
// optionally triggers CI workflows.
//
// Commands: run, init, validate, keys, version, completion.
//
// For detailed usage information, run:
//
//	repoforge --help
package main

import (
	"fmt"
	"os"

	"github.com/forgeops/repoforge/cmd/repoforge/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
