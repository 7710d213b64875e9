// Package main is the entry point for the rowcache-deploy CLI.
//
// rowcache-deploy renders Kubernetes manifests for a RowCache deployment
// from a default values schema plus operator-supplied overrides, and
// validates the configuration before anything is emitted.
//
// Commands: init, render, validate, version.
//
// For detailed usage information, run:
//
//	rowcache-deploy --help
package main

import (
	"fmt"
	"os"

	"github.com/rowcache/rowcache-deploy/cmd/rowcache-deploy/commands"
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
