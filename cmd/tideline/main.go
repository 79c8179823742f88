// Package main is the entry point for the tideline CLI tool.
package main

import (
	"os"

	"github.com/tideline/tideline/internal/buildinfo"
	"github.com/tideline/tideline/internal/cli"
)

// Build-time metadata injected via ldflags.
var (
	version   = "dev"
	commit    = "none"
	date      = "unknown"
	goVersion = "unknown"
)

func main() {
	buildinfo.Version = version
	buildinfo.Commit = commit
	buildinfo.Date = date
	buildinfo.GoVersion = goVersion

	os.Exit(cli.Execute())
}
