package main

import (
	"os"

	"github.com/pnm-media/filmsync/internal/cli"
	"github.com/pnm-media/filmsync/internal/version"
)

// Version information, overridden at release time via LDFLAGS.
var (
	Version   = "v1.0.0"
	BuildTime = "2026-08-26"
)

func main() {
	version.Version = Version
	version.BuildTime = BuildTime
	cli.Version = Version
	cli.BuildTime = BuildTime

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
