package main

import (
	"os"

	"github.com/tgienger/studyhub/internal/cli"
)

// Version information set via ldflags
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(cli.Execute(cli.BuildInfo{
		Version: version,
		Commit:  commit,
		Date:    date,
	}, os.Args[1:], os.Stdout, os.Stderr))
}
