package main

import (
	"os"

	"taskflow/internal/cli"
)

// Version is set at build time with -ldflags.
var Version = "dev"

func main() {
	if err := cli.Execute(Version); err != nil {
		os.Exit(1)
	}
}
