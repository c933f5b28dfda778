// Command molviz is the MolViz command line client.
package main

import (
	"os"

	"github.com/turtacn/MolViz/internal/app"
	"github.com/turtacn/MolViz/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	app.Version = version
	app.GitCommit = commit
	app.BuildDate = buildDate
}

func main() {
	// Execute prints the error itself.
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

//Personal.AI order the ending
