package main

import (
	"os"

	"github.com/roach88/treecrdt-sqlite/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(cli.GetExitCode(err))
	}
}
