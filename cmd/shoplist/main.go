package main

import (
	"os"

	"github.com/Makepad-fr/shoplist/internal/cli"
)

func main() {
	// No subcommand opens the interactive list; see `shoplist --help`.
	os.Exit(cli.Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
