// Package main is the entry point for the treebank CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/treebank/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
