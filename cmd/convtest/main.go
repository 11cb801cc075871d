// Package main is the entry point for the convtest CLI.
package main

import (
	"os"

	"github.com/AndreyAkinshin/convtest/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
