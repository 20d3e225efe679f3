// Package main is the entry point for the altscan CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/altscan/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
