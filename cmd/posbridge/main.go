// Package main is the entry point for the posbridge CLI.
package main

import (
	"os"

	"github.com/jmylchreest/posbridge/cmd/posbridge/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
