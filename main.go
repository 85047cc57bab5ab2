// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

// Command-line entrypoint for goclock.
//
// Usage:
//
//	go run . [flags]
//	./goclock [flags]
//
// This starts the interactive clock. See --help for subcommands.
package main

import (
	"os"

	"github.com/toeirei/goclock/internal/logging"
	"github.com/toeirei/goclock/ui/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		logging.Errorf("goclock: %v", err)
		os.Exit(1)
	}
}
