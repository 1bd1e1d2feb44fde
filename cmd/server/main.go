// Package main implements the entry point for the workforce task API.
// The binary serves the HTTP API and manages the Postgres schema.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
