// Package main is the entry point of the sqlfront CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/sqlfront/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
