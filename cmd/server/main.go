// Package main provides the workmatch command line: the HTTP server, schema
// migrations and the scheduled daily assignment run.
package main

import (
	"os"
	_ "time/tzdata"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
