// Package main provides the stratum CLI: a thin inspection and scaffolding
// surface over a Stratum container file.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
