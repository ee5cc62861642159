// Package main provides the roly binary entry point. Roly assembles layered
// role documents into deterministic agent instructions and manages the
// review/promote lifecycle of the role files behind them.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
