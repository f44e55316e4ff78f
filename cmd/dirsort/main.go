package main

import (
	"fmt"
	"os"
)

var version = "dev"

// Entry point for the application
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "❌ Fatal error: %v\n", err)
		os.Exit(1)
	}
}
