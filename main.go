package main

import (
	"fmt"
	"os"

	"car-dashboard/cmd"
)

var (
	version = "v0.1.0" // Overwritten at build time
)

func main() {
	if err := cmd.NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
