// ABOUTME: Entry point for the libctl CLI
// ABOUTME: Command-line client for the library management system

package main

import (
	"fmt"
	"os"

	"github.com/ptit-library/libctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cmd.ExitCode(err))
	}
}
