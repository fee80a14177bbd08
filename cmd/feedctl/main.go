// Package main provides feedctl, a command line companion for inspecting
// feeds and rendering page shells offline.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styleRed.Render("Error:"), err)
		os.Exit(1)
	}
}
