// Package main is the entry point for the game server
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "red-knight",
	Short: "Red Knight game server",
	Long:  `Red Knight serves the browser text adventure: player state, the command interpreter, world generation, and the AI generation routes.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)
}
