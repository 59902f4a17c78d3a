// Package cli implements the penguin command tree.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "penguin",
	Short: "Linux terminal assistant with command danger checks",
	Long:  "Chat assistant for the Linux terminal.\nExplains commands, suggests alternatives, and flags destructive operations before they run.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
