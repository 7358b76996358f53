// Package cli implements the Royal Guard command-line interface using Cobra.
// Besides serve, each subcommand opens the local database and runs one
// family service operation, so a parent can manage the game without the API.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "royalguard",
	Short: "Royal Guard: a digestive-health habit game for kids",
	Long: `Royal Guard turns water, veggies, probiotics and bathroom visits into
XP, levels and gacha tickets that parents back with real rewards.

Run 'royalguard serve' to start the HTTP API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
