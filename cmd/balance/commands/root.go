// Package commands implements the balance CLI commands using cobra.
package commands

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Version is set at build time
	Version = "0.1.0"
)

var rootCmd = &cobra.Command{
	Use:   "balance",
	Short: "Track tasks whose behavior comes from pluggable task types",
	Long: `Balance tracks named tasks whose progress and decay behavior is
supplied by task types loaded at runtime. Built-in types cover counters,
one-shot completions, and rate-based tasks; drop plugin artifacts into the
task types directory to add more without recompiling.`,
	Version: Version,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to balance.properties")
}
