// Package main provides the entry point for the parity_agent CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// errParityFailed is returned when a comparison found mismatches. The report
// has already been printed, so main only sets the exit code.
var errParityFailed = errors.New("parity check failed")

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "parity_agent",
	Short: "Visual parity checker for a local site build",
	Long: `parity_agent captures text and computed-style values for labelled elements on a reference site
and on a local build, diffs the two snapshots and reports every mismatch.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errParityFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
