package main

import (
	"fmt"
	"os"

	"github.com/jonathan/parity-check/internal/observability"
	"github.com/jonathan/parity-check/internal/suite"
	"github.com/spf13/cobra"
)

var validateSuiteCmd = &cobra.Command{
	Use:   "validate-suite",
	Short: "Validate a suite file",
	Long:  "Checks a suite file against the suite JSON Schema and the struct rules (unique labels, non-empty selectors).",
	RunE:  runValidateSuite,
}

var validateSuitePath string

func init() {
	validateSuiteCmd.Flags().StringVarP(&validateSuitePath, "suite", "s", "", "Path to suite file (required)")
	if err := validateSuiteCmd.MarkFlagRequired("suite"); err != nil {
		panic(fmt.Sprintf("failed to mark suite flag as required: %v", err))
	}
	rootCmd.AddCommand(validateSuiteCmd)
}

func runValidateSuite(_ *cobra.Command, _ []string) error {
	s, err := suite.Load(validateSuitePath)
	if err != nil {
		return err
	}

	if verbose {
		observability.NewPrinter(os.Stdout).PrintSuite(s)
	}
	_, _ = fmt.Fprintf(os.Stdout, "Suite valid: %s (%d targets)\n", validateSuitePath, len(s.Targets))
	return nil
}
