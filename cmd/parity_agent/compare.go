package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jonathan/parity-check/internal/compare"
	"github.com/jonathan/parity-check/internal/report"
	"github.com/jonathan/parity-check/internal/snapshot"
	"github.com/jonathan/parity-check/internal/suite"
	"github.com/jonathan/parity-check/internal/types"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Diff two stored snapshots",
	Long: `Compares a reference snapshot against a candidate snapshot and prints the report.
Without --suite every label present in either snapshot is compared. Exits 1 when any mismatch is found.`,
	RunE: runCompareCmd,
}

var (
	compareReference string
	compareCandidate string
	compareSuite     string
	compareFormat    string
)

func init() {
	compareCmd.Flags().StringVarP(&compareReference, "reference", "r", "", "Reference snapshot file (required)")
	compareCmd.Flags().StringVarP(&compareCandidate, "candidate", "c", "", "Candidate snapshot file (required)")
	compareCmd.Flags().StringVarP(&compareSuite, "suite", "s", "", "Suite file fixing label and property order")
	compareCmd.Flags().StringVarP(&compareFormat, "format", "f", report.FormatText, "Report format: text, json or junit")

	if err := compareCmd.MarkFlagRequired("reference"); err != nil {
		panic(fmt.Sprintf("failed to mark reference flag as required: %v", err))
	}
	if err := compareCmd.MarkFlagRequired("candidate"); err != nil {
		panic(fmt.Sprintf("failed to mark candidate flag as required: %v", err))
	}

	rootCmd.AddCommand(compareCmd)
}

func runCompareCmd(_ *cobra.Command, _ []string) error {
	passed, err := compareSnapshots(os.Stdout, compareReference, compareCandidate, compareSuite, compareFormat)
	if err != nil {
		return err
	}
	if !passed {
		return errParityFailed
	}
	return nil
}

// compareSnapshots loads both snapshots, diffs them and writes the report to w.
func compareSnapshots(w io.Writer, referencePath, candidatePath, suitePath, format string) (bool, error) {
	reporter, err := report.New(format)
	if err != nil {
		return false, err
	}

	reference, err := snapshot.Load(referencePath)
	if err != nil {
		return false, fmt.Errorf("failed to load reference snapshot: %w", err)
	}
	candidate, err := snapshot.Load(candidatePath)
	if err != nil {
		return false, fmt.Errorf("failed to load candidate snapshot: %w", err)
	}

	var s *types.Suite
	meta := report.Meta{
		ReferenceURL: reference.URL,
		CandidateURL: candidate.URL,
		Engine:       reference.Engine,
	}
	if suitePath != "" {
		if s, err = suite.Load(suitePath); err != nil {
			return false, err
		}
		meta.Suite = s.Name
	}

	comparison := compare.Compare(reference, candidate, s)
	if err := reporter.Write(w, comparison, meta); err != nil {
		return false, fmt.Errorf("failed to write report: %w", err)
	}
	return comparison.Passed(), nil
}
