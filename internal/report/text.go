package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jonathan/parity-check/internal/types"
)

// TextReporter prints a human-readable report grouped by label.
type TextReporter struct{}

// Format returns the format name.
func (r *TextReporter) Format() string {
	return FormatText
}

// Write prints per-label counts and details followed by the verdict.
//
//nolint:errcheck // individual header writes; the final write error is returned
func (r *TextReporter) Write(w io.Writer, c *types.Comparison, meta Meta) error {
	if meta.Suite != "" {
		fmt.Fprintf(w, "Parity report: %s\n", meta.Suite)
	} else {
		fmt.Fprintln(w, "Parity report")
	}
	if meta.ReferenceURL != "" {
		fmt.Fprintf(w, "Reference: %s\n", meta.ReferenceURL)
	}
	if meta.CandidateURL != "" {
		fmt.Fprintf(w, "Candidate: %s\n", meta.CandidateURL)
	}
	if meta.Engine != "" {
		fmt.Fprintf(w, "Engine:    %s\n", meta.Engine)
	}
	fmt.Fprintln(w)

	grouped := c.ByLabel()
	for _, label := range c.MismatchedLabels() {
		mismatches := grouped[label]
		fmt.Fprintf(w, "%s (%d %s)\n", label, len(mismatches), plural(len(mismatches), "mismatch", "mismatches"))

		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Kind", "Property", "Expected", "Actual"})
		for _, m := range mismatches {
			t.AppendRow(table.Row{m.Kind, dash(m.Property), quote(m.Expected), quote(m.Actual)})
		}
		fmt.Fprintln(w, t.Render())
		fmt.Fprintln(w)
	}

	if len(c.Skipped) > 0 {
		fmt.Fprintf(w, "Skipped (not in both snapshots): %s\n", strings.Join(c.Skipped, ", "))
	}

	_, err := fmt.Fprintln(w, Summary(c))
	return err
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}
