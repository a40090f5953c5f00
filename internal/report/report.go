// Package report formats comparison results. Reporters only format: they never
// change what was captured or compared.
package report

import (
	"fmt"
	"io"

	"github.com/jonathan/parity-check/internal/types"
)

// Output formats
const (
	FormatText  = "text"
	FormatJSON  = "json"
	FormatJUnit = "junit"
)

// Verdicts
const (
	VerdictPass = "PASS"
	VerdictFail = "FAIL"
)

// Meta describes the run a comparison belongs to.
type Meta struct {
	Suite        string
	ReferenceURL string
	CandidateURL string
	Engine       string
}

// Reporter writes a comparison in one output format.
type Reporter interface {
	Format() string
	Write(w io.Writer, c *types.Comparison, meta Meta) error
}

// Formats returns the supported output formats.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatJUnit}
}

// New returns the reporter for a format. An empty format selects text.
func New(format string) (Reporter, error) {
	switch format {
	case "", FormatText:
		return &TextReporter{}, nil
	case FormatJSON:
		return &JSONReporter{}, nil
	case FormatJUnit:
		return &JUnitReporter{}, nil
	default:
		return nil, fmt.Errorf("unknown report format %q (expected one of %v)", format, Formats())
	}
}

// Verdict returns PASS when there are no mismatches, FAIL otherwise.
func Verdict(c *types.Comparison) string {
	if c.Passed() {
		return VerdictPass
	}
	return VerdictFail
}

// Summary is the one-line verdict printed at the end of a text report.
func Summary(c *types.Comparison) string {
	if c.Passed() {
		return fmt.Sprintf("%s (%d labels compared)", VerdictPass, len(c.Compared))
	}
	return fmt.Sprintf("%s (%d mismatches across %d labels)", VerdictFail, len(c.Mismatches), len(c.MismatchedLabels()))
}

// FileName returns the report file name for a format.
func FileName(format string) string {
	switch format {
	case FormatJSON:
		return "report.json"
	case FormatJUnit:
		return "report.junit.xml"
	default:
		return "report.txt"
	}
}
