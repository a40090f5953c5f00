package report

import (
	"encoding/json"
	"io"

	"github.com/jonathan/parity-check/internal/types"
)

// JSONReporter writes a machine-readable report.
type JSONReporter struct{}

// Document is the JSON report body.
type Document struct {
	Verdict      string           `json:"verdict"`
	Suite        string           `json:"suite,omitempty"`
	ReferenceURL string           `json:"reference_url,omitempty"`
	CandidateURL string           `json:"candidate_url,omitempty"`
	Engine       string           `json:"engine,omitempty"`
	Compared     int              `json:"compared"`
	Mismatched   map[string]int   `json:"mismatched"`
	Mismatches   []types.Mismatch `json:"mismatches"`
	Skipped      []string         `json:"skipped,omitempty"`
}

// Format returns the format name.
func (r *JSONReporter) Format() string {
	return FormatJSON
}

// Write encodes the report as indented JSON.
func (r *JSONReporter) Write(w io.Writer, c *types.Comparison, meta Meta) error {
	counts := make(map[string]int)
	for label, mismatches := range c.ByLabel() {
		counts[label] = len(mismatches)
	}

	mismatches := c.Mismatches
	if mismatches == nil {
		mismatches = []types.Mismatch{}
	}

	doc := Document{
		Verdict:      Verdict(c),
		Suite:        meta.Suite,
		ReferenceURL: meta.ReferenceURL,
		CandidateURL: meta.CandidateURL,
		Engine:       meta.Engine,
		Compared:     len(c.Compared),
		Mismatched:   counts,
		Mismatches:   mismatches,
		Skipped:      c.Skipped,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
