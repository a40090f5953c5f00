package types

// Mismatch kinds
const (
	MismatchStructural = "structural"
	MismatchText       = "text"
	MismatchProperty   = "property"
)

// Values recorded on structural mismatches.
const (
	StateFound   = "found"
	StateMissing = "missing"
)

// Mismatch is a single difference between the reference and candidate snapshots.
// Expected always holds the reference value and Actual the candidate value.
type Mismatch struct {
	Label    string `json:"label"`
	Kind     string `json:"kind"`
	Property string `json:"property,omitempty"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// Comparison is the outcome of diffing two snapshots.
type Comparison struct {
	Mismatches []Mismatch `json:"mismatches"`
	Compared   []string   `json:"compared"`
	Skipped    []string   `json:"skipped,omitempty"`
}

// Passed reports whether the comparison found zero mismatches.
func (c *Comparison) Passed() bool {
	return len(c.Mismatches) == 0
}

// MismatchedLabels returns the distinct labels with at least one mismatch, in first-seen order.
func (c *Comparison) MismatchedLabels() []string {
	var labels []string
	seen := make(map[string]struct{})
	for _, m := range c.Mismatches {
		if _, ok := seen[m.Label]; ok {
			continue
		}
		seen[m.Label] = struct{}{}
		labels = append(labels, m.Label)
	}
	return labels
}

// ByLabel groups mismatches by label.
func (c *Comparison) ByLabel() map[string][]Mismatch {
	grouped := make(map[string][]Mismatch)
	for _, m := range c.Mismatches {
		grouped[m.Label] = append(grouped[m.Label], m)
	}
	return grouped
}
