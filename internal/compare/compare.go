// Package compare diffs two snapshots captured for the same suite.
//
// Values are compared byte for byte. There is no tolerance for colors or
// lengths, so snapshots from different browser engines are not guaranteed to
// be comparable.
package compare

import (
	"sort"

	"github.com/jonathan/parity-check/internal/types"
)

// Compare diffs candidate against reference. Expected values come from
// reference and actual values from candidate.
//
// Labels are visited in suite order, or sorted when suite is nil. A label
// missing from either snapshot is skipped. When presence differs a single
// structural mismatch is reported and nothing else is checked for that label.
func Compare(reference, candidate *types.Snapshot, suite *types.Suite) *types.Comparison {
	result := &types.Comparison{
		Mismatches: []types.Mismatch{},
		Compared:   []string{},
	}

	for _, label := range labels(reference, candidate, suite) {
		ref, refOK := reference.Elements[label]
		cand, candOK := candidate.Elements[label]
		if !refOK || !candOK {
			result.Skipped = append(result.Skipped, label)
			continue
		}
		result.Compared = append(result.Compared, label)

		if ref.Found != cand.Found {
			result.Mismatches = append(result.Mismatches, types.Mismatch{
				Label:    label,
				Kind:     types.MismatchStructural,
				Expected: foundState(ref.Found),
				Actual:   foundState(cand.Found),
			})
			continue
		}
		if !ref.Found {
			continue
		}

		result.Mismatches = append(result.Mismatches, Element(label, ref, cand, properties(label, ref, cand, suite))...)
	}

	return result
}

// Element diffs two found captures of the same label: text first, then each
// property in the given order. A property missing on one side compares as "".
func Element(label string, ref, cand types.ElementCapture, props []string) []types.Mismatch {
	var mismatches []types.Mismatch

	if !textEqual(ref.Text, cand.Text) {
		mismatches = append(mismatches, types.Mismatch{
			Label:    label,
			Kind:     types.MismatchText,
			Expected: ref.TextValue(),
			Actual:   cand.TextValue(),
		})
	}

	for _, prop := range props {
		expected := ref.Properties[prop]
		actual := cand.Properties[prop]
		if expected == actual {
			continue
		}
		mismatches = append(mismatches, types.Mismatch{
			Label:    label,
			Kind:     types.MismatchProperty,
			Property: prop,
			Expected: expected,
			Actual:   actual,
		})
	}

	return mismatches
}

// textEqual treats nil and "" as different values.
func textEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func foundState(found bool) string {
	if found {
		return types.StateFound
	}
	return types.StateMissing
}

func labels(reference, candidate *types.Snapshot, suite *types.Suite) []string {
	if suite != nil {
		return suite.Labels()
	}

	seen := make(map[string]struct{}, len(reference.Elements))
	var out []string
	for _, snap := range []*types.Snapshot{reference, candidate} {
		for label := range snap.Elements {
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}
			out = append(out, label)
		}
	}
	sort.Strings(out)
	return out
}

func properties(label string, ref, cand types.ElementCapture, suite *types.Suite) []string {
	if suite != nil {
		if target, ok := suite.Target(label); ok {
			return target.Properties
		}
	}

	seen := make(map[string]struct{}, len(ref.Properties))
	var out []string
	for _, props := range []map[string]string{ref.Properties, cand.Properties} {
		for prop := range props {
			if _, ok := seen[prop]; ok {
				continue
			}
			seen[prop] = struct{}{}
			out = append(out, prop)
		}
	}
	sort.Strings(out)
	return out
}
