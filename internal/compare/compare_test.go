package compare

import (
	"testing"

	"github.com/jonathan/parity-check/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot(elements map[string]types.ElementCapture) *types.Snapshot {
	return &types.Snapshot{URL: "http://example.com", Elements: elements}
}

func heroSuite() *types.Suite {
	return &types.Suite{Targets: []types.Target{
		{Label: "heroTitle", Selector: "h1", Properties: []string{"fontSize"}},
	}}
}

func TestCompare_TextMismatchOnly(t *testing.T) {
	reference := snapshot(map[string]types.ElementCapture{
		"heroTitle": types.Present("Gain 2 Hours Daily with Jace", map[string]string{"fontSize": "60px"}),
	})
	candidate := snapshot(map[string]types.ElementCapture{
		"heroTitle": types.Present("See Tomorrow's Opportunities Today", map[string]string{"fontSize": "60px"}),
	})

	result := Compare(reference, candidate, heroSuite())

	require.Len(t, result.Mismatches, 1)
	m := result.Mismatches[0]
	assert.Equal(t, "heroTitle", m.Label)
	assert.Equal(t, types.MismatchText, m.Kind)
	assert.Equal(t, "Gain 2 Hours Daily with Jace", m.Expected)
	assert.Equal(t, "See Tomorrow's Opportunities Today", m.Actual)
	assert.False(t, result.Passed())
}

func TestCompare_StructuralMismatchSkipsProperties(t *testing.T) {
	reference := snapshot(map[string]types.ElementCapture{
		"heroTitle": types.Present("Hello", map[string]string{"fontSize": "60px"}),
	})
	candidate := snapshot(map[string]types.ElementCapture{
		"heroTitle": types.Missing(),
	})

	result := Compare(reference, candidate, heroSuite())

	require.Len(t, result.Mismatches, 1)
	assert.Equal(t, types.Mismatch{
		Label:    "heroTitle",
		Kind:     types.MismatchStructural,
		Expected: types.StateFound,
		Actual:   types.StateMissing,
	}, result.Mismatches[0])
}

func TestCompare_BothMissingIsClean(t *testing.T) {
	reference := snapshot(map[string]types.ElementCapture{"heroTitle": types.Missing()})
	candidate := snapshot(map[string]types.ElementCapture{"heroTitle": types.Missing()})

	result := Compare(reference, candidate, heroSuite())
	assert.True(t, result.Passed())
	assert.Equal(t, []string{"heroTitle"}, result.Compared)
}

func TestCompare_PropertyExactMatch(t *testing.T) {
	suite := &types.Suite{Targets: []types.Target{
		{Label: "cta", Selector: "a", Properties: []string{"color", "fontSize", "border-radius"}},
	}}
	reference := snapshot(map[string]types.ElementCapture{
		"cta": types.Present("Go", map[string]string{"color": "rgb(0, 0, 0)", "fontSize": "16px", "border-radius": "8px"}),
	})
	candidate := snapshot(map[string]types.ElementCapture{
		// Same color written differently is still a mismatch.
		"cta": types.Present("Go", map[string]string{"color": "rgb(0,0,0)", "fontSize": "16px"}),
	})

	result := Compare(reference, candidate, suite)

	require.Len(t, result.Mismatches, 2)
	assert.Equal(t, "color", result.Mismatches[0].Property)
	assert.Equal(t, "rgb(0, 0, 0)", result.Mismatches[0].Expected)
	assert.Equal(t, "rgb(0,0,0)", result.Mismatches[0].Actual)
	assert.Equal(t, "border-radius", result.Mismatches[1].Property)
	assert.Equal(t, "8px", result.Mismatches[1].Expected)
	assert.Equal(t, "", result.Mismatches[1].Actual)
}

func TestCompare_SkipsLabelsAbsentFromSnapshot(t *testing.T) {
	suite := &types.Suite{Targets: []types.Target{
		{Label: "heroTitle", Selector: "h1"},
		{Label: "footer", Selector: "footer"},
	}}
	reference := snapshot(map[string]types.ElementCapture{
		"heroTitle": types.Present("Hi", nil),
		"footer":    types.Present("(c)", nil),
	})
	candidate := snapshot(map[string]types.ElementCapture{
		"heroTitle": types.Present("Hi", nil),
	})

	result := Compare(reference, candidate, suite)
	assert.True(t, result.Passed())
	assert.Equal(t, []string{"heroTitle"}, result.Compared)
	assert.Equal(t, []string{"footer"}, result.Skipped)
}

func TestCompare_SuiteOrder(t *testing.T) {
	suite := &types.Suite{Targets: []types.Target{
		{Label: "zeta", Selector: "h2"},
		{Label: "alpha", Selector: "h1"},
	}}
	reference := snapshot(map[string]types.ElementCapture{
		"alpha": types.Present("a", nil),
		"zeta":  types.Present("z", nil),
	})
	candidate := snapshot(map[string]types.ElementCapture{
		"alpha": types.Present("A", nil),
		"zeta":  types.Present("Z", nil),
	})

	result := Compare(reference, candidate, suite)
	assert.Equal(t, []string{"zeta", "alpha"}, result.MismatchedLabels())
}

func TestCompare_WithoutSuiteUsesSortedUnion(t *testing.T) {
	reference := snapshot(map[string]types.ElementCapture{
		"b": types.Present("x", map[string]string{"color": "red", "margin": "0px"}),
		"a": types.Present("x", nil),
	})
	candidate := snapshot(map[string]types.ElementCapture{
		"b": types.Present("x", map[string]string{"color": "blue", "padding": "4px"}),
		"a": types.Present("y", nil),
	})

	result := Compare(reference, candidate, nil)

	require.Len(t, result.Mismatches, 4)
	assert.Equal(t, "a", result.Mismatches[0].Label)
	assert.Equal(t, types.MismatchText, result.Mismatches[0].Kind)
	assert.Equal(t, []string{"color", "margin", "padding"}, []string{
		result.Mismatches[1].Property,
		result.Mismatches[2].Property,
		result.Mismatches[3].Property,
	})
}

func TestCompare_SymmetricDetection(t *testing.T) {
	suite := &types.Suite{Targets: []types.Target{
		{Label: "heroTitle", Selector: "h1", Properties: []string{"fontSize"}},
		{Label: "cta", Selector: "a", Properties: []string{"color"}},
		{Label: "nav", Selector: "nav", Properties: []string{"height"}},
		{Label: "same", Selector: "p", Properties: []string{"color"}},
	}}
	a := snapshot(map[string]types.ElementCapture{
		"heroTitle": types.Present("One", map[string]string{"fontSize": "60px"}),
		"cta":       types.Present("Go", map[string]string{"color": "red"}),
		"nav":       types.Missing(),
		"same":      types.Present("p", map[string]string{"color": "red"}),
	})
	b := snapshot(map[string]types.ElementCapture{
		"heroTitle": types.Present("Two", map[string]string{"fontSize": "48px"}),
		"cta":       types.Present("Go", map[string]string{"color": "blue"}),
		"nav":       types.Present("Menu", map[string]string{"height": "64px"}),
		"same":      types.Present("p", map[string]string{"color": "red"}),
	})

	ab := Compare(a, b, suite)
	ba := Compare(b, a, suite)

	assert.Equal(t, ab.MismatchedLabels(), ba.MismatchedLabels())
	require.Len(t, ba.Mismatches, len(ab.Mismatches))
	for i := range ab.Mismatches {
		assert.Equal(t, ab.Mismatches[i].Label, ba.Mismatches[i].Label)
		assert.Equal(t, ab.Mismatches[i].Kind, ba.Mismatches[i].Kind)
		assert.Equal(t, ab.Mismatches[i].Property, ba.Mismatches[i].Property)
		assert.Equal(t, ab.Mismatches[i].Expected, ba.Mismatches[i].Actual)
		assert.Equal(t, ab.Mismatches[i].Actual, ba.Mismatches[i].Expected)
	}
}

func TestCompare_IdenticalSnapshotsPass(t *testing.T) {
	snap := snapshot(map[string]types.ElementCapture{
		"heroTitle": types.Present("Hello", map[string]string{"fontSize": "60px"}),
	})
	result := Compare(snap, snap, heroSuite())
	assert.True(t, result.Passed())
	assert.Empty(t, result.Skipped)
}

func TestElement_NilVersusEmptyText(t *testing.T) {
	empty := ""
	ref := types.ElementCapture{Found: true, Text: &empty, Properties: map[string]string{}}
	cand := types.ElementCapture{Found: true, Text: nil, Properties: map[string]string{}}

	mismatches := Element("label", ref, cand, nil)
	require.Len(t, mismatches, 1)
	assert.Equal(t, types.MismatchText, mismatches[0].Kind)
}
