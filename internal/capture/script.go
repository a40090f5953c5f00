package capture

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/parity-check/internal/types"
)

// extractFunction runs in the page. For each target it takes the first match of
// the selector; invalid selectors are treated like a miss. Camel-case property
// names are read by property access on the computed style, hyphenated names by
// getPropertyValue. Values are returned exactly as the browser serialises them.
const extractFunction = `(targets) => {
	const out = {};
	for (const t of targets) {
		let el = null;
		try {
			el = document.querySelector(t.selector);
		} catch (e) {
			el = null;
		}
		if (!el) {
			out[t.label] = { found: false, text: null, properties: {} };
			continue;
		}
		const cs = window.getComputedStyle(el);
		const props = {};
		for (const p of (t.properties || [])) {
			const v = p.indexOf('-') >= 0 ? cs.getPropertyValue(p) : cs[p];
			props[p] = (v === undefined || v === null) ? '' : String(v);
		}
		out[t.label] = { found: true, text: (el.textContent || '').trim(), properties: props };
	}
	return out;
}`

// scriptTarget is the payload handed to extractFunction.
type scriptTarget struct {
	Label      string   `json:"label"`
	Selector   string   `json:"selector"`
	Properties []string `json:"properties"`
}

func scriptTargets(suite *types.Suite) []scriptTarget {
	targets := make([]scriptTarget, 0, len(suite.Targets))
	for _, t := range suite.Targets {
		props := t.Properties
		if props == nil {
			props = []string{}
		}
		targets = append(targets, scriptTarget{Label: t.Label, Selector: t.Selector, Properties: props})
	}
	return targets
}

// extractExpression returns extractFunction applied to the suite's targets as a
// single self-contained expression.
func extractExpression(suite *types.Suite) (string, error) {
	payload, err := json.Marshal(scriptTargets(suite))
	if err != nil {
		return "", fmt.Errorf("failed to marshal targets: %w", err)
	}
	return fmt.Sprintf("(%s)(%s)", extractFunction, payload), nil
}
