package types

import (
	"time"

	"github.com/google/uuid"
)

// ElementCapture is what was observed for one labelled target.
// Text is nil when the element was not found.
type ElementCapture struct {
	Found      bool              `json:"found"`
	Text       *string           `json:"text"`
	Properties map[string]string `json:"properties"`
}

// Missing returns the capture recorded for a selector that matched nothing.
func Missing() ElementCapture {
	return ElementCapture{Found: false, Text: nil, Properties: map[string]string{}}
}

// Present returns the capture for a matched element.
func Present(text string, properties map[string]string) ElementCapture {
	if properties == nil {
		properties = map[string]string{}
	}
	return ElementCapture{Found: true, Text: &text, Properties: properties}
}

// TextValue returns the captured text, or "" when absent.
func (e ElementCapture) TextValue() string {
	if e.Text == nil {
		return ""
	}
	return *e.Text
}

// Snapshot is a point-in-time record of selected elements on a rendered page.
type Snapshot struct {
	RunID      uuid.UUID                 `json:"run_id"`
	URL        string                    `json:"url"`
	Engine     string                    `json:"engine"`
	Viewport   Viewport                  `json:"viewport"`
	CapturedAt time.Time                 `json:"captured_at"`
	Elements   map[string]ElementCapture `json:"elements"`
}

// FoundCount returns how many elements were found.
func (s *Snapshot) FoundCount() int {
	n := 0
	for _, e := range s.Elements {
		if e.Found {
			n++
		}
	}
	return n
}
