// Package capture records snapshots of labelled elements on a rendered page:
// whether each selector matched, the element's trimmed text and the requested
// computed-style values exactly as the browser serialises them.
package capture

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/parity-check/internal/types"
)

// Engine names
const (
	EngineChromedp = "chromedp"
	EngineRod      = "rod"
	EngineStatic   = "static"
)

// Defaults applied when Options leaves a value unset.
const (
	DefaultTimeout = 30 * time.Second
	DefaultSettle  = 500 * time.Millisecond
)

// Capturer captures a snapshot of a page for the targets of a suite.
// A selector that matches nothing is recorded as absent, never returned as an error.
// A navigation failure fails the whole capture.
type Capturer interface {
	Engine() string
	Capture(ctx context.Context, url string, suite *types.Suite) (*types.Snapshot, error)
}

// Options configures a capturer.
type Options struct {
	// Timeout bounds navigation and the wait for the page to become ready.
	Timeout time.Duration
	// Settle is an extra delay after load so late scripts and web fonts apply.
	Settle time.Duration
	// RunID is stamped on every snapshot. A fresh one is generated when zero.
	RunID uuid.UUID
	// ExecPath overrides the Chrome/Chromium binary for browser engines.
	ExecPath string
	// RemoteURL connects the rod engine to an already running browser.
	RemoteURL string
	Verbose   bool
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.Settle < 0 {
		o.Settle = 0
	}
	return o
}

// Engines returns the supported engine names.
func Engines() []string {
	return []string{EngineChromedp, EngineRod, EngineStatic}
}

// New returns the capturer for the named engine. An empty name selects chromedp.
func New(engine string, opts Options) (Capturer, error) {
	opts = opts.withDefaults()
	switch engine {
	case "", EngineChromedp:
		return NewChromeCapturer(opts), nil
	case EngineRod:
		return NewRodCapturer(opts), nil
	case EngineStatic:
		return NewStaticCapturer(opts), nil
	default:
		return nil, fmt.Errorf("unknown capture engine %q (expected one of %v)", engine, Engines())
	}
}

// newSnapshot builds the snapshot for a finished capture. Every suite label gets
// an entry; labels the extraction did not report are recorded as absent.
func newSnapshot(opts Options, engine, url string, suite *types.Suite, raw map[string]types.ElementCapture) *types.Snapshot {
	runID := opts.RunID
	if runID == uuid.Nil {
		runID = uuid.New()
	}

	elements := make(map[string]types.ElementCapture, len(suite.Targets))
	for _, target := range suite.Targets {
		elem, ok := raw[target.Label]
		if !ok || !elem.Found {
			elements[target.Label] = types.Missing()
			continue
		}
		if elem.Properties == nil {
			elem.Properties = map[string]string{}
		}
		if elem.Text == nil {
			empty := ""
			elem.Text = &empty
		}
		elements[target.Label] = elem
	}

	return &types.Snapshot{
		RunID:      runID,
		URL:        url,
		Engine:     engine,
		Viewport:   suite.Viewport.OrDefault(),
		CapturedAt: time.Now().UTC(),
		Elements:   elements,
	}
}

// missingLabels lists labels that were not found, sorted, for verbose logging.
func missingLabels(snap *types.Snapshot) []string {
	var labels []string
	for label, elem := range snap.Elements {
		if !elem.Found {
			labels = append(labels, label)
		}
	}
	sort.Strings(labels)
	return labels
}
