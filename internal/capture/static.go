package capture

import (
	"context"
	"log"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/jonathan/parity-check/internal/fetch"
	"github.com/jonathan/parity-check/internal/types"
)

// StaticCapturer captures snapshots from server-rendered HTML without a browser.
// There is no style engine, so only presence and text are recorded; requested
// properties are left out of the snapshot.
type StaticCapturer struct {
	opts Options
}

// NewStaticCapturer creates an HTML-only capturer.
func NewStaticCapturer(opts Options) *StaticCapturer {
	return &StaticCapturer{opts: opts.withDefaults()}
}

// Engine returns the engine name.
func (c *StaticCapturer) Engine() string {
	return EngineStatic
}

// Capture fetches url and records presence and text for every target.
func (c *StaticCapturer) Capture(ctx context.Context, url string, suite *types.Suite) (*types.Snapshot, error) {
	if c.opts.Verbose {
		log.Printf("[CAPTURE] Fetching (static) %s", url)
	}

	fetchOpts := fetch.DefaultOptions()
	fetchOpts.Timeout = c.opts.Timeout

	result, err := fetch.URL(ctx, url, fetchOpts)
	if err != nil {
		return nil, &NavigationError{URL: url, Message: "page did not load", Cause: err}
	}
	if c.opts.Verbose && result.FinalURL != url {
		log.Printf("[CAPTURE] %s redirected to %s", url, result.FinalURL)
	}

	raw, err := ExtractHTML(result.HTML, suite)
	if err != nil {
		return nil, &ExtractionError{URL: url, Message: "failed to parse HTML", Cause: err}
	}

	snap := newSnapshot(c.opts, EngineStatic, url, suite, raw)
	if c.opts.Verbose {
		log.Printf("[CAPTURE] %s: %d/%d targets found, missing: %v", url, snap.FoundCount(), len(suite.Targets), missingLabels(snap))
	}
	return snap, nil
}

// ExtractHTML records presence and trimmed text for each target in an HTML document.
// Invalid selectors match nothing.
func ExtractHTML(html string, suite *types.Suite) (map[string]types.ElementCapture, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	out := make(map[string]types.ElementCapture, len(suite.Targets))
	for _, target := range suite.Targets {
		sel := doc.Find(target.Selector).First()
		if sel.Length() == 0 {
			out[target.Label] = types.Missing()
			continue
		}
		out[target.Label] = types.Present(trimText(sel.Text()), nil)
	}
	return out, nil
}

// trimText trims what String.prototype.trim trims: Unicode white space and
// U+FEFF, but not U+0085.
func trimText(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		if r == '\uFEFF' {
			return true
		}
		return r != '\u0085' && unicode.IsSpace(r)
	})
}
