package capture

import (
	"context"
	"log"

	"github.com/chromedp/chromedp"
	"github.com/jonathan/parity-check/internal/fetch"
	"github.com/jonathan/parity-check/internal/types"
)

// ChromeCapturer captures snapshots with a headless Chrome driven by chromedp.
// Each capture owns its own browser, which is torn down on every exit path.
type ChromeCapturer struct {
	opts Options
}

// NewChromeCapturer creates a chromedp-backed capturer.
func NewChromeCapturer(opts Options) *ChromeCapturer {
	return &ChromeCapturer{opts: opts.withDefaults()}
}

// Engine returns the engine name.
func (c *ChromeCapturer) Engine() string {
	return EngineChromedp
}

// Capture renders url at the suite's viewport and extracts every target.
func (c *ChromeCapturer) Capture(ctx context.Context, url string, suite *types.Suite) (*types.Snapshot, error) {
	if err := fetch.ValidateURL(url); err != nil {
		return nil, &NavigationError{URL: url, Message: "invalid URL", Cause: err}
	}

	expression, err := extractExpression(suite)
	if err != nil {
		return nil, &ExtractionError{URL: url, Message: "failed to build extraction script", Cause: err}
	}

	vp := suite.Viewport.OrDefault()
	if c.opts.Verbose {
		log.Printf("[CAPTURE] Starting headless browser (chromedp) for: %s at %dx%d", url, vp.Width, vp.Height)
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("hide-scrollbars", true),
		chromedp.WindowSize(vp.Width, vp.Height),
	)
	if c.opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(c.opts.ExecPath))
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	// The first Run allocates the browser; it must not carry the navigation
	// timeout or the browser is torn down with it.
	if err := chromedp.Run(browserCtx); err != nil {
		return nil, &BrowserError{Message: "failed to start browser", Cause: err}
	}

	navCtx, navCancel := context.WithTimeout(browserCtx, c.opts.Timeout)
	defer navCancel()

	err = chromedp.Run(navCtx,
		chromedp.EmulateViewport(int64(vp.Width), int64(vp.Height)),
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
	)
	if err != nil {
		return nil, &NavigationError{URL: url, Message: "page did not load", Cause: err}
	}

	raw := make(map[string]types.ElementCapture)
	actions := []chromedp.Action{}
	if c.opts.Settle > 0 {
		actions = append(actions, chromedp.Sleep(c.opts.Settle))
	}
	actions = append(actions, chromedp.Evaluate(expression, &raw))

	evalCtx, evalCancel := context.WithTimeout(browserCtx, c.opts.Timeout)
	defer evalCancel()

	if err := chromedp.Run(evalCtx, actions...); err != nil {
		return nil, &ExtractionError{URL: url, Message: "extraction script failed", Cause: err}
	}

	snap := newSnapshot(c.opts, EngineChromedp, url, suite, raw)
	if c.opts.Verbose {
		log.Printf("[CAPTURE] %s: %d/%d targets found, missing: %v", url, snap.FoundCount(), len(suite.Targets), missingLabels(snap))
	}
	return snap, nil
}
