package capture

import (
	"context"
	"log"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/jonathan/parity-check/internal/fetch"
	"github.com/jonathan/parity-check/internal/types"
)

// RodCapturer captures snapshots through go-rod. It launches a local headless
// Chrome unless RemoteURL points at a running browser.
type RodCapturer struct {
	opts Options
}

// NewRodCapturer creates a rod-backed capturer.
func NewRodCapturer(opts Options) *RodCapturer {
	return &RodCapturer{opts: opts.withDefaults()}
}

// Engine returns the engine name.
func (c *RodCapturer) Engine() string {
	return EngineRod
}

// Capture renders url at the suite's viewport and extracts every target.
func (c *RodCapturer) Capture(ctx context.Context, url string, suite *types.Suite) (*types.Snapshot, error) {
	if err := fetch.ValidateURL(url); err != nil {
		return nil, &NavigationError{URL: url, Message: "invalid URL", Cause: err}
	}

	vp := suite.Viewport.OrDefault()

	browser, release, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	page, err := browser.Page(proto.TargetCreateTarget{URL: ""})
	if err != nil {
		return nil, &BrowserError{Message: "failed to create tab", Cause: err}
	}
	defer func() { _ = page.Close() }()

	err = page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             vp.Width,
		Height:            vp.Height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return nil, &BrowserError{Message: "failed to set viewport", Cause: err}
	}

	if c.opts.Verbose {
		log.Printf("[CAPTURE] Navigating (rod) to: %s at %dx%d", url, vp.Width, vp.Height)
	}

	navCtx, cancel := context.WithTimeout(ctx, c.opts.Timeout)
	defer cancel()

	if err := page.Context(navCtx).Navigate(url); err != nil {
		return nil, &NavigationError{URL: url, Message: "page did not load", Cause: err}
	}
	if err := page.Context(navCtx).WaitLoad(); err != nil {
		return nil, &NavigationError{URL: url, Message: "wait for load failed", Cause: err}
	}

	if c.opts.Settle > 0 {
		select {
		case <-time.After(c.opts.Settle):
		case <-ctx.Done():
			return nil, &NavigationError{URL: url, Message: "cancelled while settling", Cause: ctx.Err()}
		}
	}

	res, err := page.Context(ctx).Eval(extractFunction, scriptTargets(suite))
	if err != nil {
		return nil, &ExtractionError{URL: url, Message: "extraction script failed", Cause: err}
	}

	raw := make(map[string]types.ElementCapture)
	if err := res.Value.Unmarshal(&raw); err != nil {
		return nil, &ExtractionError{URL: url, Message: "failed to decode extraction result", Cause: err}
	}

	snap := newSnapshot(c.opts, EngineRod, url, suite, raw)
	if c.opts.Verbose {
		log.Printf("[CAPTURE] %s: %d/%d targets found, missing: %v", url, snap.FoundCount(), len(suite.Targets), missingLabels(snap))
	}
	return snap, nil
}

// connect returns a connected browser and the function that releases it.
// A remote browser is left running; a launched one is closed and cleaned up.
func (c *RodCapturer) connect(ctx context.Context) (*rod.Browser, func(), error) {
	if c.opts.RemoteURL != "" {
		if c.opts.Verbose {
			log.Printf("[CAPTURE] Connecting to remote browser: %s", c.opts.RemoteURL)
		}
		browser := rod.New().ControlURL(c.opts.RemoteURL).Context(ctx)
		if err := browser.Connect(); err != nil {
			return nil, nil, &BrowserError{Message: "failed to connect to remote browser", Cause: err}
		}
		return browser, func() {}, nil
	}

	l := launcher.New().Context(ctx).Headless(true).
		Set("disable-gpu").
		Set("hide-scrollbars").
		NoSandbox(true)
	if c.opts.ExecPath != "" {
		l = l.Bin(c.opts.ExecPath)
	}

	wsURL, err := l.Launch()
	if err != nil {
		return nil, nil, &BrowserError{Message: "failed to launch browser", Cause: err}
	}

	browser := rod.New().ControlURL(wsURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, nil, &BrowserError{Message: "failed to connect to browser", Cause: err}
	}

	release := func() {
		_ = browser.Close()
		l.Cleanup()
	}
	return browser, release, nil
}
