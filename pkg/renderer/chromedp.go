package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/chromedp"
)

// Options configures a ChromeRenderer session.
type Options struct {
	// NavigationTimeout bounds the initial page load. A load that exceeds it
	// aborts the run.
	NavigationTimeout time.Duration

	// PageSettle is the fixed interval allowed for client-side scripts to
	// populate caption metadata after the document's structural parse.
	PageSettle time.Duration

	// FrameSettle is the shorter interval allowed for a nested frame's own
	// client-side rendering.
	FrameSettle time.Duration

	UserAgent      string
	ViewportWidth  int
	ViewportHeight int
}

// DefaultOptions returns the settling and timeout values tuned for Vimeo
// pages: player configuration shows up within a few seconds of the initial
// parse, and the embedded player frame needs a little extra after that.
func DefaultOptions() Options {
	return Options{
		NavigationTimeout: 60 * time.Second,
		PageSettle:        5 * time.Second,
		FrameSettle:       3 * time.Second,
		UserAgent:         "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
		ViewportWidth:     1920,
		ViewportHeight:    1080,
	}
}

// readMargin bounds the content read that follows a settling sleep, so a
// wedged browser cannot hang the run after a successful navigation.
const readMargin = 10 * time.Second

// readBudget returns the deadline for a settle-then-read sequence: the
// settling interval plus a fixed margin for the read itself.
func readBudget(settle time.Duration) time.Duration {
	return settle + readMargin
}

// ChromeRenderer drives a headless Chrome instance over CDP. One renderer is
// one browser session; it is not safe for concurrent use and is meant to be
// created, used for a single page, then closed.
type ChromeRenderer struct {
	opts    Options
	ctx     context.Context
	cancels []context.CancelFunc
}

// NewChrome starts a headless browser session derived from ctx, so
// cancelling ctx tears the session down. Call Close when done; the browser
// process is held until then.
func NewChrome(ctx context.Context, opts Options) *ChromeRenderer {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserAgent(opts.UserAgent),
		chromedp.WindowSize(opts.ViewportWidth, opts.ViewportHeight),
		// Keep the player iframe in-process so its content document is
		// reachable through FromNode queries.
		chromedp.Flag("disable-features", "site-per-process"),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)

	return &ChromeRenderer{
		opts:    opts,
		ctx:     browserCtx,
		cancels: []context.CancelFunc{browserCancel, allocCancel},
	}
}

// RenderPage navigates to url, waits for the body to be ready plus the page
// settling interval, then returns the main document's outer HTML.
func (r *ChromeRenderer) RenderPage(url string) (string, error) {
	navCtx, cancel := context.WithTimeout(r.ctx, r.opts.NavigationTimeout)
	defer cancel()

	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("failed to load page: %w", err)
	}

	readCtx, cancelRead := context.WithTimeout(r.ctx, readBudget(r.opts.PageSettle))
	defer cancelRead()

	var html string
	err = chromedp.Run(readCtx,
		chromedp.Sleep(r.opts.PageSettle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}

	return html, nil
}

// RenderFrame looks up a nested frame on the loaded page by CSS selector and
// returns its content document's outer HTML after the frame settling
// interval. Returns found=false without error when no element matches.
func (r *ChromeRenderer) RenderFrame(selector string) (string, bool, error) {
	queryCtx, cancelQuery := context.WithTimeout(r.ctx, readBudget(0))
	defer cancelQuery()

	var nodes []*cdp.Node
	err := chromedp.Run(queryCtx,
		chromedp.Nodes(selector, &nodes, chromedp.ByQuery, chromedp.AtLeast(0)),
	)
	if err != nil {
		return "", false, fmt.Errorf("failed to query frame element: %w", err)
	}
	if len(nodes) == 0 {
		return "", false, nil
	}

	readCtx, cancelRead := context.WithTimeout(r.ctx, readBudget(r.opts.FrameSettle))
	defer cancelRead()

	var html string
	err = chromedp.Run(readCtx,
		chromedp.Sleep(r.opts.FrameSettle),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery, chromedp.FromNode(nodes[0])),
	)
	if err != nil {
		return "", true, fmt.Errorf("failed to read frame content: %w", err)
	}

	return html, true, nil
}

// Close shuts the browser down. Safe to call after failures.
func (r *ChromeRenderer) Close() {
	// Graceful browser shutdown first, then the contexts in reverse order.
	_ = chromedp.Cancel(r.ctx)
	for _, cancel := range r.cancels {
		cancel()
	}
}
