// Package renderer abstracts the headless-browser capability the caption
// pipeline depends on: load a URL, let client-side scripts settle, and hand
// back serialized document content for the main page or a nested frame.
// The pipeline itself holds no rendering logic, so any automation backend
// (or a fake for tests) can satisfy Renderer.
package renderer

import (
	"errors"
	"fmt"
	"os/exec"
)

// Renderer is the rendering capability consumed by the transcript pipeline.
// A Renderer owns one browser session: RenderPage opens it, RenderFrame reads
// a nested frame from the same loaded page, and Close releases it. Close must
// run on both success and failure paths.
type Renderer interface {
	// RenderPage navigates to url, waits for the initial parse plus a
	// settling interval, and returns the main document's serialized content.
	RenderPage(url string) (string, error)

	// RenderFrame resolves a nested frame by CSS selector on the currently
	// loaded page and returns its serialized content after a shorter settling
	// interval. found is false when no element matches the selector.
	RenderFrame(selector string) (html string, found bool, err error)

	// Close releases the browser session.
	Close()
}

// ErrBrowserNotFound means no usable browser executable is installed; the
// pipeline cannot proceed without one.
var ErrBrowserNotFound = errors.New("no Chrome or Chromium executable found")

// InstallHint is printed alongside ErrBrowserNotFound so the operator knows
// how to fix it.
const InstallHint = "Install Chrome or Chromium (e.g. apt install chromium-browser, or download from https://www.google.com/chrome/) and make sure it is on PATH."

// browserCandidates are the executable names chromedp can drive, in
// preference order.
var browserCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
	"chrome",
}

// lookPath is swapped out in tests.
var lookPath = exec.LookPath

// FindBrowser returns the path of the first usable browser executable on
// PATH, or ErrBrowserNotFound. Called before any rendering so a missing
// browser fails fast instead of surfacing as an opaque automation error.
func FindBrowser() (string, error) {
	for _, name := range browserCandidates {
		if path, err := lookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w (tried %v)", ErrBrowserNotFound, browserCandidates)
}
