// Package browser drives a headless Chrome instance for the two jobs the
// core treats as an external collaborator: capturing the DX-World timeline
// page (HTML + full-page PNG) and rasterizing assembled SVG documents to
// PNG. Both are "navigate, wait, capture" — one dependency, two call
// sites.
package browser

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/n0sat/satbot/internal/errors"
)

// settleDelay is the additional wait after navigation-complete before
// capturing content, per §4.9's "wait an additional 3 s".
const settleDelay = 3 * time.Second

// ChromeRasterizer implements render.Rasterizer and the DX-World fetch
// contract from §9 (fetch_dx_world_html_and_png) using a shared headless
// Chrome allocator context.
type ChromeRasterizer struct {
	allocCtx context.Context
	cancel   context.CancelFunc
}

// New starts a headless Chrome allocator. Call Close when done.
func New(ctx context.Context) *ChromeRasterizer {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	return &ChromeRasterizer{allocCtx: allocCtx, cancel: cancel}
}

// Close releases the Chrome allocator.
func (c *ChromeRasterizer) Close() {
	c.cancel()
}

// RasterizeSVG navigates to a data: URL embedding the SVG document and
// captures a full-page screenshot. This is the "not raster code" escape
// hatch: every pixel operation happens inside Chrome, not in this process.
func (c *ChromeRasterizer) RasterizeSVG(ctx context.Context, svg string) ([]byte, error) {
	taskCtx, cancel := chromedp.NewContext(c.allocCtx)
	defer cancel()

	dataURL := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))

	var png []byte
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(dataURL),
		chromedp.WaitReady("svg", chromedp.ByQuery),
		chromedp.FullScreenshot(&png, 100),
	)
	if err != nil {
		return nil, errors.Wrap(err, "chrome rasterization failed")
	}
	return png, nil
}

// DXWorldCapture is the HTML + PNG pair a DX-World fetch produces.
type DXWorldCapture struct {
	HTML string
	PNG  []byte
}

// FetchDXWorld navigates to url, waits for the page to settle, and captures
// both the rendered HTML and a full-page screenshot — the
// fetch_dx_world_html_and_png() contract from §9. The browser is treated as
// a non-cancellable black box per the concurrency model: cancellation
// granularity is between pipeline iterations, not mid-capture.
func (c *ChromeRasterizer) FetchDXWorld(ctx context.Context, url string) (DXWorldCapture, error) {
	taskCtx, cancel := chromedp.NewContext(c.allocCtx)
	defer cancel()

	var html string
	var png []byte
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(settleDelay),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
		chromedp.FullScreenshot(&png, 100),
	)
	if err != nil {
		return DXWorldCapture{}, errors.Wrapf(err, "dx-world capture failed for %s", url)
	}
	return DXWorldCapture{HTML: html, PNG: png}, nil
}
