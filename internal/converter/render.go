package converter

import (
	"context"
	"log/slog"
	"time"

	"github.com/playwright-community/playwright-go"
)

// defaultRenderTimeout bounds one page navigation when ctx has no deadline
const defaultRenderTimeout = 30 * time.Second

// Renderer returns the HTML of a page after its scripts have run
type Renderer interface {
	Render(ctx context.Context, pageURL string) ([]byte, error)
}

// PlaywrightRenderer renders pages in headless Chromium
type PlaywrightRenderer struct {
	pw      *playwright.Playwright
	browser playwright.Browser
}

// NewPlaywrightRenderer starts the playwright driver and a headless
// Chromium. It fails when the driver or the browser is not installed.
func NewPlaywrightRenderer(options *playwright.RunOptions) (*PlaywrightRenderer, error) {
	var runOptions []*playwright.RunOptions
	if options != nil {
		runOptions = append(runOptions, options)
	}
	pw, err := playwright.Run(runOptions...)
	if err != nil {
		return nil, &ConversionError{
			OriginalError: err,
			Hint:          "failed to initialize playwright",
		}
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(true),
	})
	if err != nil {
		if stopErr := pw.Stop(); stopErr != nil {
			slog.Debug("error stopping playwright", "error", stopErr)
		}
		return nil, &ConversionError{
			OriginalError: err,
			Hint:          "failed to launch chromium browser",
		}
	}

	return &PlaywrightRenderer{pw: pw, browser: browser}, nil
}

// IsAvailable reports whether the browser is running
func (r *PlaywrightRenderer) IsAvailable() bool {
	return r != nil && r.pw != nil && r.browser != nil
}

// Render opens pageURL, waits for the network to go idle and returns the DOM
func (r *PlaywrightRenderer) Render(ctx context.Context, pageURL string) ([]byte, error) {
	if !r.IsAvailable() {
		return nil, &ConversionError{Hint: "page renderer not available"}
	}

	timeout := defaultRenderTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}
	if timeout <= 0 {
		return nil, &ConversionError{OriginalError: context.DeadlineExceeded, Hint: "no time left to render page"}
	}

	page, err := r.browser.NewPage()
	if err != nil {
		return nil, &ConversionError{OriginalError: err, Hint: "failed to create new page"}
	}
	defer func() {
		if closeErr := page.Close(); closeErr != nil {
			slog.Debug("error closing page", "error", closeErr)
		}
	}()

	if _, err := page.Goto(pageURL, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(timeout.Milliseconds())),
	}); err != nil {
		return nil, &ConversionError{OriginalError: err, Hint: "failed to navigate to " + pageURL}
	}

	html, err := page.Content()
	if err != nil {
		return nil, &ConversionError{OriginalError: err, Hint: "failed to get page content"}
	}
	return []byte(html), nil
}

// Close stops the browser and the driver
func (r *PlaywrightRenderer) Close() error {
	if r == nil {
		return nil
	}
	var firstErr error
	if r.browser != nil {
		if err := r.browser.Close(); err != nil {
			firstErr = err
		}
	}
	if r.pw != nil {
		if err := r.pw.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
