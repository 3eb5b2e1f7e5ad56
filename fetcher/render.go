package fetcher

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"faq-auditor/config"
	"faq-auditor/extract"
	"faq-auditor/models"
	"faq-auditor/utils"
)

// Renderer fetches pages through a headless browser, driving each page to
// its most-expanded state before harvesting. Every fetch runs in its own
// browser instance that is closed on all exit paths.
type Renderer struct {
	cfg    *config.Config
	logger *utils.Logger
}

// NewRenderer creates a render-mode fetcher.
func NewRenderer(cfg *config.Config, logger *utils.Logger) *Renderer {
	return &Renderer{cfg: cfg, logger: logger}
}

// newBrowserCtx builds an isolated browser instance for one fetch. The
// returned cancel closes the tab, the browser and the allocator.
func (r *Renderer) newBrowserCtx(ctx context.Context) (context.Context, func()) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent(userAgent),
	)
	if bin := findBrowserBinary(r.cfg.ChromeBin, r.cfg.BrowserChannel); bin != "" {
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)

	// Suppress chromedp log noise
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))

	browserCtx, cancelTimeout := context.WithTimeout(browserCtx, 120*time.Second)

	return browserCtx, func() {
		cancelTimeout()
		cancelBrowser()
		cancelAlloc()
	}
}

// Fetch navigates to the URL, expands tabs, accordions, ARIA panels,
// disclosures and load-more sections, then harvests Q/A pairs twice: once
// restricted to visually visible elements and once accepting ARIA-linked
// hidden panels. Both harvests are merged and deduplicated.
func (r *Renderer) Fetch(ctx context.Context, url string) (Result, error) {
	browserCtx, cancel := r.newBrowserCtx(ctx)
	defer cancel()

	if err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		waitReady(),
	); err != nil {
		return Result{}, &FetchError{URL: url, Err: fmt.Errorf("render navigate: %w", err)}
	}

	pause := time.Duration(r.cfg.ClickPauseMs) * time.Millisecond

	// Each expansion step is independently fault-tolerant: a failed click
	// or timeout is swallowed and the sequence continues.
	r.step(browserCtx, "open-tabs", chromedp.Evaluate(clickAllJS(tabSelectors), nil), chromedp.Sleep(pause))
	r.step(browserCtx, "open-accordions", chromedp.Evaluate(clickAllJS(accordionSelectors), nil), chromedp.Sleep(pause))
	r.step(browserCtx, "force-aria-panels", chromedp.Evaluate(forceAriaPanelsJS, nil))
	r.step(browserCtx, "open-details", chromedp.Evaluate(openDetailsJS, nil))
	r.triggerLoadMore(browserCtx)
	r.scrollPage(browserCtx)

	var visible, accessible []models.QA
	r.step(browserCtx, "harvest-visible", chromedp.Evaluate(harvestVisibleJS, &visible))
	r.step(browserCtx, "harvest-accessible", chromedp.Evaluate(harvestAccessibleJS, &accessible))

	var html string
	if err := chromedp.Run(browserCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return Result{}, &FetchError{URL: url, Err: fmt.Errorf("render capture: %w", err)}
	}

	merged := extract.DedupeQAs(append(visible, accessible...))
	r.logger.Debug("[render] %s — %d visible + %d accessible -> %d merged",
		url, len(visible), len(accessible), len(merged))

	return Result{HTML: html, QAs: merged}, nil
}

// FetchText retrieves a page's rendered HTML without the FAQ expansion
// steps — the render-mode path for discovery pages, whose listings may be
// script-built. Non-2xx document responses become a FetchError.
func (r *Renderer) FetchText(ctx context.Context, url string) (string, error) {
	browserCtx, cancel := r.newBrowserCtx(ctx)
	defer cancel()

	resp, err := chromedp.RunResponse(browserCtx, chromedp.Navigate(url))
	if err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("render navigate: %w", err)}
	}
	if resp != nil && (resp.Status < 200 || resp.Status > 299) {
		return "", &FetchError{URL: url, Status: int(resp.Status)}
	}

	var html string
	if err := chromedp.Run(browserCtx,
		waitReady(),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	); err != nil {
		return "", &FetchError{URL: url, Err: fmt.Errorf("render capture: %w", err)}
	}
	return html, nil
}

// ProbeOK reports whether the URL's document response is 2xx, navigating
// with the browser so probes observe the same routing as rendered fetches.
func (r *Renderer) ProbeOK(ctx context.Context, url string) bool {
	browserCtx, cancel := r.newBrowserCtx(ctx)
	defer cancel()

	resp, err := chromedp.RunResponse(browserCtx, chromedp.Navigate(url))
	if err != nil {
		return false
	}
	if resp == nil {
		return true
	}
	return resp.Status >= 200 && resp.Status <= 299
}

// waitReady blocks until document.readyState reports complete, bounded at
// ten seconds, then allows a short settle for late script-driven content.
func waitReady() chromedp.Action {
	return chromedp.ActionFunc(func(ctx context.Context) error {
		deadline := time.Now().Add(10 * time.Second)
		for time.Now().Before(deadline) {
			var state string
			if err := chromedp.Evaluate("document.readyState", &state).Do(ctx); err != nil {
				return err
			}
			if state == "complete" {
				break
			}
			if err := chromedp.Sleep(100 * time.Millisecond).Do(ctx); err != nil {
				return err
			}
		}
		return chromedp.Sleep(1500 * time.Millisecond).Do(ctx)
	})
}

// step runs one interaction, swallowing failures so a single missing
// control never aborts the fetch.
func (r *Renderer) step(ctx context.Context, name string, actions ...chromedp.Action) {
	if err := chromedp.Run(ctx, actions...); err != nil {
		r.logger.Debug("[render] step %s skipped: %v", name, err)
	}
}

// triggerLoadMore clicks visible load-more controls up to the configured
// cycle count, pausing between clicks so new content can settle.
func (r *Renderer) triggerLoadMore(ctx context.Context) {
	for i := 0; i < r.cfg.LoadMoreCycles; i++ {
		var clicked bool
		if err := chromedp.Run(ctx, chromedp.Evaluate(clickLoadMoreJS, &clicked)); err != nil {
			r.logger.Debug("[render] load-more cycle %d skipped: %v", i+1, err)
			return
		}
		if !clicked {
			return
		}
		r.step(ctx, "load-more-settle", chromedp.Sleep(500*time.Millisecond))
	}
}

// scrollPage performs bounded scroll steps to trigger lazy-loaded content.
func (r *Renderer) scrollPage(ctx context.Context) {
	script := fmt.Sprintf("window.scrollBy(0, %d)", r.cfg.ScrollDelta)
	for i := 0; i < r.cfg.ScrollSteps; i++ {
		r.step(ctx, "scroll",
			chromedp.Evaluate(script, nil),
			chromedp.Sleep(100*time.Millisecond),
		)
	}
	r.step(ctx, "scroll-top", chromedp.Evaluate("window.scrollTo(0, 0)", nil), chromedp.Sleep(200*time.Millisecond))
}

// findBrowserBinary locates the Chrome/Chromium binary to launch. An
// explicit path wins, then a named channel, then well-known locations.
func findBrowserBinary(explicit, channel string) string {
	if explicit != "" {
		return explicit
	}
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	if channel != "" {
		names = append([]string{channel}, names...)
	}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}
