package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"faq-auditor/models"
	"faq-auditor/utils"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 FaqAuditBot"

// Result is what a page fetch produces. QAs is non-empty only when a
// render-mode fetch harvested pairs directly from the live DOM; callers
// then use it in place of static extraction.
type Result struct {
	HTML string
	QAs  []models.QA
}

// PageFetcher retrieves a page, optionally harvesting Q/A pairs along the way.
type PageFetcher interface {
	Fetch(ctx context.Context, url string) (Result, error)
}

// FetchError is a network or HTTP-status failure fetching a page. It is
// recorded as a per-hotel report row and never aborts the run.
type FetchError struct {
	URL    string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("GET %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("GET %s -> %d", e.URL, e.Status)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client issues plain HTTP requests — the static (default) fetch mode.
type Client struct {
	http   *http.Client
	logger *utils.Logger
}

// NewClient creates a static fetch client.
func NewClient(logger *utils.Logger) *Client {
	return &Client{
		http:   &http.Client{Timeout: 30 * time.Second},
		logger: logger,
	}
}

// Fetch issues an HTTP GET and returns the response body. Non-2xx
// statuses and transport errors become a FetchError.
func (c *Client) Fetch(ctx context.Context, url string) (Result, error) {
	html, err := c.FetchText(ctx, url)
	if err != nil {
		return Result{}, err
	}
	return Result{HTML: html}, nil
}

// FetchText retrieves the raw body of a URL as a string.
func (c *Client) FetchText(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &FetchError{URL: url, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{URL: url, Err: err}
	}
	return string(body), nil
}

// ProbeOK reports whether a URL answers 2xx. It tries HEAD first and
// falls back to GET for servers that reject HEAD.
func (c *Client) ProbeOK(ctx context.Context, url string) bool {
	for _, method := range []string{http.MethodHead, http.MethodGet} {
		req, err := http.NewRequestWithContext(ctx, method, url, nil)
		if err != nil {
			return false
		}
		req.Header.Set("User-Agent", userAgent)

		resp, err := c.http.Do(req)
		if err != nil {
			continue
		}
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		if resp.StatusCode >= 200 && resp.StatusCode <= 299 {
			return true
		}
		if method == http.MethodGet {
			return false
		}
	}
	return false
}
