package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sitescout/sitescout/internal/types"
)

const (
	// DefaultTimeout bounds a single page request.
	DefaultTimeout = 30 * time.Second
	// DefaultMaxBodyBytes caps the response body read per fetch.
	DefaultMaxBodyBytes = 10 * 1024 * 1024
)

// Result is the outcome of a single successful transport round trip. A
// non-2xx status is still a Result; only transport-level problems are errors.
type Result struct {
	HTML       string
	StatusCode int
	LoadTimeMs int64
}

// Options controls HTTP fetching behaviour.
type Options struct {
	UserAgent    string
	Timeout      time.Duration
	MaxBodyBytes int64
}

// Fetcher issues bounded, timeout-guarded GETs for single URLs.
type Fetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
}

// New constructs a Fetcher using the provided options.
func New(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = types.DefaultUserAgent
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		userAgent:    opts.UserAgent,
		maxBodyBytes: opts.MaxBodyBytes,
	}
}

// Fetch GETs a single URL. There are no retries; a transport failure
// permanently excludes the URL from the page set for this crawl.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	// Read one byte past the cap so an oversized body is distinguishable
	// from one that is exactly at the limit.
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("body read failed: %w", err)
	}
	if int64(len(body)) > f.maxBodyBytes {
		return nil, fmt.Errorf("response body exceeds %d bytes", f.maxBodyBytes)
	}

	return &Result{
		HTML:       string(body),
		StatusCode: resp.StatusCode,
		LoadTimeMs: time.Since(start).Milliseconds(),
	}, nil
}
