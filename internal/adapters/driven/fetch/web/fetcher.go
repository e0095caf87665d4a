// Package web provides an HTTP implementation of the Fetcher port.
// Pages are fetched with rate limiting and converted to readable text
// using readability extraction with a tag-stripping fallback.
package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/docmon-labs/docmon-cli/internal/core/ports/driven"
	"github.com/docmon-labs/docmon-cli/internal/logger"
	"github.com/docmon-labs/docmon-cli/internal/urlutil"
)

// Ensure Fetcher implements the interface.
var _ driven.Fetcher = (*Fetcher)(nil)

// Default configuration values.
const (
	DefaultTimeout           = 30 * time.Second
	DefaultRequestsPerSecond = 4
	DefaultConcurrency       = 5
	DefaultUserAgent         = "docmon/1.0 (documentation monitor)"

	// maxBodySize caps response bodies at 10 MiB.
	maxBodySize = 10 << 20
)

// Config holds configuration for the web fetcher.
type Config struct {
	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration

	// RequestsPerSecond throttles outgoing requests (default: 4).
	RequestsPerSecond float64

	// Concurrency bounds parallel requests in batch operations (default: 5).
	Concurrency int

	// UserAgent overrides the default User-Agent header.
	UserAgent string
}

// Fetcher retrieves pages over HTTP.
type Fetcher struct {
	client      *http.Client
	limiter     *rate.Limiter
	concurrency int
	userAgent   string
}

// New creates a web fetcher.
func New(cfg Config) *Fetcher {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:     rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		concurrency: cfg.Concurrency,
		userAgent:   cfg.UserAgent,
	}
}

// Fetch retrieves and extracts the text of a single URL.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*driven.FetchResult, error) {
	body, contentType, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}

	result := &driven.FetchResult{
		URL:         url,
		ContentType: contentType,
	}

	if isHTML(contentType, body) {
		page := extractPage(body, url)
		result.Text = page.text
		result.InternalLinks = page.internalLinks
	} else {
		result.Text = strings.TrimSpace(body)
	}

	return result, nil
}

// FetchBatch retrieves many URLs with bounded concurrency.
// Failed URLs are skipped; the result order is unspecified.
func (f *Fetcher) FetchBatch(ctx context.Context, urls []string) ([]*driven.FetchResult, error) {
	if len(urls) == 0 {
		return nil, nil
	}

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		results []*driven.FetchResult
	)

	sem := make(chan struct{}, f.concurrency)

	for _, url := range urls {
		wg.Add(1)
		sem <- struct{}{}

		go func(url string) {
			defer wg.Done()
			defer func() { <-sem }()

			result, err := f.Fetch(ctx, url)
			if err != nil {
				logger.Warn("fetch failed for %s: %v", url, err)
				return
			}

			mu.Lock()
			results = append(results, result)
			mu.Unlock()
		}(url)
	}

	wg.Wait()
	return results, nil
}

// FetchRecursive crawls same-domain links starting at url, breadth
// first, up to maxDepth levels and maxPages pages.
func (f *Fetcher) FetchRecursive(ctx context.Context, url string, maxDepth, maxPages int) ([]*driven.FetchResult, error) {
	start := urlutil.Normalize(url)

	visited := map[string]bool{start: true}
	frontier := []string{start}

	var results []*driven.FetchResult

	for depth := 0; depth <= maxDepth && len(frontier) > 0 && len(results) < maxPages; depth++ {
		var next []string

		for _, pageURL := range frontier {
			if len(results) >= maxPages {
				break
			}

			result, err := f.Fetch(ctx, pageURL)
			if err != nil {
				logger.Warn("crawl skipping %s: %v", pageURL, err)
				continue
			}
			results = append(results, result)

			for _, link := range result.InternalLinks {
				link = urlutil.Normalize(link)
				if visited[link] || !urlutil.SameDomain(start, link) {
					continue
				}
				visited[link] = true
				next = append(next, link)
			}
		}

		frontier = next
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("crawl of %s produced no pages", url)
	}
	return results, nil
}

// get performs a rate-limited GET and returns the body and content type.
func (f *Fetcher) get(ctx context.Context, url string) (string, string, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return "", "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", "", fmt.Errorf("read body of %s: %w", url, err)
	}

	return string(body), resp.Header.Get("Content-Type"), nil
}

// isHTML reports whether the response should be treated as an HTML page.
func isHTML(contentType, body string) bool {
	if strings.Contains(contentType, "text/html") || strings.Contains(contentType, "application/xhtml") {
		return true
	}
	if contentType != "" {
		return false
	}
	head := strings.ToLower(strings.TrimSpace(body))
	return strings.HasPrefix(head, "<!doctype html") || strings.HasPrefix(head, "<html")
}
