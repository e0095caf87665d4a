package driven

import "context"

// FetchResult is the outcome of retrieving one URL.
type FetchResult struct {
	// URL is the location that was fetched.
	URL string

	// Text is the extracted document text (markdown-ish for webpages).
	Text string

	// ContentType is the response content-type header, when known.
	ContentType string

	// InternalLinks are same-domain links discovered in the page.
	InternalLinks []string
}

// Fetcher retrieves raw page content. Implementations own their own
// timeouts and rate limiting; the core treats any returned error as a
// fetch failure.
type Fetcher interface {
	// Fetch retrieves and extracts the text of a single URL.
	Fetch(ctx context.Context, url string) (*FetchResult, error)

	// FetchBatch retrieves many URLs with bounded concurrency.
	// Failed URLs are skipped; the result order is unspecified.
	FetchBatch(ctx context.Context, urls []string) ([]*FetchResult, error)

	// FetchRecursive crawls same-domain links starting at url, up to
	// maxDepth levels and maxPages pages.
	FetchRecursive(ctx context.Context, url string, maxDepth, maxPages int) ([]*FetchResult, error)

	// FetchSitemap retrieves a sitemap and returns the listed URLs.
	FetchSitemap(ctx context.Context, url string) ([]string, error)
}
