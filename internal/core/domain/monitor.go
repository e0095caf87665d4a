package domain

import "time"

// CrawlType identifies the ingestion strategy used for a monitored URL.
type CrawlType string

// Known crawl types.
const (
	// CrawlTypeWebpage crawls a site recursively starting at the URL.
	CrawlTypeWebpage CrawlType = "webpage"

	// CrawlTypeTextFile fetches a single markdown or text document.
	CrawlTypeTextFile CrawlType = "text_file"

	// CrawlTypeSitemap expands a sitemap and fetches every listed URL.
	CrawlTypeSitemap CrawlType = "sitemap"

	// CrawlTypeOpenAPI fetches and renders an OpenAPI specification.
	CrawlTypeOpenAPI CrawlType = "openapi"
)

// String returns the string representation.
func (t CrawlType) String() string {
	return string(t)
}

// MonitorStatus is the lifecycle state of a monitored document.
type MonitorStatus string

// Monitored document lifecycle states. Removal is a soft delete:
// records flip to deleted and are never physically removed.
const (
	MonitorStatusActive  MonitorStatus = "active"
	MonitorStatusDeleted MonitorStatus = "deleted"
)

// String returns the string representation.
func (s MonitorStatus) String() string {
	return string(s)
}

// MonitoredDocument is a documentation URL under change monitoring.
type MonitoredDocument struct {
	// URL uniquely identifies the monitored document.
	URL string

	// CrawlType records the ingestion strategy chosen when the URL
	// was first monitored.
	CrawlType CrawlType

	// Status is active or deleted.
	Status MonitorStatus

	// Notes is optional free-form operator commentary.
	Notes string

	// DateAdded is when monitoring started.
	DateAdded time.Time

	// LastCrawledAt is when content was last fetched, zero if never.
	LastCrawledAt time.Time
}
