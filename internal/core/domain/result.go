package domain

// The pipeline's public operations never propagate errors to callers.
// Each returns a result envelope carrying success or a textual error,
// mirrored by the MCP tool and CLI surfaces.

// CheckResult is the envelope returned by a change check.
type CheckResult struct {
	// Success is false when a collaborator failed.
	Success bool

	// URL is the checked document.
	URL string

	// Message describes the outcome for unchanged and first-version
	// terminal states.
	Message string

	// CurrentVersion is the stored version when no change was found.
	CurrentVersion int

	// OldVersion and NewVersion describe a version transition.
	OldVersion int
	NewVersion int

	// ChangesFound is the number of detected changes (0 when the
	// content was unchanged).
	ChangesFound int

	// Changes lists analyzed changes for a version transition.
	Changes []AnalyzedChange

	// Error describes the failure when Success is false.
	Error string
}

// MonitorResult is the envelope returned by monitor registration.
type MonitorResult struct {
	Success bool
	URL     string

	// CrawlType is the ingestion strategy chosen for the URL.
	CrawlType CrawlType

	// PagesCrawled is the number of pages fetched during initial
	// indexing.
	PagesCrawled int

	// ChunksStored is the number of chunks persisted.
	ChunksStored int

	Message string
	Error   string
}

// CheckAllResult summarises change checks across every stored URL.
type CheckAllResult struct {
	Success bool

	// TotalURLsChecked is the number of distinct URLs examined.
	TotalURLsChecked int

	// Results holds the per-URL outcomes.
	Results []CheckResult

	Error string
}
