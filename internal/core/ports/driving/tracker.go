package driving

import (
	"context"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
)

// ChangeTracker detects and records content changes for monitored
// documents.
type ChangeTracker interface {
	// CheckAndUpdate re-fetches a URL, compares against the last
	// stored version and, on divergence, stores a new version and an
	// aggregated change record. Collaborator failures are reported in
	// the envelope, never raised.
	CheckAndUpdate(ctx context.Context, url string) domain.CheckResult

	// CheckAll runs CheckAndUpdate for every distinct stored URL.
	CheckAll(ctx context.Context) domain.CheckAllResult
}
