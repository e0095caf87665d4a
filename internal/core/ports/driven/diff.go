package driven

import (
	"context"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
)

// DiffProvider computes classified changes between two stored versions
// of a document. The core does not diff content itself; the provider's
// granularity and classification rules are an implementation choice.
type DiffProvider interface {
	// CompareVersions returns the changes between oldVersion and
	// newVersion of url. An empty slice means the versions are
	// textually equivalent at the provider's granularity.
	CompareVersions(ctx context.Context, url string, oldVersion, newVersion int) ([]domain.Change, error)
}
