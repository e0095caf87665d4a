package driving

import (
	"context"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
)

// RetrievalService serves hybrid (vector + keyword) retrieval over
// stored chunks.
type RetrievalService interface {
	// Search returns up to opts.MatchCount ranked results. Collaborator
	// failures degrade gracefully; a total failure yields an empty
	// slice, never an error.
	Search(ctx context.Context, query string, opts domain.SearchOptions) []domain.SearchResult
}
