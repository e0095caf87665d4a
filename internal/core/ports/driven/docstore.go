package driven

import (
	"context"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
)

// VectorMatch is a vector similarity hit returned by the store.
type VectorMatch struct {
	// Chunk is the matched chunk row.
	Chunk domain.Chunk

	// Similarity is the cosine similarity score (0-1).
	Similarity float64
}

// DocumentStore persists chunks, change records and version state.
// All versions of a document are retained; only monitor registration
// clears prior rows via DeleteChunksByURL.
type DocumentStore interface {
	// InsertChunks stores chunk rows. Rows carry their own version.
	InsertChunks(ctx context.Context, chunks []domain.Chunk) error

	// DeleteChunksByURL removes every stored chunk for the given URLs.
	DeleteChunksByURL(ctx context.Context, urls []string) error

	// LatestVersion returns the highest stored version for a URL,
	// 0 when the URL has no stored content.
	LatestVersion(ctx context.Context, url string) (int, error)

	// ChunksForVersion returns all chunks stored under (url, version),
	// ordered by chunk index.
	ChunksForVersion(ctx context.Context, url string, version int) ([]domain.Chunk, error)

	// VectorSearch returns up to matchCount chunks of the newest
	// version of each document, ranked by cosine similarity to the
	// query embedding, restricted by filter and threshold.
	VectorSearch(ctx context.Context, embedding []float32, matchCount int, filter domain.SearchFilter, threshold float64) ([]VectorMatch, error)

	// KeywordSearch returns up to limit newest-version chunks whose
	// content contains the pattern (case-insensitive substring match),
	// restricted by filter.
	KeywordSearch(ctx context.Context, pattern string, filter domain.SearchFilter, limit int) ([]domain.Chunk, error)

	// URLs returns every distinct URL with stored chunks.
	URLs(ctx context.Context) ([]string, error)

	// Sources returns the distinct source domains with stored chunks.
	Sources(ctx context.Context) ([]string, error)

	// UpsertChangeRecord stores a change record keyed on (url, version).
	UpsertChangeRecord(ctx context.Context, rec domain.ChangeRecord) error

	// ChangeHistory returns change records for a URL, newest version
	// first.
	ChangeHistory(ctx context.Context, url string) ([]domain.ChangeRecord, error)
}

// MonitorStore persists monitored document registrations.
type MonitorStore interface {
	// Upsert stores or updates a monitored document keyed on URL.
	Upsert(ctx context.Context, doc domain.MonitoredDocument) error

	// Get retrieves a monitored document by URL.
	Get(ctx context.Context, url string) (*domain.MonitoredDocument, error)

	// List returns monitored documents with the given status, ordered
	// by date added.
	List(ctx context.Context, status domain.MonitorStatus) ([]domain.MonitoredDocument, error)

	// SetStatus updates the lifecycle status for a URL.
	SetStatus(ctx context.Context, url string, status domain.MonitorStatus) error

	// Touch records the time content was last crawled for a URL.
	Touch(ctx context.Context, url string) error
}
