package driving

import (
	"context"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
)

// MonitorService manages the set of monitored documentation URLs and
// their initial indexing.
type MonitorService interface {
	// Monitor registers a URL for change monitoring, crawls it and
	// stores version 1 of its content. Registering an already-active
	// URL fails without re-crawling.
	Monitor(ctx context.Context, url, notes string) domain.MonitorResult

	// List returns all actively monitored documents.
	List(ctx context.Context) ([]domain.MonitoredDocument, error)

	// Remove soft-deletes a monitored document. Stored content and
	// change history are retained.
	Remove(ctx context.Context, url string) domain.MonitorResult

	// History returns the change records for a URL, newest first.
	History(ctx context.Context, url string) ([]domain.ChangeRecord, error)

	// Sources returns the distinct source domains with stored content.
	Sources(ctx context.Context) ([]string, error)
}
