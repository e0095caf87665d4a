package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
	"github.com/docmon-labs/docmon-cli/internal/core/ports/driven"
)

// Ensure MonitorStore implements the interface.
var _ driven.MonitorStore = (*MonitorStore)(nil)

// MonitorStore is an in-memory implementation of driven.MonitorStore.
type MonitorStore struct {
	mu   sync.RWMutex
	docs map[string]domain.MonitoredDocument

	now func() time.Time
}

// NewMonitorStore creates a new in-memory monitor store.
func NewMonitorStore() *MonitorStore {
	return &MonitorStore{
		docs: make(map[string]domain.MonitoredDocument),
		now:  time.Now,
	}
}

// Upsert stores or updates a monitored document keyed on URL.
func (s *MonitorStore) Upsert(_ context.Context, doc domain.MonitoredDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.docs[doc.URL]; ok && doc.LastCrawledAt.IsZero() {
		doc.LastCrawledAt = existing.LastCrawledAt
	}
	s.docs[doc.URL] = doc
	return nil
}

// Get retrieves a monitored document by URL. Returns nil when the URL
// was never registered.
func (s *MonitorStore) Get(_ context.Context, url string) (*domain.MonitoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[url]
	if !ok {
		return nil, nil
	}
	return &doc, nil
}

// List returns monitored documents with the given status, ordered by
// date added.
func (s *MonitorStore) List(_ context.Context, status domain.MonitorStatus) ([]domain.MonitoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.MonitoredDocument
	for _, doc := range s.docs {
		if doc.Status == status {
			out = append(out, doc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateAdded.Before(out[j].DateAdded) })
	return out, nil
}

// SetStatus updates the lifecycle status for a URL.
func (s *MonitorStore) SetStatus(_ context.Context, url string, status domain.MonitorStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[url]
	if !ok {
		return domain.ErrNotFound
	}
	doc.Status = status
	s.docs[url] = doc
	return nil
}

// Touch records the time content was last crawled for a URL.
func (s *MonitorStore) Touch(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[url]
	if !ok {
		return domain.ErrNotFound
	}
	doc.LastCrawledAt = s.now()
	s.docs[url] = doc
	return nil
}
