package memory

import (
	"context"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
	"github.com/docmon-labs/docmon-cli/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
// Used in tests and as a fallback when no database path is configured.
type DocumentStore struct {
	mu      sync.RWMutex
	chunks  map[string][]domain.Chunk       // url -> all versions
	records map[string][]domain.ChangeRecord // url -> records
}

// NewDocumentStore creates a new in-memory document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		chunks:  make(map[string][]domain.Chunk),
		records: make(map[string][]domain.ChangeRecord),
	}
}

// InsertChunks stores chunk rows.
func (s *DocumentStore) InsertChunks(_ context.Context, chunks []domain.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		s.chunks[c.URL] = append(s.chunks[c.URL], c)
	}
	return nil
}

// DeleteChunksByURL removes every stored chunk for the given URLs.
func (s *DocumentStore) DeleteChunksByURL(_ context.Context, urls []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range urls {
		delete(s.chunks, u)
	}
	return nil
}

// LatestVersion returns the highest stored version for a URL.
func (s *DocumentStore) LatestVersion(_ context.Context, url string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latestLocked(url), nil
}

func (s *DocumentStore) latestLocked(url string) int {
	latest := 0
	for _, c := range s.chunks[url] {
		if c.Version > latest {
			latest = c.Version
		}
	}
	return latest
}

// ChunksForVersion returns all chunks stored under (url, version),
// ordered by chunk index.
func (s *DocumentStore) ChunksForVersion(_ context.Context, url string, version int) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.Chunk
	for _, c := range s.chunks[url] {
		if c.Version == version {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChunkIndex < out[j].ChunkIndex })
	return out, nil
}

// VectorSearch ranks newest-version chunks by cosine similarity.
func (s *DocumentStore) VectorSearch(_ context.Context, embedding []float32, matchCount int, filter domain.SearchFilter, threshold float64) ([]driven.VectorMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []driven.VectorMatch
	for url := range s.chunks {
		latest := s.latestLocked(url)
		for _, c := range s.chunks[url] {
			if c.Version != latest || len(c.Embedding) == 0 {
				continue
			}
			if !filter.Matches(c.Metadata) {
				continue
			}
			sim := cosine(embedding, c.Embedding)
			if sim < threshold {
				continue
			}
			matches = append(matches, driven.VectorMatch{Chunk: c, Similarity: sim})
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Similarity > matches[j].Similarity })
	if matchCount > 0 && len(matches) > matchCount {
		matches = matches[:matchCount]
	}
	return matches, nil
}

// KeywordSearch returns newest-version chunks containing the pattern,
// case-insensitive.
func (s *DocumentStore) KeywordSearch(_ context.Context, pattern string, filter domain.SearchFilter, limit int) ([]domain.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(pattern)
	var out []domain.Chunk
	for url := range s.chunks {
		latest := s.latestLocked(url)
		for _, c := range s.chunks[url] {
			if c.Version != latest {
				continue
			}
			if !filter.Matches(c.Metadata) {
				continue
			}
			if !strings.Contains(strings.ToLower(c.Content), needle) {
				continue
			}
			out = append(out, c)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].URL != out[j].URL {
			return out[i].URL < out[j].URL
		}
		return out[i].ChunkIndex < out[j].ChunkIndex
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// URLs returns every distinct URL with stored chunks.
func (s *DocumentStore) URLs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	urls := make([]string, 0, len(s.chunks))
	for u := range s.chunks {
		if len(s.chunks[u]) > 0 {
			urls = append(urls, u)
		}
	}
	sort.Strings(urls)
	return urls, nil
}

// Sources returns the distinct source domains with stored chunks.
func (s *DocumentStore) Sources(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set := map[string]struct{}{}
	for _, chunks := range s.chunks {
		for _, c := range chunks {
			if c.Metadata.SourceDomain != "" {
				set[c.Metadata.SourceDomain] = struct{}{}
			}
		}
	}
	sources := make([]string, 0, len(set))
	for d := range set {
		sources = append(sources, d)
	}
	sort.Strings(sources)
	return sources, nil
}

// UpsertChangeRecord stores a change record keyed on (url, version).
func (s *DocumentStore) UpsertChangeRecord(_ context.Context, rec domain.ChangeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	records := s.records[rec.URL]
	for i, existing := range records {
		if existing.Version == rec.Version {
			records[i] = rec
			return nil
		}
	}
	s.records[rec.URL] = append(records, rec)
	return nil
}

// ChangeHistory returns change records for a URL, newest version first.
func (s *DocumentStore) ChangeHistory(_ context.Context, url string) ([]domain.ChangeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := append([]domain.ChangeRecord(nil), s.records[url]...)
	sort.Slice(records, func(i, j int) bool { return records[i].Version > records[j].Version })
	return records, nil
}

// cosine computes cosine similarity, 0 when either vector is zero or
// the dimensions differ.
func cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
