package diff

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
	"github.com/docmon-labs/docmon-cli/internal/core/ports/driven"
)

// versionStore serves canned chunks per (url, version).
type versionStore struct {
	driven.DocumentStore
	versions map[string]map[int][]string
}

func (s *versionStore) ChunksForVersion(_ context.Context, url string, version int) ([]domain.Chunk, error) {
	texts := s.versions[url][version]
	chunks := make([]domain.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = domain.Chunk{URL: url, ChunkIndex: i, Version: version, Content: t}
	}
	return chunks, nil
}

func newVersionStore(url string, prev, next []string) *versionStore {
	return &versionStore{versions: map[string]map[int][]string{
		url: {1: prev, 2: next},
	}}
}

func TestCompareVersionsNoChanges(t *testing.T) {
	store := newVersionStore("https://example.com/doc",
		[]string{"Intro paragraph.", "Usage paragraph."},
		[]string{"Intro paragraph.", "Usage paragraph."},
	)
	p := NewProvider(store)

	changes, err := p.CompareVersions(context.Background(), "https://example.com/doc", 1, 2)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestCompareVersionsIgnoresChunkBoundaryShift(t *testing.T) {
	store := newVersionStore("https://example.com/doc",
		[]string{"First section.\n\nSecond section."},
		[]string{"First section.", "Second section."},
	)
	p := NewProvider(store)

	changes, err := p.CompareVersions(context.Background(), "https://example.com/doc", 1, 2)
	require.NoError(t, err)
	assert.Empty(t, changes)
}

func TestCompareVersionsClassifies(t *testing.T) {
	store := newVersionStore("https://example.com/doc",
		[]string{"Kept paragraph.", "Old auth section."},
		[]string{"Kept paragraph.", "New auth section.", "Brand new notes."},
	)
	p := NewProvider(store)

	changes, err := p.CompareVersions(context.Background(), "https://example.com/doc", 1, 2)
	require.NoError(t, err)
	require.Len(t, changes, 2)

	assert.Equal(t, domain.ChangeTypeModified, changes[0].Type)
	assert.Equal(t, "Old auth section.", changes[0].Details.OldContent)
	assert.Equal(t, "New auth section.", changes[0].Details.NewContent)
	assert.Equal(t, domain.ImpactMedium, changes[0].Impact)

	assert.Equal(t, domain.ChangeTypeAdded, changes[1].Type)
	assert.Equal(t, "Brand new notes.", changes[1].Details.NewContent)
	assert.Equal(t, domain.ImpactLow, changes[1].Impact)
}

func TestCompareVersionsDeleted(t *testing.T) {
	store := newVersionStore("https://example.com/doc",
		[]string{"Kept paragraph.", "Deprecated section."},
		[]string{"Kept paragraph."},
	)
	p := NewProvider(store)

	changes, err := p.CompareVersions(context.Background(), "https://example.com/doc", 1, 2)
	require.NoError(t, err)
	require.Len(t, changes, 1)
	assert.Equal(t, domain.ChangeTypeDeleted, changes[0].Type)
	assert.Equal(t, "Deprecated section.", changes[0].Details.OldContent)
	assert.Contains(t, changes[0].Summary, "Section removed")
}

func TestCompareVersionsMissingVersion(t *testing.T) {
	store := &versionStore{versions: map[string]map[int][]string{}}
	p := NewProvider(store)

	_, err := p.CompareVersions(context.Background(), "https://example.com/doc", 1, 2)
	assert.ErrorIs(t, err, domain.ErrVersionNotFound)
}

func TestPreviewTruncates(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += fmt.Sprintf("word%d ", i)
	}
	got := preview(long)
	assert.LessOrEqual(t, len(got), summaryLimit+len("..."))
	assert.Contains(t, got, "...")
}

func TestDiffParagraphsDuplicates(t *testing.T) {
	removed, inserted := diffParagraphs(
		[]string{"same", "same", "gone"},
		[]string{"same", "fresh"},
	)
	assert.Equal(t, []string{"same", "gone"}, removed)
	assert.Equal(t, []string{"fresh"}, inserted)
}
