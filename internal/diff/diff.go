// Package diff provides paragraph-level change detection between
// stored document versions.
package diff

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
	"github.com/docmon-labs/docmon-cli/internal/core/ports/driven"
)

// summaryLimit caps the length of a change summary's content preview.
const summaryLimit = 80

// Provider detects changes at paragraph granularity. It reconstructs
// each version's text from its stored chunks, so a chunk boundary
// shift alone does not register as a change.
type Provider struct {
	store driven.DocumentStore
}

var _ driven.DiffProvider = (*Provider)(nil)

// NewProvider returns a paragraph-level diff provider backed by store.
func NewProvider(store driven.DocumentStore) *Provider {
	return &Provider{store: store}
}

// CompareVersions reconstructs both versions from the store and diffs
// their paragraphs. Removed and inserted paragraphs are paired in
// order as modifications; unpaired leftovers report as deleted or
// added.
func (p *Provider) CompareVersions(ctx context.Context, url string, oldVersion, newVersion int) ([]domain.Change, error) {
	oldText, err := p.versionText(ctx, url, oldVersion)
	if err != nil {
		return nil, err
	}
	newText, err := p.versionText(ctx, url, newVersion)
	if err != nil {
		return nil, err
	}

	removed, inserted := diffParagraphs(paragraphs(oldText), paragraphs(newText))

	var changes []domain.Change
	pairs := len(removed)
	if len(inserted) < pairs {
		pairs = len(inserted)
	}

	for i := 0; i < pairs; i++ {
		changes = append(changes, domain.Change{
			Type:    domain.ChangeTypeModified,
			Summary: "Section modified: " + preview(inserted[i]),
			Impact:  domain.ImpactMedium,
			Details: domain.ChangeDetails{
				OldContent: removed[i],
				NewContent: inserted[i],
			},
		})
	}
	for _, para := range removed[pairs:] {
		changes = append(changes, domain.Change{
			Type:    domain.ChangeTypeDeleted,
			Summary: "Section removed: " + preview(para),
			Impact:  domain.ImpactMedium,
			Details: domain.ChangeDetails{OldContent: para},
		})
	}
	for _, para := range inserted[pairs:] {
		changes = append(changes, domain.Change{
			Type:    domain.ChangeTypeAdded,
			Summary: "Section added: " + preview(para),
			Impact:  domain.ImpactLow,
			Details: domain.ChangeDetails{NewContent: para},
		})
	}

	return changes, nil
}

func (p *Provider) versionText(ctx context.Context, url string, version int) (string, error) {
	chunks, err := p.store.ChunksForVersion(ctx, url, version)
	if err != nil {
		return "", fmt.Errorf("loading version %d of %s: %w", version, url, err)
	}
	if len(chunks) == 0 {
		return "", fmt.Errorf("loading version %d of %s: %w", version, url, domain.ErrVersionNotFound)
	}

	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = c.Content
	}
	return strings.Join(parts, "\n\n"), nil
}

// diffParagraphs returns the paragraphs unique to each side, in
// document order. Shared paragraphs are matched by content regardless
// of position.
func diffParagraphs(oldParas, newParas []string) (removed, inserted []string) {
	oldCounts := counts(oldParas)
	newCounts := counts(newParas)

	for _, p := range oldParas {
		if newCounts[p] > 0 {
			newCounts[p]--
			continue
		}
		removed = append(removed, p)
	}
	for _, p := range newParas {
		if oldCounts[p] > 0 {
			oldCounts[p]--
			continue
		}
		inserted = append(inserted, p)
	}
	return removed, inserted
}

func counts(paras []string) map[string]int {
	m := make(map[string]int, len(paras))
	for _, p := range paras {
		m[p]++
	}
	return m
}

// paragraphs splits text on blank lines, trimming and dropping empty
// entries.
func paragraphs(text string) []string {
	var out []string
	for _, block := range strings.Split(text, "\n\n") {
		if trimmed := strings.TrimSpace(block); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// preview returns the first line of a paragraph, truncated.
func preview(para string) string {
	line := para
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	if utf8.RuneCountInString(line) > summaryLimit {
		runes := []rune(line)
		line = string(runes[:summaryLimit]) + "..."
	}
	return line
}
