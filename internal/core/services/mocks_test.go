package services

import (
	"context"
	"strings"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
	"github.com/docmon-labs/docmon-cli/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockFetcher implements driven.Fetcher for testing.
type mockFetcher struct {
	pages       map[string]*driven.FetchResult
	sitemapURLs []string
	fetchErr    error
	fetchCalls  int
}

func (m *mockFetcher) Fetch(_ context.Context, url string) (*driven.FetchResult, error) {
	m.fetchCalls++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if page, ok := m.pages[url]; ok {
		return page, nil
	}
	return nil, domain.ErrFetchFailed
}

func (m *mockFetcher) FetchBatch(ctx context.Context, urls []string) ([]*driven.FetchResult, error) {
	var out []*driven.FetchResult
	for _, u := range urls {
		if page, err := m.Fetch(ctx, u); err == nil {
			out = append(out, page)
		}
	}
	return out, nil
}

func (m *mockFetcher) FetchRecursive(ctx context.Context, url string, _, maxPages int) ([]*driven.FetchResult, error) {
	root, err := m.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	out := []*driven.FetchResult{root}
	for _, link := range root.InternalLinks {
		if len(out) >= maxPages {
			break
		}
		if page, err := m.Fetch(ctx, link); err == nil {
			out = append(out, page)
		}
	}
	return out, nil
}

func (m *mockFetcher) FetchSitemap(_ context.Context, _ string) ([]string, error) {
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	return m.sitemapURLs, nil
}

// mockEmbedder implements driven.EmbeddingService for testing. The
// embedding for a text is looked up in vectors, falling back to a
// fixed unit vector.
type mockEmbedder struct {
	vectors  map[string][]float32
	embedErr error
	calls    []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	m.calls = append(m.calls, text)
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return []float32{1, 0}, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int { return 2 }

func (m *mockEmbedder) ModelName() string { return "mock-embed" }

func (m *mockEmbedder) Ping(_ context.Context) error { return nil }

func (m *mockEmbedder) Close() error { return nil }

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	response    string
	completeErr error
	calls       int
}

func (m *mockLLM) Complete(_ context.Context, prompt string, _ driven.CompleteOptions) (string, error) {
	m.calls++
	if m.completeErr != nil {
		return "", m.completeErr
	}
	if m.response != "" {
		return m.response, nil
	}
	// Derive a stable summary from the chunk between the tags.
	if i := strings.Index(prompt, "<chunk>"); i >= 0 {
		return "Context for chunk", nil
	}
	return "Context", nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

func (m *mockLLM) Close() error { return nil }

// mockDiffer implements driven.DiffProvider for testing.
type mockDiffer struct {
	changes    []domain.Change
	compareErr error
	lastOld    int
	lastNew    int
}

func (m *mockDiffer) CompareVersions(_ context.Context, _ string, oldVersion, newVersion int) ([]domain.Change, error) {
	m.lastOld, m.lastNew = oldVersion, newVersion
	if m.compareErr != nil {
		return nil, m.compareErr
	}
	return m.changes, nil
}
