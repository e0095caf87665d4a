package cli

import (
	"context"
	"time"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
)

// setupTestServices populates the package-level service variables with
// mocks so commands run without real storage or network. The returned
// cleanup restores the nil state.
func setupTestServices() func() {
	monitorService = &cliMockMonitor{}
	trackerService = &cliMockTracker{}
	retrievalService = &cliMockRetrieval{}
	return func() {
		monitorService = nil
		trackerService = nil
		retrievalService = nil
	}
}

type cliMockMonitor struct {
	monitorResult *domain.MonitorResult
	removeResult  *domain.MonitorResult
	listDocs      []domain.MonitoredDocument
	listErr       error
	history       []domain.ChangeRecord
	historyErr    error
	sources       []string
	sourcesErr    error

	lastURL   string
	lastNotes string
}

func (m *cliMockMonitor) Monitor(_ context.Context, url, notes string) domain.MonitorResult {
	m.lastURL = url
	m.lastNotes = notes
	if m.monitorResult != nil {
		return *m.monitorResult
	}
	return domain.MonitorResult{
		Success:      true,
		URL:          url,
		CrawlType:    domain.CrawlTypeWebpage,
		PagesCrawled: 3,
		ChunksStored: 12,
	}
}

func (m *cliMockMonitor) List(context.Context) ([]domain.MonitoredDocument, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if m.listDocs != nil {
		return m.listDocs, nil
	}
	return []domain.MonitoredDocument{
		{
			URL:       "https://api.example.com/docs",
			CrawlType: domain.CrawlTypeWebpage,
			Status:    domain.MonitorStatusActive,
			DateAdded: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		},
	}, nil
}

func (m *cliMockMonitor) Remove(_ context.Context, url string) domain.MonitorResult {
	m.lastURL = url
	if m.removeResult != nil {
		return *m.removeResult
	}
	return domain.MonitorResult{Success: true, URL: url}
}

func (m *cliMockMonitor) History(_ context.Context, url string) ([]domain.ChangeRecord, error) {
	m.lastURL = url
	if m.historyErr != nil {
		return nil, m.historyErr
	}
	if m.history != nil {
		return m.history, nil
	}
	return []domain.ChangeRecord{
		{
			URL:       url,
			Version:   2,
			Type:      domain.ChangeTypeModified,
			Summary:   "2 sections modified",
			Impact:    domain.ImpactMedium,
			CreatedAt: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC),
		},
	}, nil
}

func (m *cliMockMonitor) Sources(context.Context) ([]string, error) {
	if m.sourcesErr != nil {
		return nil, m.sourcesErr
	}
	if m.sources != nil {
		return m.sources, nil
	}
	return []string{"api.example.com"}, nil
}

type cliMockTracker struct {
	checkResult    *domain.CheckResult
	checkAllResult *domain.CheckAllResult

	lastURL string
}

func (m *cliMockTracker) CheckAndUpdate(_ context.Context, url string) domain.CheckResult {
	m.lastURL = url
	if m.checkResult != nil {
		return *m.checkResult
	}
	return domain.CheckResult{
		Success:        true,
		URL:            url,
		Message:        "No changes detected",
		CurrentVersion: 1,
	}
}

func (m *cliMockTracker) CheckAll(context.Context) domain.CheckAllResult {
	if m.checkAllResult != nil {
		return *m.checkAllResult
	}
	return domain.CheckAllResult{
		Success:          true,
		TotalURLsChecked: 1,
		Results: []domain.CheckResult{
			{
				Success:        true,
				URL:            "https://api.example.com/docs",
				Message:        "No changes detected",
				CurrentVersion: 1,
			},
		},
	}
}

type cliMockRetrieval struct {
	results []domain.SearchResult

	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *cliMockRetrieval) Search(_ context.Context, query string, opts domain.SearchOptions) []domain.SearchResult {
	m.lastQuery = query
	m.lastOpts = opts
	if m.results != nil {
		return m.results
	}
	return []domain.SearchResult{
		{
			URL:        "https://api.example.com/docs",
			ChunkIndex: 0,
			Content:    "Authentication uses bearer tokens in the Authorization header.",
			Metadata: domain.ChunkMetadata{
				Headers:      "# Authentication",
				SourceDomain: "api.example.com",
			},
			Similarity:  0.82,
			RerankScore: 0.92,
			Reranked:    true,
		},
	}
}
