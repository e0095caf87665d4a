package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
)

func TestServer_handleMonitor(t *testing.T) {
	ctx := context.Background()

	monitor := &mockMonitorService{
		monitorResult: domain.MonitorResult{
			Success:      true,
			URL:          "https://docs.example.com/api",
			CrawlType:    domain.CrawlTypeWebpage,
			PagesCrawled: 3,
			ChunksStored: 12,
			Message:      "Website processed and stored",
		},
	}
	ports := validPorts()
	ports.Monitor = monitor
	server, err := NewServer(ports)
	require.NoError(t, err)

	_, output, err := server.handleMonitor(ctx, nil, MonitorInput{URL: "https://docs.example.com/api"})

	require.NoError(t, err)
	assert.True(t, output.Success)
	assert.Equal(t, "webpage", output.CrawlType)
	assert.Equal(t, 3, output.PagesCrawled)
	assert.Equal(t, 12, output.ChunksStored)
}

func TestServer_handleMonitor_Failure(t *testing.T) {
	monitor := &mockMonitorService{
		monitorResult: domain.MonitorResult{
			Success: false,
			URL:     "https://docs.example.com/api",
			Error:   "Documentation already monitored",
		},
	}
	ports := validPorts()
	ports.Monitor = monitor
	server, err := NewServer(ports)
	require.NoError(t, err)

	_, output, err := server.handleMonitor(context.Background(), nil, MonitorInput{URL: "https://docs.example.com/api"})

	require.NoError(t, err)
	assert.False(t, output.Success)
	assert.Equal(t, "Documentation already monitored", output.Error)
}

func TestServer_handleCheck(t *testing.T) {
	tracker := &mockTracker{
		checkResult: domain.CheckResult{
			Success:      true,
			URL:          "https://docs.example.com/api",
			OldVersion:   1,
			NewVersion:   2,
			ChangesFound: 2,
			Changes: []domain.AnalyzedChange{
				{
					Change: domain.Change{
						Type:    domain.ChangeTypeModified,
						Summary: "Section modified: Authentication",
						Impact:  domain.ImpactMedium,
					},
					Analysis: domain.ImpactAnalysis{
						Severity:        domain.ImpactHigh,
						Recommendations: []string{"Review breaking changes immediately"},
						BreakingChanges: true,
					},
				},
				{
					Change: domain.Change{
						Type:    domain.ChangeTypeAdded,
						Summary: "Section added: Webhooks",
						Impact:  domain.ImpactLow,
					},
					Analysis: domain.ImpactAnalysis{Severity: domain.ImpactLow},
				},
			},
		},
	}
	ports := validPorts()
	ports.Tracker = tracker
	server, err := NewServer(ports)
	require.NoError(t, err)

	_, output, err := server.handleCheck(context.Background(), nil, CheckInput{URL: "https://docs.example.com/api"})

	require.NoError(t, err)
	assert.True(t, output.Success)
	assert.Equal(t, 1, output.OldVersion)
	assert.Equal(t, 2, output.NewVersion)
	assert.Equal(t, 2, output.ChangesFound)
	require.Len(t, output.Changes, 2)
	assert.Equal(t, "modified", output.Changes[0].Type)
	// Impact reflects the analysis severity, not the diff estimate
	assert.Equal(t, "high", output.Changes[0].Impact)
	assert.True(t, output.Changes[0].BreakingChanges)
	assert.Equal(t, "low", output.Changes[1].Impact)
}

func TestServer_handleCheckAll(t *testing.T) {
	tracker := &mockTracker{
		checkAllResult: domain.CheckAllResult{
			Success:          true,
			TotalURLsChecked: 2,
			Results: []domain.CheckResult{
				{Success: true, URL: "https://a.example.com", Message: "No changes detected", CurrentVersion: 1},
				{Success: false, URL: "https://b.example.com", Error: "fetch failed"},
			},
		},
	}
	ports := validPorts()
	ports.Tracker = tracker
	server, err := NewServer(ports)
	require.NoError(t, err)

	_, output, err := server.handleCheckAll(context.Background(), nil, EmptyInput{})

	require.NoError(t, err)
	assert.True(t, output.Success)
	assert.Equal(t, 2, output.TotalURLsChecked)
	require.Len(t, output.Results, 2)
	assert.Equal(t, "No changes detected", output.Results[0].Message)
	assert.Equal(t, "fetch failed", output.Results[1].Error)
}

func TestServer_handleRAGQuery(t *testing.T) {
	retrieval := &mockRetrieval{
		results: []domain.SearchResult{
			{
				URL:        "https://docs.example.com/api",
				ChunkIndex: 2,
				Content:    "Authentication uses bearer tokens.",
				Metadata:   domain.ChunkMetadata{Section: "endpoint", Path: "/auth", Method: "POST"},
				Similarity: 0.87,
			},
		},
	}
	ports := validPorts()
	ports.Retrieval = retrieval
	server, err := NewServer(ports)
	require.NoError(t, err)

	input := RAGInput{Query: "authentication", Source: "docs.example.com", Method: "post"}
	_, output, err := server.handleRAGQuery(context.Background(), nil, input)

	require.NoError(t, err)
	assert.True(t, output.Success)
	assert.Equal(t, 1, output.Count)
	assert.Equal(t, map[string]string{"source": "docs.example.com", "method": "POST"}, output.Filter)
	require.Len(t, output.ContextDocuments, 1)
	assert.Equal(t, 2, output.ContextDocuments[0].ChunkIndex)
	assert.Equal(t, 0.87, output.ContextDocuments[0].Similarity)
	assert.Zero(t, output.ContextDocuments[0].RerankScore)

	// The method filter is upper-cased before reaching the retriever
	assert.Equal(t, "POST", retrieval.lastOpts.Filter.Method)
	assert.False(t, retrieval.lastOpts.Rerank)
}

func TestServer_handleAdvancedRAGQuery_Defaults(t *testing.T) {
	retrieval := &mockRetrieval{
		results: []domain.SearchResult{
			{
				URL:         "https://docs.example.com/api",
				ChunkIndex:  0,
				Content:     "Rate limits apply to the authentication endpoint.",
				Similarity:  0.8,
				RerankScore: 1.05,
				Reranked:    true,
			},
		},
	}
	ports := validPorts()
	ports.Retrieval = retrieval
	server, err := NewServer(ports)
	require.NoError(t, err)

	input := AdvancedRAGInput{Query: "authentication rate limits"}
	_, output, err := server.handleAdvancedRAGQuery(context.Background(), nil, input)

	require.NoError(t, err)
	assert.True(t, output.Success)
	assert.Equal(t, 0.3, output.QueryAnalysis.SimilarityThreshold)
	assert.True(t, output.QueryAnalysis.RerankingEnabled)
	assert.Equal(t, 1, output.QueryAnalysis.ResultsFound)

	assert.InDelta(t, 0.3, retrieval.lastOpts.SimilarityThreshold, 1e-9)
	assert.True(t, retrieval.lastOpts.Rerank)

	require.Len(t, output.ContextDocuments, 1)
	relevance := output.ContextDocuments[0].Relevance
	assert.Equal(t, 0.8, relevance.SimilarityScore)
	assert.Equal(t, 1.05, relevance.RerankScore)
	// "authentication" and "rate" and "limits" all appear in content
	assert.Equal(t, 3, relevance.ExactMatches)
}

func TestServer_handleAdvancedRAGQuery_Overrides(t *testing.T) {
	retrieval := &mockRetrieval{}
	ports := validPorts()
	ports.Retrieval = retrieval
	server, err := NewServer(ports)
	require.NoError(t, err)

	threshold := 0.6
	rerank := false
	input := AdvancedRAGInput{
		Query:               "webhooks",
		SimilarityThreshold: &threshold,
		EnableReranking:     &rerank,
	}
	_, output, err := server.handleAdvancedRAGQuery(context.Background(), nil, input)

	require.NoError(t, err)
	assert.Equal(t, 0.6, output.QueryAnalysis.SimilarityThreshold)
	assert.False(t, output.QueryAnalysis.RerankingEnabled)
	assert.Equal(t, 0.6, retrieval.lastOpts.SimilarityThreshold)
	assert.False(t, retrieval.lastOpts.Rerank)
}

func TestServer_handleHistory(t *testing.T) {
	created := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	monitor := &mockMonitorService{
		history: []domain.ChangeRecord{
			{
				URL:     "https://docs.example.com/api",
				Version: 2,
				Type:    domain.ChangeTypeModified,
				Summary: "Section modified: Authentication",
				Impact:  domain.ImpactHigh,
				Changes: []domain.AnalyzedChange{
					{
						Change:   domain.Change{Type: domain.ChangeTypeModified, Summary: "Section modified: Authentication"},
						Analysis: domain.ImpactAnalysis{Severity: domain.ImpactHigh},
					},
				},
				CreatedAt: created,
			},
			{
				URL:       "https://docs.example.com/api",
				Version:   1,
				Type:      domain.ChangeTypeAdded,
				Summary:   "Initial version stored",
				Impact:    domain.ImpactHigh,
				CreatedAt: created.Add(-24 * time.Hour),
			},
		},
	}
	ports := validPorts()
	ports.Monitor = monitor
	server, err := NewServer(ports)
	require.NoError(t, err)

	_, output, err := server.handleHistory(context.Background(), nil, HistoryInput{URL: "https://docs.example.com/api"})

	require.NoError(t, err)
	assert.True(t, output.Success)
	require.Len(t, output.History, 2)
	assert.Equal(t, 2, output.History[0].Version)
	assert.Equal(t, "modified", output.History[0].ChangeType)
	assert.Equal(t, created, output.History[0].CreatedAt)
	assert.Equal(t, "Initial version stored", output.History[1].ChangeSummary)
}

func TestServer_handleHistory_Error(t *testing.T) {
	monitor := &mockMonitorService{err: errors.New("store offline")}
	ports := validPorts()
	ports.Monitor = monitor
	server, err := NewServer(ports)
	require.NoError(t, err)

	_, output, err := server.handleHistory(context.Background(), nil, HistoryInput{URL: "https://docs.example.com"})

	require.NoError(t, err)
	assert.False(t, output.Success)
	assert.Equal(t, "store offline", output.Error)
}

func TestServer_handleList(t *testing.T) {
	added := time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)
	monitor := &mockMonitorService{
		docs: []domain.MonitoredDocument{
			{
				URL:       "https://docs.example.com/api",
				CrawlType: domain.CrawlTypeOpenAPI,
				Status:    domain.MonitorStatusActive,
				Notes:     "payments API",
				DateAdded: added,
			},
			{
				URL:           "https://other.example.com/readme.md",
				CrawlType:     domain.CrawlTypeTextFile,
				Status:        domain.MonitorStatusActive,
				DateAdded:     added,
				LastCrawledAt: added.Add(time.Hour),
			},
		},
	}
	ports := validPorts()
	ports.Monitor = monitor
	server, err := NewServer(ports)
	require.NoError(t, err)

	_, output, err := server.handleList(context.Background(), nil, EmptyInput{})

	require.NoError(t, err)
	assert.True(t, output.Success)
	require.Len(t, output.MonitoredDocumentations, 2)
	assert.Equal(t, "openapi", output.MonitoredDocumentations[0].CrawlType)
	assert.Nil(t, output.MonitoredDocumentations[0].LastCrawledAt)
	require.NotNil(t, output.MonitoredDocumentations[1].LastCrawledAt)
	assert.Equal(t, added.Add(time.Hour), *output.MonitoredDocumentations[1].LastCrawledAt)
}

func TestServer_handleDelete(t *testing.T) {
	monitor := &mockMonitorService{
		removeResult: domain.MonitorResult{
			Success: true,
			URL:     "https://docs.example.com/api",
			Message: "Documentation removed from monitoring",
		},
	}
	ports := validPorts()
	ports.Monitor = monitor
	server, err := NewServer(ports)
	require.NoError(t, err)

	_, output, err := server.handleDelete(context.Background(), nil, DeleteInput{URL: "https://docs.example.com/api"})

	require.NoError(t, err)
	assert.True(t, output.Success)
	assert.Equal(t, "Documentation removed from monitoring", output.Message)
}

func TestServer_handleSources(t *testing.T) {
	monitor := &mockMonitorService{
		sources: []string{"docs.example.com", "other.example.com"},
	}
	ports := validPorts()
	ports.Monitor = monitor
	server, err := NewServer(ports)
	require.NoError(t, err)

	_, output, err := server.handleSources(context.Background(), nil, EmptyInput{})

	require.NoError(t, err)
	assert.True(t, output.Success)
	assert.Equal(t, 2, output.Count)
	assert.Equal(t, []string{"docs.example.com", "other.example.com"}, output.Sources)
}

func TestServer_handleSources_Error(t *testing.T) {
	monitor := &mockMonitorService{err: errors.New("store offline")}
	ports := validPorts()
	ports.Monitor = monitor
	server, err := NewServer(ports)
	require.NoError(t, err)

	_, output, err := server.handleSources(context.Background(), nil, EmptyInput{})

	require.NoError(t, err)
	assert.False(t, output.Success)
	assert.Equal(t, "store offline", output.Error)
}

func TestBuildFilter(t *testing.T) {
	filter, echo := buildFilter("", "", "")
	assert.True(t, filter.IsZero())
	assert.Nil(t, echo)

	filter, echo = buildFilter("docs.example.com", "/pets", "get")
	assert.Equal(t, "docs.example.com", filter.Source)
	assert.Equal(t, "/pets", filter.Path)
	assert.Equal(t, "GET", filter.Method)
	assert.Equal(t, map[string]string{
		"source": "docs.example.com",
		"path":   "/pets",
		"method": "GET",
	}, echo)
}
