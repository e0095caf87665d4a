package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
)

// defaultSimilarityThreshold is applied by advanced_rag_query when the
// caller does not set one.
const defaultSimilarityThreshold = 0.3

// MonitorInput is the input schema for the monitor_documentation tool.
type MonitorInput struct {
	URL   string `json:"url" jsonschema:"the documentation URL to monitor"`
	Notes string `json:"notes,omitempty" jsonschema:"optional free-form notes about this documentation"`
}

// MonitorOutput is the output schema for the monitor_documentation tool.
type MonitorOutput struct {
	Success      bool   `json:"success"`
	URL          string `json:"url"`
	CrawlType    string `json:"crawl_type,omitempty"`
	PagesCrawled int    `json:"pages_crawled,omitempty"`
	ChunksStored int    `json:"chunks_stored,omitempty"`
	Message      string `json:"message,omitempty"`
	Error        string `json:"error,omitempty"`
}

// CheckInput is the input schema for the check_document_changes tool.
type CheckInput struct {
	URL string `json:"url" jsonschema:"the monitored documentation URL to check"`
}

// ChangeOutput describes one analyzed change.
type ChangeOutput struct {
	Type            string   `json:"type"`
	Summary         string   `json:"summary"`
	Impact          string   `json:"impact"`
	Recommendations []string `json:"recommendations,omitempty"`
	BreakingChanges bool     `json:"breaking_changes,omitempty"`
}

// CheckOutput is the output schema for the check_document_changes tool.
type CheckOutput struct {
	Success        bool           `json:"success"`
	URL            string         `json:"url"`
	Message        string         `json:"message,omitempty"`
	CurrentVersion int            `json:"current_version,omitempty"`
	OldVersion     int            `json:"old_version,omitempty"`
	NewVersion     int            `json:"new_version,omitempty"`
	ChangesFound   int            `json:"changes_found"`
	Changes        []ChangeOutput `json:"changes,omitempty"`
	Error          string         `json:"error,omitempty"`
}

// CheckAllOutput is the output schema for the check_all_document_changes tool.
type CheckAllOutput struct {
	Success          bool          `json:"success"`
	TotalURLsChecked int           `json:"total_urls_checked"`
	Results          []CheckOutput `json:"results"`
	Error            string        `json:"error,omitempty"`
}

// RAGInput is the input schema for the perform_rag_query tool.
type RAGInput struct {
	Query      string `json:"query" jsonschema:"the search query"`
	Source     string `json:"source,omitempty" jsonschema:"filter by source domain"`
	Endpoint   string `json:"endpoint,omitempty" jsonschema:"filter by API endpoint path"`
	Method     string `json:"method,omitempty" jsonschema:"filter by HTTP method"`
	MatchCount int    `json:"match_count,omitempty" jsonschema:"maximum number of results (default 10)"`
}

// RAGResultOutput is a single retrieval hit.
type RAGResultOutput struct {
	URL         string  `json:"url"`
	ChunkIndex  int     `json:"chunk_number"`
	Content     string  `json:"content"`
	Headers     string  `json:"headers,omitempty"`
	Section     string  `json:"section,omitempty"`
	Path        string  `json:"path,omitempty"`
	Method      string  `json:"method,omitempty"`
	Similarity  float64 `json:"similarity"`
	RerankScore float64 `json:"rerank_score,omitempty"`
}

// RAGOutput is the output schema for the perform_rag_query tool.
type RAGOutput struct {
	Success          bool              `json:"success"`
	Query            string            `json:"query"`
	Filter           map[string]string `json:"filter,omitempty"`
	ContextDocuments []RAGResultOutput `json:"context_documents"`
	Count            int               `json:"count"`
}

// AdvancedRAGInput is the input schema for the advanced_rag_query tool.
type AdvancedRAGInput struct {
	Query               string   `json:"query" jsonschema:"the search query"`
	Source              string   `json:"source,omitempty" jsonschema:"filter by source domain"`
	Endpoint            string   `json:"endpoint,omitempty" jsonschema:"filter by API endpoint path"`
	Method              string   `json:"method,omitempty" jsonschema:"filter by HTTP method"`
	MatchCount          int      `json:"match_count,omitempty" jsonschema:"maximum number of results (default 10)"`
	SimilarityThreshold *float64 `json:"similarity_threshold,omitempty" jsonschema:"minimum similarity score 0-1 (default 0.3)"`
	EnableReranking     *bool    `json:"enable_reranking,omitempty" jsonschema:"rerank combined results (default true)"`
}

// RelevanceIndicators carry per-result relevance detail.
type RelevanceIndicators struct {
	SimilarityScore float64 `json:"similarity_score"`
	RerankScore     float64 `json:"rerank_score,omitempty"`
	ExactMatches    int     `json:"exact_matches"`
	ContentLength   int     `json:"content_length"`
	ChunkNumber     int     `json:"chunk_number"`
}

// AdvancedRAGResult extends a retrieval hit with relevance indicators.
type AdvancedRAGResult struct {
	RAGResultOutput
	Relevance RelevanceIndicators `json:"relevance_indicators"`
}

// QueryAnalysis echoes the effective query parameters.
type QueryAnalysis struct {
	OriginalQuery       string            `json:"original_query"`
	FilterApplied       map[string]string `json:"filter_applied,omitempty"`
	SimilarityThreshold float64           `json:"similarity_threshold"`
	RerankingEnabled    bool              `json:"reranking_enabled"`
	ResultsFound        int               `json:"results_found"`
}

// AdvancedRAGOutput is the output schema for the advanced_rag_query tool.
type AdvancedRAGOutput struct {
	Success          bool                `json:"success"`
	QueryAnalysis    QueryAnalysis       `json:"query_analysis"`
	ContextDocuments []AdvancedRAGResult `json:"context_documents"`
	Count            int                 `json:"count"`
	SearchMethod     string              `json:"search_method"`
}

// HistoryInput is the input schema for the get_document_history tool.
type HistoryInput struct {
	URL string `json:"url" jsonschema:"the monitored documentation URL"`
}

// HistoryEntry is one change record in a document's history.
type HistoryEntry struct {
	Version       int            `json:"version"`
	ChangeType    string         `json:"change_type"`
	ChangeSummary string         `json:"change_summary"`
	ChangeImpact  string         `json:"change_impact"`
	Changes       []ChangeOutput `json:"changes,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
}

// HistoryOutput is the output schema for the get_document_history tool.
type HistoryOutput struct {
	Success bool           `json:"success"`
	URL     string         `json:"url"`
	History []HistoryEntry `json:"history"`
	Error   string         `json:"error,omitempty"`
}

// EmptyInput is the input schema for tools taking no arguments.
type EmptyInput struct{}

// MonitoredDocOutput describes one monitored documentation entry.
type MonitoredDocOutput struct {
	URL           string     `json:"url"`
	CrawlType     string     `json:"crawl_type"`
	Status        string     `json:"status"`
	Notes         string     `json:"notes,omitempty"`
	DateAdded     time.Time  `json:"date_added"`
	LastCrawledAt *time.Time `json:"last_crawled_at,omitempty"`
}

// ListOutput is the output schema for the list_monitored_documentations tool.
type ListOutput struct {
	Success                 bool                 `json:"success"`
	MonitoredDocumentations []MonitoredDocOutput `json:"monitored_documentations"`
	Error                   string               `json:"error,omitempty"`
}

// DeleteInput is the input schema for the delete_documentation_from_monitoring tool.
type DeleteInput struct {
	URL string `json:"url" jsonschema:"the documentation URL to stop monitoring"`
}

// DeleteOutput is the output schema for the delete_documentation_from_monitoring tool.
type DeleteOutput struct {
	Success bool   `json:"success"`
	URL     string `json:"url"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// SourcesOutput is the output schema for the get_available_sources tool.
type SourcesOutput struct {
	Success bool     `json:"success"`
	Sources []string `json:"sources"`
	Count   int      `json:"count"`
	Error   string   `json:"error,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "monitor_documentation",
		Description: "Add a documentation URL for monitoring, crawl it and index its content",
	}, s.handleMonitor)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_document_changes",
		Description: "Check a monitored document for changes against its last stored version",
	}, s.handleCheck)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_all_document_changes",
		Description: "Check every monitored document for changes and summarise the results",
	}, s.handleCheckAll)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "perform_rag_query",
		Description: "Search the stored documentation with hybrid retrieval, with optional source, endpoint and method filters",
	}, s.handleRAGQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "advanced_rag_query",
		Description: "Search with hybrid retrieval, similarity threshold and heuristic reranking",
	}, s.handleAdvancedRAGQuery)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document_history",
		Description: "Get the change history for a monitored document, newest first",
	}, s.handleHistory)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_monitored_documentations",
		Description: "List all documentation URLs currently being monitored",
	}, s.handleList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "delete_documentation_from_monitoring",
		Description: "Stop monitoring a documentation URL; stored content and history are retained",
	}, s.handleDelete)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_available_sources",
		Description: "List the distinct source domains with stored content",
	}, s.handleSources)
}

// handleMonitor handles the monitor_documentation tool invocation.
func (s *Server) handleMonitor(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input MonitorInput,
) (*mcp.CallToolResult, MonitorOutput, error) {
	result := s.ports.Monitor.Monitor(ctx, input.URL, input.Notes)

	return nil, MonitorOutput{
		Success:      result.Success,
		URL:          result.URL,
		CrawlType:    result.CrawlType.String(),
		PagesCrawled: result.PagesCrawled,
		ChunksStored: result.ChunksStored,
		Message:      result.Message,
		Error:        result.Error,
	}, nil
}

// handleCheck handles the check_document_changes tool invocation.
func (s *Server) handleCheck(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CheckInput,
) (*mcp.CallToolResult, CheckOutput, error) {
	result := s.ports.Tracker.CheckAndUpdate(ctx, input.URL)
	return nil, checkOutput(result), nil
}

// handleCheckAll handles the check_all_document_changes tool invocation.
func (s *Server) handleCheckAll(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, CheckAllOutput, error) {
	result := s.ports.Tracker.CheckAll(ctx)

	output := CheckAllOutput{
		Success:          result.Success,
		TotalURLsChecked: result.TotalURLsChecked,
		Results:          make([]CheckOutput, len(result.Results)),
		Error:            result.Error,
	}
	for i := range result.Results {
		output.Results[i] = checkOutput(result.Results[i])
	}

	return nil, output, nil
}

// handleRAGQuery handles the perform_rag_query tool invocation.
func (s *Server) handleRAGQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input RAGInput,
) (*mcp.CallToolResult, RAGOutput, error) {
	filter, filterEcho := buildFilter(input.Source, input.Endpoint, input.Method)

	results := s.ports.Retrieval.Search(ctx, input.Query, domain.SearchOptions{
		MatchCount: input.MatchCount,
		Filter:     filter,
	})

	output := RAGOutput{
		Success:          true,
		Query:            input.Query,
		Filter:           filterEcho,
		ContextDocuments: make([]RAGResultOutput, len(results)),
		Count:            len(results),
	}
	for i := range results {
		output.ContextDocuments[i] = ragResult(results[i])
	}

	return nil, output, nil
}

// handleAdvancedRAGQuery handles the advanced_rag_query tool invocation.
func (s *Server) handleAdvancedRAGQuery(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AdvancedRAGInput,
) (*mcp.CallToolResult, AdvancedRAGOutput, error) {
	filter, filterEcho := buildFilter(input.Source, input.Endpoint, input.Method)

	threshold := defaultSimilarityThreshold
	if input.SimilarityThreshold != nil {
		threshold = *input.SimilarityThreshold
	}
	rerank := true
	if input.EnableReranking != nil {
		rerank = *input.EnableReranking
	}

	results := s.ports.Retrieval.Search(ctx, input.Query, domain.SearchOptions{
		MatchCount:          input.MatchCount,
		Filter:              filter,
		SimilarityThreshold: threshold,
		Rerank:              rerank,
	})

	queryTerms := strings.Fields(strings.ToLower(input.Query))

	output := AdvancedRAGOutput{
		Success: true,
		QueryAnalysis: QueryAnalysis{
			OriginalQuery:       input.Query,
			FilterApplied:       filterEcho,
			SimilarityThreshold: threshold,
			RerankingEnabled:    rerank,
			ResultsFound:        len(results),
		},
		ContextDocuments: make([]AdvancedRAGResult, len(results)),
		Count:            len(results),
		SearchMethod:     "hybrid_search_with_reranking",
	}

	for i := range results {
		content := strings.ToLower(results[i].Content)
		exact := 0
		for _, term := range queryTerms {
			if strings.Contains(content, term) {
				exact++
			}
		}

		output.ContextDocuments[i] = AdvancedRAGResult{
			RAGResultOutput: ragResult(results[i]),
			Relevance: RelevanceIndicators{
				SimilarityScore: results[i].Similarity,
				RerankScore:     results[i].RerankScore,
				ExactMatches:    exact,
				ContentLength:   len(results[i].Content),
				ChunkNumber:     results[i].ChunkIndex,
			},
		}
	}

	return nil, output, nil
}

// handleHistory handles the get_document_history tool invocation.
func (s *Server) handleHistory(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input HistoryInput,
) (*mcp.CallToolResult, HistoryOutput, error) {
	records, err := s.ports.Monitor.History(ctx, input.URL)
	if err != nil {
		return nil, HistoryOutput{URL: input.URL, Error: err.Error()}, nil
	}

	output := HistoryOutput{
		Success: true,
		URL:     input.URL,
		History: make([]HistoryEntry, len(records)),
	}
	for i, record := range records {
		entry := HistoryEntry{
			Version:       record.Version,
			ChangeType:    record.Type.String(),
			ChangeSummary: record.Summary,
			ChangeImpact:  record.Impact.String(),
			CreatedAt:     record.CreatedAt,
			Changes:       make([]ChangeOutput, len(record.Changes)),
		}
		for j, change := range record.Changes {
			entry.Changes[j] = changeOutput(change)
		}
		output.History[i] = entry
	}

	return nil, output, nil
}

// handleList handles the list_monitored_documentations tool invocation.
func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, ListOutput, error) {
	docs, err := s.ports.Monitor.List(ctx)
	if err != nil {
		return nil, ListOutput{Error: err.Error()}, nil
	}

	output := ListOutput{
		Success:                 true,
		MonitoredDocumentations: make([]MonitoredDocOutput, len(docs)),
	}
	for i, doc := range docs {
		entry := MonitoredDocOutput{
			URL:       doc.URL,
			CrawlType: doc.CrawlType.String(),
			Status:    doc.Status.String(),
			Notes:     doc.Notes,
			DateAdded: doc.DateAdded,
		}
		if !doc.LastCrawledAt.IsZero() {
			crawled := doc.LastCrawledAt
			entry.LastCrawledAt = &crawled
		}
		output.MonitoredDocumentations[i] = entry
	}

	return nil, output, nil
}

// handleDelete handles the delete_documentation_from_monitoring tool invocation.
func (s *Server) handleDelete(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DeleteInput,
) (*mcp.CallToolResult, DeleteOutput, error) {
	result := s.ports.Monitor.Remove(ctx, input.URL)

	return nil, DeleteOutput{
		Success: result.Success,
		URL:     result.URL,
		Message: result.Message,
		Error:   result.Error,
	}, nil
}

// handleSources handles the get_available_sources tool invocation.
func (s *Server) handleSources(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ EmptyInput,
) (*mcp.CallToolResult, SourcesOutput, error) {
	sources, err := s.ports.Monitor.Sources(ctx)
	if err != nil {
		return nil, SourcesOutput{Error: err.Error()}, nil
	}

	return nil, SourcesOutput{
		Success: true,
		Sources: sources,
		Count:   len(sources),
	}, nil
}

// buildFilter converts tool filter arguments to a search filter and an
// echo map for tool output.
func buildFilter(source, endpoint, method string) (domain.SearchFilter, map[string]string) {
	filter := domain.SearchFilter{
		Source: source,
		Path:   endpoint,
		Method: strings.ToUpper(method),
	}

	echo := make(map[string]string)
	if source != "" {
		echo["source"] = source
	}
	if endpoint != "" {
		echo["path"] = endpoint
	}
	if method != "" {
		echo["method"] = strings.ToUpper(method)
	}
	if len(echo) == 0 {
		echo = nil
	}

	return filter, echo
}

// checkOutput maps a check envelope to the tool output schema.
func checkOutput(result domain.CheckResult) CheckOutput {
	output := CheckOutput{
		Success:        result.Success,
		URL:            result.URL,
		Message:        result.Message,
		CurrentVersion: result.CurrentVersion,
		OldVersion:     result.OldVersion,
		NewVersion:     result.NewVersion,
		ChangesFound:   result.ChangesFound,
		Error:          result.Error,
	}
	if len(result.Changes) > 0 {
		output.Changes = make([]ChangeOutput, len(result.Changes))
		for i, change := range result.Changes {
			output.Changes[i] = changeOutput(change)
		}
	}
	return output
}

// changeOutput maps an analyzed change to the tool output schema.
func changeOutput(change domain.AnalyzedChange) ChangeOutput {
	return ChangeOutput{
		Type:            change.Type.String(),
		Summary:         change.Summary,
		Impact:          change.Analysis.Severity.String(),
		Recommendations: change.Analysis.Recommendations,
		BreakingChanges: change.Analysis.BreakingChanges,
	}
}

// ragResult maps a search result to the tool output schema.
func ragResult(result domain.SearchResult) RAGResultOutput {
	output := RAGResultOutput{
		URL:        result.URL,
		ChunkIndex: result.ChunkIndex,
		Content:    result.Content,
		Headers:    result.Metadata.Headers,
		Section:    result.Metadata.Section,
		Path:       result.Metadata.Path,
		Method:     result.Metadata.Method,
		Similarity: result.Similarity,
	}
	if result.Reranked {
		output.RerankScore = result.RerankScore
	}
	return output
}
