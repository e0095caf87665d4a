package services

import (
	"context"
	"sort"
	"strings"

	"github.com/docmon-labs/docmon-cli/internal/core/domain"
	"github.com/docmon-labs/docmon-cli/internal/core/ports/driven"
	"github.com/docmon-labs/docmon-cli/internal/core/ports/driving"
	"github.com/docmon-labs/docmon-cli/internal/logger"
)

const (
	// defaultMatchCount is used when the caller requests no limit.
	defaultMatchCount = 10

	// rerankOverfetch multiplies the vector fetch size when reranking
	// so the reranker has candidates to reorder.
	rerankOverfetch = 3

	// keywordSimilarity is the fixed score assigned to keyword-only
	// hits, which have no vector distance.
	keywordSimilarity = 0.5

	// Rerank signal weights.
	exactMatchBoost = 0.1
	headerBoost     = 0.15
	sectionBoost    = 0.1
)

// abbreviations expands common documentation shorthand. Expansions are
// appended to the query, never substituted, so literal matches on the
// short form keep working. Ordered so the expanded query is stable.
var abbreviations = []struct {
	abbrev    string
	expansion string
}{
	{"api", "API application programming interface"},
	{"auth", "authentication authorization"},
	{"db", "database"},
	{"ui", "user interface"},
	{"ux", "user experience"},
	{"ssl", "SSL secure socket layer"},
	{"http", "HTTP hypertext transfer protocol"},
	{"json", "JSON javascript object notation"},
	{"xml", "XML extensible markup language"},
}

// Ensure Retriever implements the interface.
var _ driving.RetrievalService = (*Retriever)(nil)

// Retriever serves hybrid retrieval: vector similarity combined with
// keyword matching, optionally reranked with section-aware heuristics.
// Collaborator failures degrade the result set instead of failing the
// call.
type Retriever struct {
	store    driven.DocumentStore
	embedder driven.EmbeddingService
}

// NewRetriever creates a retriever. embedder may be nil, which
// disables the vector leg.
func NewRetriever(store driven.DocumentStore, embedder driven.EmbeddingService) *Retriever {
	return &Retriever{store: store, embedder: embedder}
}

// Search runs both retrieval legs, deduplicates on chunk identity with
// vector results taking priority, and ranks the merged set.
func (r *Retriever) Search(ctx context.Context, query string, opts domain.SearchOptions) []domain.SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}
	}
	if opts.MatchCount <= 0 {
		opts.MatchCount = defaultMatchCount
	}

	expanded := expandQuery(query)
	logger.Debug("search query %q expanded to %q", query, expanded)

	results := r.vectorLeg(ctx, expanded, opts)
	results = r.keywordLeg(ctx, query, opts, results)

	// Rerank only when there is something to cut; otherwise keep the
	// combined order, vector hits first.
	if opts.Rerank && len(results) > opts.MatchCount {
		rerank(query, results)
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].RerankScore > results[j].RerankScore
		})
	}

	if len(results) > opts.MatchCount {
		results = results[:opts.MatchCount]
	}
	return results
}

// vectorLeg embeds the expanded query and runs vector search. Returns
// an empty slice when the embedder is missing or any step fails.
func (r *Retriever) vectorLeg(ctx context.Context, expanded string, opts domain.SearchOptions) []domain.SearchResult {
	if r.embedder == nil {
		return []domain.SearchResult{}
	}

	embedding, err := r.embedder.Embed(ctx, expanded)
	if err != nil {
		logger.Warn("embedding query failed, trying basic vector search: %v", err)
		return r.basicVectorSearch(ctx, expanded, opts)
	}

	fetch := opts.MatchCount
	if opts.Rerank {
		fetch *= rerankOverfetch
	}
	matches, err := r.store.VectorSearch(ctx, embedding, fetch, opts.Filter, opts.SimilarityThreshold)
	if err != nil {
		logger.Warn("vector search failed, trying basic vector search: %v", err)
		return r.basicVectorSearch(ctx, expanded, opts)
	}

	return matchResults(matches)
}

// basicVectorSearch is the degraded single-stage leg: a fresh query
// embedding and a plain search with no threshold and no overfetch.
// Returns empty on any failure.
func (r *Retriever) basicVectorSearch(ctx context.Context, expanded string, opts domain.SearchOptions) []domain.SearchResult {
	embedding, err := r.embedder.Embed(ctx, expanded)
	if err != nil {
		logger.Warn("basic vector search failed, keyword search only: %v", err)
		return []domain.SearchResult{}
	}
	matches, err := r.store.VectorSearch(ctx, embedding, opts.MatchCount, opts.Filter, 0)
	if err != nil {
		logger.Warn("basic vector search failed, keyword search only: %v", err)
		return []domain.SearchResult{}
	}
	return matchResults(matches)
}

func matchResults(matches []driven.VectorMatch) []domain.SearchResult {
	results := make([]domain.SearchResult, len(matches))
	for i, m := range matches {
		results[i] = domain.SearchResult{
			URL:        m.Chunk.URL,
			ChunkIndex: m.Chunk.ChunkIndex,
			Content:    m.Chunk.Content,
			Metadata:   m.Chunk.Metadata,
			Similarity: m.Similarity,
		}
	}
	return results
}

// keywordLeg appends keyword hits not already present in results.
func (r *Retriever) keywordLeg(ctx context.Context, query string, opts domain.SearchOptions, results []domain.SearchResult) []domain.SearchResult {
	chunks, err := r.store.KeywordSearch(ctx, query, opts.Filter, opts.MatchCount)
	if err != nil {
		logger.Warn("keyword search failed: %v", err)
		return results
	}

	seen := make(map[domain.ChunkKey]struct{}, len(results))
	for _, res := range results {
		seen[res.Key()] = struct{}{}
	}

	for _, c := range chunks {
		key := domain.ChunkKey{URL: c.URL, ChunkIndex: c.ChunkIndex}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		results = append(results, domain.SearchResult{
			URL:        c.URL,
			ChunkIndex: c.ChunkIndex,
			Content:    c.Content,
			Metadata:   c.Metadata,
			Similarity: keywordSimilarity,
		})
	}
	return results
}

// rerank layers heuristic signals over each result's similarity:
// query terms present in content, query terms in section headers, and
// structurally significant sections.
func rerank(query string, results []domain.SearchResult) {
	terms := uniqueTerms(query)

	for i := range results {
		score := results[i].Similarity

		content := strings.ToLower(results[i].Content)
		for _, term := range terms {
			if strings.Contains(content, term) {
				score += exactMatchBoost
			}
		}

		headers := strings.ToLower(results[i].Metadata.Headers)
		if headers != "" {
			for _, term := range terms {
				if strings.Contains(headers, term) {
					score += headerBoost
					break
				}
			}
		}

		switch results[i].Metadata.Section {
		case "info", "endpoint":
			score += sectionBoost
		}

		results[i].RerankScore = score
		results[i].Reranked = true
	}
}

// uniqueTerms splits the query into distinct lower-cased terms,
// preserving first-seen order.
func uniqueTerms(query string) []string {
	seen := make(map[string]struct{})
	var terms []string
	for _, term := range strings.Fields(strings.ToLower(query)) {
		if _, dup := seen[term]; dup {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	return terms
}

// expandQuery collapses whitespace runs and appends expansions for
// each known abbreviation present in the query.
func expandQuery(query string) string {
	query = strings.Join(strings.Fields(query), " ")
	queryLower := strings.ToLower(query)
	for _, a := range abbreviations {
		if strings.Contains(queryLower, a.abbrev) {
			query += " " + a.expansion
		}
	}
	return query
}
