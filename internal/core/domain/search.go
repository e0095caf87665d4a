package domain

// SearchFilter restricts retrieval to chunks with matching metadata.
// Zero-valued fields are ignored.
type SearchFilter struct {
	// Source filters by source domain.
	Source string

	// Path filters by API endpoint path.
	Path string

	// Method filters by upper-cased HTTP method.
	Method string
}

// IsZero reports whether no filter fields are set.
func (f SearchFilter) IsZero() bool {
	return f == SearchFilter{}
}

// Matches reports whether the chunk metadata satisfies the filter.
func (f SearchFilter) Matches(m ChunkMetadata) bool {
	if f.Source != "" && m.SourceDomain != f.Source {
		return false
	}
	if f.Path != "" && m.Path != f.Path {
		return false
	}
	if f.Method != "" && m.Method != f.Method {
		return false
	}
	return true
}

// SearchOptions configures a retrieval query.
type SearchOptions struct {
	// MatchCount is the maximum number of results (default 10).
	MatchCount int

	// Filter restricts results by chunk metadata.
	Filter SearchFilter

	// SimilarityThreshold is the minimum vector similarity (0-1).
	SimilarityThreshold float64

	// Rerank enables heuristic reranking of combined results.
	Rerank bool
}

// SearchResult is a single retrieval hit.
type SearchResult struct {
	// URL and ChunkIndex identify the stored chunk.
	URL        string
	ChunkIndex int

	// Content is the chunk text.
	Content string

	// Metadata is the stored chunk metadata.
	Metadata ChunkMetadata

	// Similarity is the vector similarity score, or the fixed keyword
	// match score for keyword-only hits.
	Similarity float64

	// RerankScore is the heuristic score layered on top of Similarity.
	// Only meaningful when Reranked is true.
	RerankScore float64

	// Reranked is true when RerankScore was computed.
	Reranked bool
}

// Key identifies the result's chunk for deduplication.
func (r SearchResult) Key() ChunkKey {
	return ChunkKey{URL: r.URL, ChunkIndex: r.ChunkIndex}
}

// ChunkKey uniquely identifies a chunk within the newest version of a
// document.
type ChunkKey struct {
	URL        string
	ChunkIndex int
}
