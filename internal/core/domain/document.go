package domain

// DocumentType classifies a fetched document for processing routing.
// The classification is recomputed on every fetch and is never treated
// as authoritative stored state.
type DocumentType string

// Known document types, in classifier precedence order.
const (
	// DocTypeOpenAPI is an OpenAPI 3.x specification (JSON or YAML).
	DocTypeOpenAPI DocumentType = "openapi"

	// DocTypeSwagger is a Swagger 2.x specification.
	DocTypeSwagger DocumentType = "swagger"

	// DocTypeLlmsTxt is an llms.txt machine-readable site summary.
	DocTypeLlmsTxt DocumentType = "llms_txt"

	// DocTypeMarkdown is a markdown document.
	DocTypeMarkdown DocumentType = "markdown"

	// DocTypeSitemap is an XML or text sitemap.
	DocTypeSitemap DocumentType = "sitemap"

	// DocTypeWebpage is a generic HTML page. This is the default.
	DocTypeWebpage DocumentType = "webpage"

	// DocTypeText is a plain text document.
	DocTypeText DocumentType = "text"
)

// String returns the string representation.
func (t DocumentType) String() string {
	return string(t)
}

// CrawlType maps a document type onto the ingestion strategy used for it.
func (t DocumentType) CrawlType() CrawlType {
	switch t {
	case DocTypeOpenAPI, DocTypeSwagger:
		return CrawlTypeOpenAPI
	case DocTypeSitemap:
		return CrawlTypeSitemap
	case DocTypeMarkdown, DocTypeLlmsTxt, DocTypeText:
		return CrawlTypeTextFile
	default:
		return CrawlTypeWebpage
	}
}

// Document represents a fetched document routed through the pipeline.
type Document struct {
	// URL is the canonical location the document was fetched from.
	URL string

	// Type is the classification result used to route processing.
	Type DocumentType

	// Content is the full extracted text of the document.
	Content string
}

// Chunk is the unit of storage and retrieval: a bounded-size slice of a
// document's text, tagged with its position and metadata.
type Chunk struct {
	// ID is the unique identifier for the stored chunk row.
	ID string

	// URL is the source document location.
	URL string

	// ChunkIndex is the ordinal position within (URL, Version).
	// Indexes are unique and contiguous for a given version.
	ChunkIndex int

	// Content is the raw text content of this chunk. Contextual
	// annotation, when enabled, feeds only the embedding and is not
	// stored here.
	Content string

	// Version is the document snapshot this chunk belongs to.
	Version int

	// Embedding is the vector representation for semantic search.
	Embedding []float32

	// Metadata carries section and provenance information.
	Metadata ChunkMetadata
}

// ChunkMetadata describes a chunk's section and provenance.
type ChunkMetadata struct {
	// Headers is a "; "-joined list of markdown headers in the chunk.
	Headers string

	// CharCount is the chunk length in characters.
	CharCount int

	// WordCount is the chunk length in whitespace-separated words.
	WordCount int

	// Section labels structured content, e.g. "info", "endpoint" or
	// "schema" for chunks generated from an OpenAPI specification.
	Section string

	// Path is the API path for endpoint sections.
	Path string

	// Method is the upper-cased HTTP method for endpoint sections.
	Method string

	// Title is the document or spec title, when known.
	Title string

	// URL duplicates the source location for filterable metadata.
	URL string

	// SourceDomain is the host the document was fetched from.
	SourceDomain string

	// CrawlType records how the document was ingested.
	CrawlType CrawlType

	// Version duplicates the chunk's snapshot version.
	Version int

	// Contextualized is true when an LLM-generated situating summary
	// was prepended to the chunk before embedding.
	Contextualized bool
}
