package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/docmon-labs/docmon-cli/internal/chunker"
	"github.com/docmon-labs/docmon-cli/internal/core/domain"
	"github.com/docmon-labs/docmon-cli/internal/core/ports/driven"
	"github.com/docmon-labs/docmon-cli/internal/logger"
	"github.com/docmon-labs/docmon-cli/internal/urlutil"
)

const (
	// contextWorkers bounds concurrent LLM contextualization calls.
	contextWorkers = 10

	// insertBatchSize is the number of chunks per store write.
	insertBatchSize = 20

	// contextDocumentLimit caps the document text sent with each
	// contextualization prompt.
	contextDocumentLimit = 25000
)

// Ingestor chunks document text, optionally contextualizes and embeds
// the chunks, and persists them. The embedding and LLM services are
// optional; a nil embedder stores chunks without vectors, a nil LLM
// skips contextualization.
type Ingestor struct {
	store    driven.DocumentStore
	embedder driven.EmbeddingService
	llm      driven.LLMService
	cfg      chunker.Config
}

// NewIngestor creates an ingestor. embedder and llm may be nil.
func NewIngestor(store driven.DocumentStore, embedder driven.EmbeddingService, llm driven.LLMService, cfg chunker.Config) *Ingestor {
	return &Ingestor{store: store, embedder: embedder, llm: llm, cfg: cfg}
}

// preparedChunk is one chunk ready for embedding and storage.
type preparedChunk struct {
	content string
	meta    domain.ChunkMetadata
}

// IngestText chunks text and stores it as the given version of url.
// Returns the number of chunks stored.
func (g *Ingestor) IngestText(ctx context.Context, url, text string, crawlType domain.CrawlType, version int) (int, error) {
	pieces := chunker.Chunk(g.cfg, text)
	prepared := make([]preparedChunk, len(pieces))
	for i, piece := range pieces {
		prepared[i] = preparedChunk{
			content: piece,
			meta:    chunker.BuildMetadata(piece, url, crawlType, version),
		}
	}
	return g.ingest(ctx, url, text, version, prepared)
}

// IngestPrepared stores pre-rendered chunks (with their own metadata)
// as the given version of url. Used for OpenAPI specifications, where
// rendering produces section metadata a plain text split cannot.
func (g *Ingestor) IngestPrepared(ctx context.Context, url string, version int, contents []string, metas []domain.ChunkMetadata) (int, error) {
	if len(contents) != len(metas) {
		return 0, fmt.Errorf("ingesting %s: %d contents for %d metadata entries", url, len(contents), len(metas))
	}
	prepared := make([]preparedChunk, len(contents))
	for i := range contents {
		meta := metas[i]
		meta.URL = url
		meta.SourceDomain = urlutil.Domain(url)
		meta.Version = version
		headers, chars, words := chunker.ExtractSectionInfo(contents[i])
		meta.Headers = headers
		meta.CharCount = chars
		meta.WordCount = words
		prepared[i] = preparedChunk{content: contents[i], meta: meta}
	}
	return g.ingest(ctx, url, strings.Join(contents, "\n\n"), version, prepared)
}

func (g *Ingestor) ingest(ctx context.Context, url, document string, version int, prepared []preparedChunk) (int, error) {
	if len(prepared) == 0 {
		return 0, fmt.Errorf("ingesting %s: %w", url, domain.ErrEmptyContent)
	}

	embedTexts := g.contextualize(ctx, document, prepared)

	var embeddings [][]float32
	if g.embedder != nil {
		var err error
		embeddings, err = g.embedder.EmbedBatch(ctx, embedTexts)
		if err != nil {
			logger.Warn("embedding %d chunks for %s failed: %v", len(prepared), url, err)
			embeddings = nil
		}
	}

	chunks := make([]domain.Chunk, len(prepared))
	for i, p := range prepared {
		chunks[i] = domain.Chunk{
			ID:         uuid.NewString(),
			URL:        url,
			ChunkIndex: i,
			Content:    p.content,
			Version:    version,
			Metadata:   p.meta,
		}
		if i < len(embeddings) {
			chunks[i].Embedding = embeddings[i]
		}
	}

	return g.insertBatches(ctx, url, chunks)
}

// contextualize returns the text to embed for each chunk. With an LLM
// available, a bounded worker pool prepends a situating summary; any
// per-chunk failure falls back to the raw chunk.
func (g *Ingestor) contextualize(ctx context.Context, document string, prepared []preparedChunk) []string {
	texts := make([]string, len(prepared))
	for i, p := range prepared {
		texts[i] = p.content
	}
	if g.llm == nil {
		return texts
	}

	if len(document) > contextDocumentLimit {
		document = document[:contextDocumentLimit]
	}

	sem := make(chan struct{}, contextWorkers)
	var wg sync.WaitGroup
	for i := range prepared {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			annotated, err := g.annotate(ctx, document, prepared[i].content)
			if err != nil {
				logger.Debug("contextualizing chunk %d failed, using raw text: %v", i, err)
				return
			}
			texts[i] = annotated
			prepared[i].meta.Contextualized = true
		}(i)
	}
	wg.Wait()

	return texts
}

// annotate asks the LLM for a short situating summary and prepends it
// to the chunk.
func (g *Ingestor) annotate(ctx context.Context, document, chunk string) (string, error) {
	prompt := fmt.Sprintf(`<document>
%s
</document>

Here is the chunk we want to situate within the whole document:
<chunk>
%s
</chunk>

Give a short succinct context to situate this chunk within the overall document for the purposes of improving search retrieval of the chunk. Answer only with the succinct context and nothing else.`, document, chunk)

	summary, err := g.llm.Complete(ctx, prompt, driven.CompleteOptions{
		MaxTokens:   200,
		Temperature: 0.3,
	})
	if err != nil {
		return "", err
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return chunk, nil
	}
	return summary + "\n---\n" + chunk, nil
}

// insertBatches writes chunks in fixed-size batches. A failed batch is
// logged and skipped; the count of stored chunks is returned.
func (g *Ingestor) insertBatches(ctx context.Context, url string, chunks []domain.Chunk) (int, error) {
	stored := 0
	var lastErr error
	for start := 0; start < len(chunks); start += insertBatchSize {
		end := start + insertBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		if err := g.store.InsertChunks(ctx, chunks[start:end]); err != nil {
			logger.Warn("storing chunks %d-%d for %s failed: %v", start, end-1, url, err)
			lastErr = err
			continue
		}
		stored += end - start
	}
	if stored == 0 && lastErr != nil {
		return 0, fmt.Errorf("storing chunks for %s: %w", url, lastErr)
	}
	return stored, nil
}
