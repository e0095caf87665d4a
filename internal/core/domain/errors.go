package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyMonitored indicates a URL is already actively monitored.
	ErrAlreadyMonitored = errors.New("documentation already monitored")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyContent indicates a fetch returned no usable text.
	ErrEmptyContent = errors.New("empty content")

	// ErrFetchFailed indicates the fetch collaborator could not
	// retrieve the document.
	ErrFetchFailed = errors.New("failed to fetch document")

	// ErrVersionNotFound indicates no chunks exist for a requested
	// (url, version) pair.
	ErrVersionNotFound = errors.New("version content not found")

	// ErrEmbeddingUnavailable indicates the embedding service is not
	// configured. Vector/semantic search is disabled without it.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Chunk contextualization is disabled without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrUnsupportedType indicates an unknown provider or store type.
	ErrUnsupportedType = errors.New("unsupported type")
)
