package driven

import "context"

// LLMService provides chat-completion operations. This is an optional
// service - when nil, chunk contextualization is disabled and chunks
// are embedded as-is.
type LLMService interface {
	// Complete produces a text completion from a prompt.
	Complete(ctx context.Context, prompt string, opts CompleteOptions) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// CompleteOptions configures text completion behaviour.
type CompleteOptions struct {
	// System is an optional system prompt.
	System string

	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}
