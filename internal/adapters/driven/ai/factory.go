// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"os"
	"time"

	ollamaembed "github.com/docmon-labs/docmon-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/docmon-labs/docmon-cli/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/docmon-labs/docmon-cli/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/docmon-labs/docmon-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/docmon-labs/docmon-cli/internal/adapters/driven/llm/openai"
	"github.com/docmon-labs/docmon-cli/internal/core/domain"
	"github.com/docmon-labs/docmon-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// LoadEmbeddingSettings reads embedding provider settings from the config store.
// The API key falls back to the OPENAI_API_KEY environment variable when unset.
func LoadEmbeddingSettings(cfg driven.ConfigStore) domain.EmbeddingSettings {
	settings := domain.EmbeddingSettings{
		Provider: domain.AIProvider(cfg.GetString("embedding.provider")),
		Model:    cfg.GetString("embedding.model"),
		BaseURL:  cfg.GetString("embedding.base_url"),
		APIKey:   cfg.GetString("embedding.api_key"),
	}
	if settings.Model == "" {
		settings.Model = domain.DefaultEmbeddingModels()[settings.Provider]
	}
	if settings.APIKey == "" && settings.Provider == domain.AIProviderOpenAI {
		settings.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return settings
}

// LoadLLMSettings reads LLM provider settings from the config store.
// API keys fall back to OPENAI_API_KEY or ANTHROPIC_API_KEY when unset.
func LoadLLMSettings(cfg driven.ConfigStore) domain.LLMSettings {
	settings := domain.LLMSettings{
		Provider: domain.AIProvider(cfg.GetString("llm.provider")),
		Model:    cfg.GetString("llm.model"),
		BaseURL:  cfg.GetString("llm.base_url"),
		APIKey:   cfg.GetString("llm.api_key"),
	}
	if settings.Model == "" {
		settings.Model = domain.DefaultLLMModels()[settings.Provider]
	}
	if settings.APIKey == "" {
		switch settings.Provider {
		case domain.AIProviderOpenAI:
			settings.APIKey = os.Getenv("OPENAI_API_KEY")
		case domain.AIProviderAnthropic:
			settings.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	return settings
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns (nil, nil) when the provider is not configured.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns (nil, nil) when the provider is not configured.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}

	if svc == nil {
		return nil, nil
	}

	// Validate connectivity.
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateEmbeddingConfig validates an embedding configuration by creating a service and pinging it.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	case domain.AIProviderAnthropic:
		// Anthropic does not support embeddings.
		return nil, fmt.Errorf("anthropic does not support embeddings, use ollama or openai")

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.Model]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	dimensions := domain.EmbeddingDimensions()[settings.Model]

	return openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings *domain.LLMSettings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropicLLM creates an Anthropic LLM service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
