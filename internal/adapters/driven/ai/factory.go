// Package ai provides factory functions for creating completion service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docsum/internal/adapters/driven/llm"
	anthropicllm "github.com/custodia-labs/docsum/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/docsum/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/docsum/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// GroqBaseURL is Groq's OpenAI-compatible endpoint.
const GroqBaseURL = "https://api.groq.com/openai/v1"

// ValidateLLMConfig creates a service from settings and pings it.
func ValidateLLMConfig(ctx context.Context, settings *domain.LLMSettings) error {
	svc, err := CreateCompletionService(settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateCompletionService creates the completion service for the configured provider,
// wrapped in a client-side rate limiter when one is set.
// Unconfigured settings yield domain.ErrLLMUnavailable.
func CreateCompletionService(settings *domain.LLMSettings) (driven.CompletionService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: provider or API key not set", domain.ErrLLMUnavailable)
	}

	svc, err := createProvider(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrLLMUnavailable, err)
	}
	return llm.WithRateLimit(svc, settings.RequestsPerSecond), nil
}

func createProvider(settings *domain.LLMSettings) (driven.CompletionService, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings, "openai", openaillm.DefaultBaseURL)

	case domain.AIProviderGroq:
		return createOpenAILLM(settings, "groq", GroqBaseURL)

	case domain.AIProviderAnthropic:
		return createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// createOllamaLLM creates an Ollama completion service.
func createOllamaLLM(settings *domain.LLMSettings) driven.CompletionService {
	return ollamallm.NewCompletionService(ollamallm.Config{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
}

// createOpenAILLM creates an OpenAI-compatible completion service.
func createOpenAILLM(settings *domain.LLMSettings, name, defaultBaseURL string) (driven.CompletionService, error) {
	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	model := settings.Model
	if model == "" {
		model = domain.DefaultLLMModels()[settings.Provider]
	}
	return openaillm.NewCompletionService(openaillm.Config{
		Name:    name,
		APIKey:  settings.APIKey,
		BaseURL: baseURL,
		Model:   model,
		Timeout: settings.Timeout,
	})
}

// createAnthropicLLM creates an Anthropic completion service.
func createAnthropicLLM(settings *domain.LLMSettings) (driven.CompletionService, error) {
	return anthropicllm.NewCompletionService(anthropicllm.Config{
		APIKey:  settings.APIKey,
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
		Timeout: settings.Timeout,
	})
}
