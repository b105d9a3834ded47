// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/VladSF415/ai-platforms-directory/internal/adapters/driven/llm/anthropic"
	geminillm "github.com/VladSF415/ai-platforms-directory/internal/adapters/driven/llm/gemini"
	ollamallm "github.com/VladSF415/ai-platforms-directory/internal/adapters/driven/llm/ollama"
	openaillm "github.com/VladSF415/ai-platforms-directory/internal/adapters/driven/llm/openai"
	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driven"
	"github.com/VladSF415/ai-platforms-directory/internal/core/services"
	"github.com/VladSF415/ai-platforms-directory/internal/logger"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// NewStrategy resolves the response strategy from settings.
// Unconfigured settings, or a provider client that cannot be built,
// select the fallback strategy. The provider is never pinged here so a
// flaky network at startup does not disable hosted replies.
func NewStrategy(ctx context.Context, settings domain.LLMSettings) services.ResponseStrategy {
	logger.Section("Response Strategy")

	if !settings.IsConfigured() {
		logger.Info("no AI provider configured, using fallback replies")
		return services.FallbackStrategy()
	}

	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		logger.Warn("%s unavailable, using fallback replies: %v", settings.Provider, err)
		return services.FallbackStrategy()
	}

	logger.Info("using %s (%s) for replies", settings.Provider.Description(), svc.ModelName())
	return services.HostedStrategy(settings.Provider, svc)
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
// Unconfigured settings validate as the fallback strategy.
func ValidateLLMConfig(ctx context.Context, settings domain.LLMSettings) error {
	if !settings.IsConfigured() {
		return nil
	}

	svc, err := CreateLLMService(ctx, settings)
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%w)", domain.ErrLLMUnavailable, err)
	}
	return nil
}

// CreateLLMService creates the appropriate LLM service based on settings.
func CreateLLMService(ctx context.Context, settings domain.LLMSettings) (driven.LLMService, error) {
	if !settings.IsConfigured() {
		return nil, domain.ErrLLMUnavailable
	}

	switch settings.Provider {
	case domain.AIProviderGemini:
		return geminillm.NewLLMService(ctx, geminillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})

	case domain.AIProviderAnthropic:
		return anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})

	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}
