package services

import (
	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driven"
)

// ResponseStrategy is the reply strategy, chosen once at startup.
// A hosted strategy always carries a non-nil LLM.
type ResponseStrategy struct {
	Kind     domain.StrategyKind
	Provider domain.AIProvider
	LLM      driven.LLMService
}

// FallbackStrategy returns the template-only strategy.
func FallbackStrategy() ResponseStrategy {
	return ResponseStrategy{Kind: domain.StrategyFallback}
}

// HostedStrategy returns a strategy backed by llm.
// A nil llm yields the fallback strategy.
func HostedStrategy(provider domain.AIProvider, llm driven.LLMService) ResponseStrategy {
	if llm == nil {
		return FallbackStrategy()
	}
	return ResponseStrategy{Kind: domain.StrategyHosted, Provider: provider, LLM: llm}
}

// IsHosted returns true when replies come from a hosted model.
func (s ResponseStrategy) IsHosted() bool {
	return s.Kind == domain.StrategyHosted && s.LLM != nil
}

// Info describes the strategy for health reporting.
func (s ResponseStrategy) Info() domain.StrategyInfo {
	if !s.IsHosted() {
		return domain.StrategyInfo{Kind: domain.StrategyFallback}
	}
	return domain.StrategyInfo{
		Kind:     domain.StrategyHosted,
		Provider: s.Provider,
		Model:    s.LLM.ModelName(),
	}
}
