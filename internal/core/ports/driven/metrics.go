package driven

import "github.com/VladSF415/ai-platforms-directory/internal/core/domain"

// ChatMetrics receives chat counters. Optional; nil disables metrics.
type ChatMetrics interface {
	// ObserveChat counts one handled message.
	ObserveChat(intent domain.IntentType, strategy domain.StrategyKind)

	// ObserveChatError counts one failed hosted call.
	ObserveChatError(kind domain.ProviderErrorKind)
}
