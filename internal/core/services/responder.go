package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driven"
	"github.com/VladSF415/ai-platforms-directory/internal/logger"
)

const (
	// maxReplyTokens bounds hosted replies.
	maxReplyTokens = 600

	// maxRecommendations matches the cap stated in the system prompt.
	maxRecommendations = 3
)

// RespondInput is everything a reply is built from.
type RespondInput struct {
	Message    string
	Intent     domain.Intent
	History    []domain.Turn
	Candidates []domain.Platform
}

// Responder produces replies using the strategy chosen at startup.
type Responder struct {
	strategy ResponseStrategy
	fallback *FallbackComposer
	prompts  driven.PromptStore
	timeout  time.Duration
}

// NewResponder creates a new responder.
// A non-positive timeout uses domain.DefaultLLMTimeout.
func NewResponder(strategy ResponseStrategy, fallback *FallbackComposer, timeout time.Duration) *Responder {
	if timeout <= 0 {
		timeout = domain.DefaultLLMTimeout
	}
	return &Responder{
		strategy: strategy,
		fallback: fallback,
		timeout:  timeout,
	}
}

// SetPromptStore sets the prompt store for loading the system prompt.
func (r *Responder) SetPromptStore(store driven.PromptStore) {
	r.prompts = store
}

// Strategy returns the strategy chosen at startup.
func (r *Responder) Strategy() ResponseStrategy {
	return r.strategy
}

// Respond builds a reply. The fallback strategy never fails. The hosted
// strategy returns a *domain.ProviderError on failure.
func (r *Responder) Respond(ctx context.Context, in RespondInput) (Composition, error) {
	if !r.strategy.IsHosted() {
		logger.Debug("Composing fallback reply")
		return r.Fallback(in.Message, in.Intent.Type), nil
	}

	callCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	messages := r.buildMessages(in)
	logger.Debug("Calling %s with %d messages (timeout %s)", r.strategy.Provider, len(messages), r.timeout)

	start := time.Now()
	text, err := r.strategy.LLM.Chat(callCtx, messages, driven.ChatOptions{MaxTokens: maxReplyTokens})
	logger.Debug("Hosted call took %s", time.Since(start))
	if err != nil {
		return Composition{}, r.classify(callCtx, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Composition{}, domain.NewProviderError(r.strategy.Provider, domain.ProviderErrorMalformed,
			errors.New("empty reply"))
	}

	return Composition{Text: text, Platforms: mentioned(text, in.Candidates)}, nil
}

// mentioned returns the candidates the reply names, in candidate order,
// capped at maxRecommendations.
func mentioned(text string, candidates []domain.Platform) []domain.Platform {
	lower := strings.ToLower(text)
	var out []domain.Platform
	for _, p := range candidates {
		if len(out) == maxRecommendations {
			break
		}
		name := strings.ToLower(strings.TrimSpace(p.Name))
		if name != "" && strings.Contains(lower, name) {
			out = append(out, p)
		}
	}
	return out
}

// Fallback returns the deterministic reply for message.
func (r *Responder) Fallback(message string, intent domain.IntentType) Composition {
	return r.fallback.Compose(message, intent)
}

// classify makes sure err carries a failure kind. Deadline errors that an
// adapter did not classify become timeouts.
func (r *Responder) classify(ctx context.Context, err error) error {
	var pe *domain.ProviderError
	if errors.As(err, &pe) {
		return err
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return domain.NewProviderError(r.strategy.Provider, domain.ProviderErrorTimeout, err)
	}
	return domain.NewProviderError(r.strategy.Provider, domain.ProviderErrorUpstream, err)
}

// buildMessages assembles system prompt, trailing history and the user
// message with its candidate block.
func (r *Responder) buildMessages(in RespondInput) []driven.ChatMessage {
	history := domain.TrimTurns(in.History)

	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{Role: driven.RoleSystem, Content: r.systemPrompt()})
	for _, turn := range history {
		messages = append(messages, driven.ChatMessage{Role: string(turn.Role), Content: turn.Content})
	}

	content := in.Message
	if in.Intent.Type.IsSearchLike() && len(in.Candidates) > 0 {
		content += renderCandidates(in.Candidates)
	}
	messages = append(messages, driven.ChatMessage{Role: driven.RoleUser, Content: content})

	return messages
}

func (r *Responder) systemPrompt() string {
	if r.prompts == nil {
		return driven.DefaultChatSystemPrompt
	}
	prompt, err := r.prompts.Load(driven.PromptChatSystem)
	if err != nil || strings.TrimSpace(prompt) == "" {
		logger.Debug("Using default system prompt: %v", err)
		return driven.DefaultChatSystemPrompt
	}
	return prompt
}

// renderCandidates formats the platforms the model may recommend.
func renderCandidates(platforms []domain.Platform) string {
	var b strings.Builder
	b.WriteString("\n\nCandidate platforms from the directory:\n")
	for i := range platforms {
		p := &platforms[i]
		fmt.Fprintf(&b, "%d. %s - %s (Category: %s, Pricing: %s)\n",
			i+1, p.Name, previewDescription(p.Description), p.Category, pricingLabel(p.Pricing))
	}
	return b.String()
}
