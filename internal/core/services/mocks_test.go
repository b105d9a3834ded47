package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driven/storage/memory"
	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	mu       sync.Mutex
	reply    string
	err      error
	block    bool
	calls    int
	messages []driven.ChatMessage
}

func (m *mockLLMService) Chat(ctx context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	m.calls++
	m.messages = messages
	m.mu.Unlock()

	if m.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.reply, m.err
}

func (m *mockLLMService) ModelName() string { return "mock-model" }

func (m *mockLLMService) Ping(_ context.Context) error { return nil }

func (m *mockLLMService) Close() error { return nil }

func (m *mockLLMService) lastMessages() []driven.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.messages
}

// mockTracker implements InteractionTracker for testing.
type mockTracker struct {
	mu      sync.Mutex
	tracked []domain.Interaction
}

func (m *mockTracker) Track(sessionID, message string, intent domain.IntentType, recommended int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tracked = append(m.tracked, domain.NewInteraction(time.Now(), sessionID, message, intent, recommended))
}

// mockMetrics implements driven.ChatMetrics for testing.
type mockMetrics struct {
	chats  int
	errors []domain.ProviderErrorKind
}

func (m *mockMetrics) ObserveChat(_ domain.IntentType, _ domain.StrategyKind) { m.chats++ }

func (m *mockMetrics) ObserveChatError(kind domain.ProviderErrorKind) {
	m.errors = append(m.errors, kind)
}

// mockAnalyticsStore implements driven.AnalyticsStore for testing.
type mockAnalyticsStore struct {
	mu           sync.Mutex
	interactions []domain.Interaction
	pageViews    []string
	recordErr    error
	delay        time.Duration
	closed       bool
}

func (m *mockAnalyticsStore) RecordInteraction(_ context.Context, interaction domain.Interaction) error {
	if m.delay > 0 {
		time.Sleep(m.delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return m.recordErr
	}
	m.interactions = append(m.interactions, interaction)
	return nil
}

func (m *mockAnalyticsStore) RecordPageView(_ context.Context, path string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return m.recordErr
	}
	m.pageViews = append(m.pageViews, path)
	return nil
}

func (m *mockAnalyticsStore) Summary(_ context.Context, _ time.Time) (*domain.AnalyticsSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return &domain.AnalyticsSummary{Totals: domain.Totals{Messages: len(m.interactions)}}, nil
}

func (m *mockAnalyticsStore) PageViewSummary(_ context.Context, _ time.Time) (*domain.PageViewSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return nil, errors.New("unreachable")
	}
	return &domain.PageViewSummary{Total: len(m.pageViews)}, nil
}

func (m *mockAnalyticsStore) Close() error {
	m.closed = true
	return nil
}

func (m *mockAnalyticsStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.interactions)
}

// --- Fixtures ---

func testPlatforms() []domain.Platform {
	return []domain.Platform{
		{
			ID: "synth-ai", Name: "SynthAI", Description: "Compose tracks with AI",
			Category: "audio", Tags: []string{"audio", "music-generation"},
			Pricing: domain.PricingFreemium, Rating: 4.2,
		},
		{
			ID: "pixelmind", Name: "PixelMind", Description: "Generate images from prompts",
			Category: "image", Tags: []string{"art", "image-generation"},
			Pricing: domain.PricingPaid, Rating: 4.8, Featured: true,
		},
		{
			ID: "codepal", Name: "CodePal", Description: "Pair programmer in your editor",
			Category: "code", Tags: []string{"programming", "ide"},
			Pricing: domain.PricingFree, Rating: 4.5,
		},
		{
			ID: "beatbox", Name: "BeatBox", Description: "Loop and beat maker",
			Category: "audio", Tags: []string{"music", "loops"},
			Pricing: "Free", Rating: 3.9, Verified: true,
		},
		{
			ID: "voicely", Name: "Voicely", Description: "Natural text to speech",
			Category: "audio", Tags: []string{"speech"},
			Pricing: domain.PricingPaid, Featured: true,
		},
	}
}

func newTestSearchService(platforms []domain.Platform) *SearchService {
	store, err := memory.NewPlatformStore(platforms)
	if err != nil {
		panic(err)
	}
	return NewSearchService(store)
}
