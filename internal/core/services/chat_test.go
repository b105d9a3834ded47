package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driven/storage/memory"
	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

type chatFixture struct {
	service  *ChatService
	sessions *memory.SessionStore
	tracker  *mockTracker
	metrics  *mockMetrics
}

func newChatFixture(strategy ResponseStrategy) *chatFixture {
	search := newTestSearchService(testPlatforms())
	responder := NewResponder(strategy, NewFallbackComposer(search, domain.SiteSettings{}), 50*time.Millisecond)
	sessions := memory.NewSessionStore()

	f := &chatFixture{
		service:  NewChatService(NewIntentClassifier(), search, sessions, responder),
		sessions: sessions,
		tracker:  &mockTracker{},
		metrics:  &mockMetrics{},
	}
	f.service.SetTracker(f.tracker)
	f.service.SetMetrics(f.metrics)
	return f
}

func TestChatService_Chat_EmptyMessage(t *testing.T) {
	f := newChatFixture(FallbackStrategy())

	_, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "   "})

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.tracker.tracked)
}

func TestChatService_Chat_GeneratesSessionID(t *testing.T) {
	f := newChatFixture(FallbackStrategy())

	reply, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "hello"})

	require.NoError(t, err)
	assert.Len(t, reply.SessionID, 36)
}

func TestChatService_Chat_Fallback(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(FallbackStrategy())

	reply, err := f.service.Chat(ctx, domain.ChatRequest{SessionID: "s1", Message: "I need a tool to make music"})

	require.NoError(t, err)
	assert.Equal(t, "s1", reply.SessionID)
	assert.Equal(t, domain.IntentSearch, reply.Intent)
	assert.False(t, reply.Error)
	assert.Contains(t, reply.Response, "SynthAI")
	require.Len(t, reply.Platforms, 3)
	assert.Equal(t, domain.PlatformRef{Name: "SynthAI", Slug: "synth-ai", Category: "audio"}, reply.Platforms[2])

	turns, err := f.sessions.Get(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, domain.RoleUser, turns[0].Role)
	assert.Equal(t, domain.RoleAssistant, turns[1].Role)

	require.Len(t, f.tracker.tracked, 1)
	assert.Equal(t, 3, f.tracker.tracked[0].RecommendedCount)
	assert.Equal(t, 1, f.metrics.chats)
}

func TestChatService_Chat_Submit(t *testing.T) {
	f := newChatFixture(FallbackStrategy())

	reply, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "I want to submit my platform"})

	require.NoError(t, err)
	assert.Equal(t, domain.IntentSubmit, reply.Intent)
	assert.Contains(t, reply.Response, "/submit")
	assert.Empty(t, reply.Platforms)
}

func TestChatService_Chat_HostedSuccess(t *testing.T) {
	ctx := context.Background()
	llm := &mockLLMService{reply: "SynthAI is a great fit."}
	f := newChatFixture(HostedStrategy(domain.AIProviderGemini, llm))

	_, err := f.service.Chat(ctx, domain.ChatRequest{SessionID: "s1", Message: "hello there"})
	require.NoError(t, err)

	reply, err := f.service.Chat(ctx, domain.ChatRequest{SessionID: "s1", Message: "find me music tools"})
	require.NoError(t, err)

	assert.Equal(t, "SynthAI is a great fit.", reply.Response)
	assert.False(t, reply.Error)
	assert.Equal(t, []domain.PlatformRef{{Name: "SynthAI", Slug: "synth-ai", Category: "audio"}}, reply.Platforms)

	messages := llm.lastMessages()
	require.Len(t, messages, 4)
	assert.Equal(t, "hello there", messages[1].Content)
	assert.Contains(t, messages[3].Content, "Candidate platforms")

	turns, _ := f.sessions.Get(ctx, "s1")
	assert.Len(t, turns, 4)
}

func TestChatService_Chat_HostedFailureNeverEscapes(t *testing.T) {
	kinds := []domain.ProviderErrorKind{
		domain.ProviderErrorNetwork,
		domain.ProviderErrorAuth,
		domain.ProviderErrorQuota,
		domain.ProviderErrorMalformed,
		domain.ProviderErrorUpstream,
	}

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			ctx := context.Background()
			llm := &mockLLMService{err: domain.NewProviderError(domain.AIProviderOpenAI, kind, errors.New("failed"))}
			f := newChatFixture(HostedStrategy(domain.AIProviderOpenAI, llm))

			reply, err := f.service.Chat(ctx, domain.ChatRequest{SessionID: "s1", Message: "find music tools"})

			require.NoError(t, err)
			assert.True(t, reply.Error)
			assert.NotEmpty(t, reply.Message)
			assert.Equal(t, troubleApology, reply.Response)
			assert.Equal(t, []domain.ProviderErrorKind{kind}, f.metrics.errors)

			turns, _ := f.sessions.Get(ctx, "s1")
			require.Len(t, turns, 1)
			assert.Equal(t, domain.RoleUser, turns[0].Role)
			assert.Len(t, f.tracker.tracked, 1)
		})
	}
}

func TestChatService_Chat_TimeoutFallsBack(t *testing.T) {
	llm := &mockLLMService{block: true}
	f := newChatFixture(HostedStrategy(domain.AIProviderAnthropic, llm))

	reply, err := f.service.Chat(context.Background(), domain.ChatRequest{Message: "I need a tool to make music"})

	require.NoError(t, err)
	assert.True(t, reply.Error)
	assert.Equal(t, timeoutApology, reply.Message)
	assert.Contains(t, reply.Response, "SynthAI")
	assert.Len(t, reply.Platforms, 3)
	assert.Equal(t, []domain.ProviderErrorKind{domain.ProviderErrorTimeout}, f.metrics.errors)
}

func TestChatService_Clear(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(FallbackStrategy())
	_, err := f.service.Chat(ctx, domain.ChatRequest{SessionID: "s1", Message: "hello"})
	require.NoError(t, err)

	require.NoError(t, f.service.Clear(ctx, "s1"))
	require.NoError(t, f.service.Clear(ctx, "unknown"))

	turns, err := f.service.History(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, turns)

	assert.ErrorIs(t, f.service.Clear(ctx, ""), domain.ErrInvalidInput)
}

func TestChatService_HistoryStaysBounded(t *testing.T) {
	ctx := context.Background()
	f := newChatFixture(FallbackStrategy())

	for i := 0; i < 12; i++ {
		_, err := f.service.Chat(ctx, domain.ChatRequest{SessionID: "s1", Message: "hello"})
		require.NoError(t, err)
	}

	turns, err := f.service.History(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, turns, domain.MaxSessionTurns)
}

func TestChatService_Strategy(t *testing.T) {
	assert.Equal(t, domain.StrategyFallback, newChatFixture(FallbackStrategy()).service.Strategy().Kind)

	hosted := newChatFixture(HostedStrategy(domain.AIProviderGemini, &mockLLMService{}))
	assert.Equal(t, domain.AIProviderGemini, hosted.service.Strategy().Provider)
}
