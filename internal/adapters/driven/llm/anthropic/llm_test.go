package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *LLMService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewLLMService(Config{APIKey: "sk-ant", BaseURL: server.URL})
	require.NoError(t, err)
	return svc
}

func TestLLMService_ChatLiftsSystemPrompt(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "sk-ant", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var req messagesRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "be helpful", req.System)
		assert.Equal(t, defaultMaxTokens, req.MaxTokens)
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "assistant", req.Messages[1].Role)

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Hello "},{"type":"text","text":"there"}]}`))
	})

	reply, err := svc.Chat(context.Background(), []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: "be helpful"},
		{Role: driven.RoleUser, Content: "hi"},
		{Role: driven.RoleAssistant, Content: "hello"},
	}, driven.ChatOptions{})

	require.NoError(t, err)
	assert.Equal(t, "Hello there", reply)
}

func TestLLMService_ChatErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected domain.ProviderErrorKind
	}{
		{"forbidden", http.StatusForbidden, `{"error":{"message":"no"}}`, domain.ProviderErrorAuth},
		{"overloaded", 529, `{"error":{"message":"overloaded"}}`, domain.ProviderErrorUpstream},
		{"empty content", http.StatusOK, `{"content":[]}`, domain.ProviderErrorMalformed},
		{"error body", http.StatusOK, `{"error":{"type":"x","message":"bad"}}`, domain.ProviderErrorUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := svc.Chat(context.Background(), []driven.ChatMessage{{Role: driven.RoleUser, Content: "hi"}}, driven.ChatOptions{})

			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrProviderFailed)
			assert.Equal(t, tt.expected, domain.ProviderErrorKindOf(err))
		})
	}
}

func TestNewLLMService_RequiresKey(t *testing.T) {
	_, err := NewLLMService(Config{})
	assert.Error(t, err)
}
