package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driving/tui/messages"
	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

// mockChatService implements driving.ChatService for testing.
type mockChatService struct {
	sessions []string
}

func (m *mockChatService) Chat(_ context.Context, req domain.ChatRequest) (*domain.Reply, error) {
	m.sessions = append(m.sessions, req.SessionID)
	return &domain.Reply{SessionID: "s-9", Response: "Hi there"}, nil
}

func (m *mockChatService) Clear(context.Context, string) error { return nil }

func (m *mockChatService) History(context.Context, string) ([]domain.Turn, error) { return nil, nil }

func (m *mockChatService) Strategy() domain.StrategyInfo {
	return domain.StrategyInfo{Kind: domain.StrategyFallback}
}

func TestNewApp_ValidatesPorts(t *testing.T) {
	_, err := NewApp(nil)
	assert.ErrorIs(t, err, ErrInvalidPorts)

	_, err = NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingChatService)
}

func TestApp_InitialView(t *testing.T) {
	app, err := NewApp(&Ports{Chat: &mockChatService{}})
	require.NoError(t, err)

	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
	assert.NotNil(t, app.Init())
}

func TestApp_WindowSize(t *testing.T) {
	app, err := NewApp(&Ports{Chat: &mockChatService{}})
	require.NoError(t, err)

	model, cmd := app.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	assert.Nil(t, cmd)
	assert.True(t, model.(*App).Ready())
	assert.Contains(t, model.View(), "AI Platform Directory")
}

func TestApp_QuitMessage(t *testing.T) {
	app, err := NewApp(&Ports{Chat: &mockChatService{}})
	require.NoError(t, err)

	_, cmd := app.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_ResumesSession(t *testing.T) {
	svc := &mockChatService{}
	app, err := NewApp(&Ports{Chat: svc})
	require.NoError(t, err)
	app.WithSession("existing").WithContext(context.Background())
	app.SetDimensions(100, 30)

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("hello")})
	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Equal(t, []string{"existing"}, svc.sessions)
	assert.Equal(t, "s-9", app.SessionID())
}
