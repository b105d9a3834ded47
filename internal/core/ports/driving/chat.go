package driving

import (
	"context"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

// ChatService is the conversational entry point.
type ChatService interface {
	// Chat handles one user message. Provider failures never surface as
	// errors; they are reported through Reply.Error and Reply.Message.
	// The only error is domain.ErrInvalidInput for an empty message.
	Chat(ctx context.Context, req domain.ChatRequest) (*domain.Reply, error)

	// Clear drops a session's history. Unknown sessions are a no-op.
	Clear(ctx context.Context, sessionID string) error

	// History returns a session's turns, oldest first.
	History(ctx context.Context, sessionID string) ([]domain.Turn, error)

	// Strategy describes the response strategy chosen at startup.
	Strategy() domain.StrategyInfo
}
