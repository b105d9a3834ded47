package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driven"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driving"
	"github.com/VladSF415/ai-platforms-directory/internal/logger"
)

// Ensure ChatService implements the interface.
var _ driving.ChatService = (*ChatService)(nil)

// Apology texts shown when the hosted model fails.
const (
	troubleApology = "Sorry, I'm having trouble processing your request right now. Please try again in a moment."
	timeoutApology = "Sorry, the assistant took too long to answer, so here are suggestions straight from the directory."
)

// InteractionTracker observes handled chat turns.
type InteractionTracker interface {
	Track(sessionID, message string, intent domain.IntentType, recommendedCount int)
}

// ChatService is the conversational entry point. It classifies the
// message, gathers candidate platforms, asks the responder for a reply
// and keeps the session history.
type ChatService struct {
	classifier *IntentClassifier
	search     *SearchService
	sessions   driven.SessionStore
	responder  *Responder
	tracker    InteractionTracker
	metrics    driven.ChatMetrics
}

// NewChatService creates a new chat service.
func NewChatService(
	classifier *IntentClassifier,
	search *SearchService,
	sessions driven.SessionStore,
	responder *Responder,
) *ChatService {
	return &ChatService{
		classifier: classifier,
		search:     search,
		sessions:   sessions,
		responder:  responder,
	}
}

// SetTracker sets the analytics tracker. Optional.
func (s *ChatService) SetTracker(tracker InteractionTracker) {
	s.tracker = tracker
}

// SetMetrics sets the chat metrics sink. Optional.
func (s *ChatService) SetMetrics(metrics driven.ChatMetrics) {
	s.metrics = metrics
}

// Chat handles one user message.
func (s *ChatService) Chat(ctx context.Context, req domain.ChatRequest) (*domain.Reply, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, fmt.Errorf("message is required: %w", domain.ErrInvalidInput)
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if sessionID == "" {
		sessionID = uuid.New().String()
		logger.Debug("New session %s", sessionID)
	}

	logger.Section("Chat Turn")
	intent := s.classifier.Classify(message)

	strategy := s.responder.Strategy()
	var candidates []domain.Platform
	if strategy.IsHosted() && intent.Type.IsSearchLike() {
		candidates = s.search.Search(message, domain.SearchOptions{})
	}

	history, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		logger.Warn("Load session %s: %v", sessionID, err)
		history = nil
	}
	s.appendTurn(ctx, sessionID, domain.RoleUser, message)

	reply := &domain.Reply{SessionID: sessionID, Intent: intent.Type}

	composition, err := s.responder.Respond(ctx, RespondInput{
		Message:    message,
		Intent:     intent,
		History:    history,
		Candidates: candidates,
	})
	if err != nil {
		kind := domain.ProviderErrorKindOf(err)
		logger.Error("Hosted reply failed (%s): %v", kind, err)
		if s.metrics != nil {
			s.metrics.ObserveChatError(kind)
		}

		reply.Error = true
		switch kind {
		case domain.ProviderErrorTimeout:
			fallback := s.responder.Fallback(message, intent.Type)
			reply.Response = fallback.Text
			reply.Platforms = refs(fallback.Platforms)
			reply.Message = timeoutApology
		default:
			reply.Response = troubleApology
			reply.Message = troubleApology
		}
	} else {
		reply.Response = composition.Text
		reply.Platforms = refs(composition.Platforms)
		s.appendTurn(ctx, sessionID, domain.RoleAssistant, composition.Text)
	}

	if s.tracker != nil {
		s.tracker.Track(sessionID, message, intent.Type, len(reply.Platforms))
	}
	if s.metrics != nil {
		s.metrics.ObserveChat(intent.Type, strategy.Info().Kind)
	}

	return reply, nil
}

// Clear drops a session's history.
func (s *ChatService) Clear(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required: %w", domain.ErrInvalidInput)
	}
	if err := s.sessions.Clear(ctx, sessionID); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// History returns a session's turns, oldest first.
func (s *ChatService) History(ctx context.Context, sessionID string) ([]domain.Turn, error) {
	turns, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return turns, nil
}

// Strategy describes the response strategy chosen at startup.
func (s *ChatService) Strategy() domain.StrategyInfo {
	return s.responder.Strategy().Info()
}

func (s *ChatService) appendTurn(ctx context.Context, sessionID string, role domain.Role, content string) {
	if err := s.sessions.Append(ctx, sessionID, domain.Turn{Role: role, Content: content}); err != nil {
		logger.Warn("Append %s turn to session %s: %v", role, sessionID, err)
	}
}

func refs(platforms []domain.Platform) []domain.PlatformRef {
	if len(platforms) == 0 {
		return nil
	}
	out := make([]domain.PlatformRef, len(platforms))
	for i := range platforms {
		out[i] = platforms[i].Ref()
	}
	return out
}
