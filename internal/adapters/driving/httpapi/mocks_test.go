package httpapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

// mockChatService records calls and returns canned replies.
type mockChatService struct {
	mu       sync.Mutex
	requests []domain.ChatRequest
	cleared  []string
	reply    *domain.Reply
	err      error
}

func (m *mockChatService) Chat(_ context.Context, req domain.ChatRequest) (*domain.Reply, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if m.reply != nil {
		return m.reply, nil
	}
	return &domain.Reply{SessionID: "s-1", Response: "hello", Intent: domain.IntentSearch}, nil
}

func (m *mockChatService) Clear(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return domain.ErrInvalidInput
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleared = append(m.cleared, sessionID)
	return nil
}

func (m *mockChatService) History(_ context.Context, _ string) ([]domain.Turn, error) {
	return nil, nil
}

func (m *mockChatService) Strategy() domain.StrategyInfo {
	return domain.StrategyInfo{Kind: domain.StrategyFallback}
}

// mockAnalytics records page views.
type mockAnalytics struct {
	mu         sync.Mutex
	pageViews  []string
	summaryErr error
}

func (m *mockAnalytics) Track(string, string, domain.IntentType, int) {}

func (m *mockAnalytics) TrackPageView(path string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pageViews = append(m.pageViews, path)
}

func (m *mockAnalytics) Summary(context.Context) (*domain.AnalyticsSummary, error) {
	if m.summaryErr != nil {
		return nil, m.summaryErr
	}
	return &domain.AnalyticsSummary{Totals: domain.Totals{Messages: 3}}, nil
}

func (m *mockAnalytics) PageViews(context.Context) (*domain.PageViewSummary, error) {
	return &domain.PageViewSummary{Total: 7}, nil
}

func (m *mockAnalytics) Flush(context.Context) error { return nil }

// mockMetrics counts recorded requests.
type mockMetrics struct {
	mu     sync.Mutex
	routes []string
}

func (m *mockMetrics) RecordHTTPRequest(_ string, route string, _ int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.routes = append(m.routes, route)
}

func (m *mockMetrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("aidir_up 1\n"))
	})
}
