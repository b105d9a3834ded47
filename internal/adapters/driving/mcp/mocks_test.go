package mcp

import (
	"context"
	"strings"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	platforms  []domain.Platform
	categories []domain.CategoryCount
	lastQuery  string
	lastOpts   domain.SearchOptions
}

func (m *mockSearchService) Search(query string, opts domain.SearchOptions) []domain.Platform {
	m.lastQuery = query
	m.lastOpts = opts
	return m.platforms
}

func (m *mockSearchService) Platform(slug string) (*domain.Platform, error) {
	for i := range m.platforms {
		if strings.EqualFold(m.platforms[i].EffectiveSlug(), slug) {
			return &m.platforms[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockSearchService) Categories() []domain.CategoryCount {
	return m.categories
}

func (m *mockSearchService) Count() int {
	return len(m.platforms)
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	reply   *domain.Reply
	err     error
	lastReq domain.ChatRequest
}

func (m *mockChatService) Chat(_ context.Context, req domain.ChatRequest) (*domain.Reply, error) {
	m.lastReq = req
	return m.reply, m.err
}

func (m *mockChatService) Clear(_ context.Context, _ string) error {
	return nil
}

func (m *mockChatService) History(_ context.Context, _ string) ([]domain.Turn, error) {
	return nil, nil
}

func (m *mockChatService) Strategy() domain.StrategyInfo {
	return domain.StrategyInfo{Kind: domain.StrategyFallback}
}

// mockAnalyticsService is a mock implementation of driving.AnalyticsService.
type mockAnalyticsService struct {
	summary *domain.AnalyticsSummary
	err     error
}

func (m *mockAnalyticsService) Track(_, _ string, _ domain.IntentType, _ int) {}

func (m *mockAnalyticsService) TrackPageView(_ string) {}

func (m *mockAnalyticsService) Summary(_ context.Context) (*domain.AnalyticsSummary, error) {
	return m.summary, m.err
}

func (m *mockAnalyticsService) PageViews(_ context.Context) (*domain.PageViewSummary, error) {
	return &domain.PageViewSummary{}, m.err
}

func (m *mockAnalyticsService) Flush(_ context.Context) error {
	return nil
}

func testPlatforms() []domain.Platform {
	return []domain.Platform{
		{ID: "synth-ai", Name: "SynthAI", Description: "Music generation", Category: "audio", Pricing: domain.PricingFreemium, Rating: 4.5, Tags: []string{"music"}},
		{ID: "pixel-forge", Slug: "pixelforge", Name: "PixelForge", Description: "Image generation", Category: "image", Pricing: domain.PricingPaid},
	}
}
