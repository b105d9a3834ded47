package app

import (
	"context"
	"time"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driven"
)

var _ driven.AnalyticsStore = discardStore{}

// discardStore drops every event. Used when no backend can be opened.
type discardStore struct{}

func (discardStore) RecordInteraction(context.Context, domain.Interaction) error { return nil }

func (discardStore) RecordPageView(context.Context, string, time.Time) error { return nil }

func (discardStore) Summary(context.Context, time.Time) (*domain.AnalyticsSummary, error) {
	return nil, domain.ErrAnalyticsUnavailable
}

func (discardStore) PageViewSummary(context.Context, time.Time) (*domain.PageViewSummary, error) {
	return nil, domain.ErrAnalyticsUnavailable
}

func (discardStore) Close() error { return nil }
