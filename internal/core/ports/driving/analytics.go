package driving

import (
	"context"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

// AnalyticsService records and reports observational counters.
// Tracking never blocks and never fails the caller.
type AnalyticsService interface {
	// Track queues one chat interaction.
	Track(sessionID, message string, intent domain.IntentType, recommendedCount int)

	// TrackPageView queues one page view.
	TrackPageView(path string)

	// Summary returns the chat analytics.
	Summary(ctx context.Context) (*domain.AnalyticsSummary, error)

	// PageViews returns the page-view analytics.
	PageViews(ctx context.Context) (*domain.PageViewSummary, error)

	// Flush waits until queued events have been written.
	Flush(ctx context.Context) error
}
