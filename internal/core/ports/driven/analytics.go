package driven

import (
	"context"
	"time"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

// AnalyticsStore persists observational counters.
// Writes are serialised by the analytics recorder; implementations need
// not coordinate concurrent writers beyond that.
type AnalyticsStore interface {
	// RecordInteraction adds one chat turn to the aggregates.
	RecordInteraction(ctx context.Context, interaction domain.Interaction) error

	// RecordPageView counts one view of path at the given time.
	RecordPageView(ctx context.Context, path string, at time.Time) error

	// Summary returns the chat analytics as seen at now.
	Summary(ctx context.Context, now time.Time) (*domain.AnalyticsSummary, error)

	// PageViewSummary returns the page-view analytics as seen at now.
	PageViewSummary(ctx context.Context, now time.Time) (*domain.PageViewSummary, error)

	// Close releases resources.
	Close() error
}
