package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := NewStore(filepath.Join(t.TempDir(), "data", "analytics.db"))
	require.NoError(t, err)
	require.NotNil(t, store)

	t.Cleanup(func() {
		assert.NoError(t, store.Close())
	})
	return store
}

func TestNewStore_RequiresPath(t *testing.T) {
	_, err := NewStore("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestNewStore_MigrationsAreIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analytics.db")

	first, err := NewStore(path)
	require.NoError(t, err)
	require.NoError(t, first.RecordPageView(context.Background(), "/", time.Now()))
	require.NoError(t, first.Close())

	second, err := NewStore(path)
	require.NoError(t, err)
	defer second.Close()

	var version int
	require.NoError(t, second.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version))
	assert.Equal(t, 1, version)

	summary, err := second.PageViewSummary(context.Background(), time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, path, second.Path())
}

func TestStore_Summary(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	interactions := []domain.Interaction{
		domain.NewInteraction(now.AddDate(0, 0, -2), "s1", "music generation tools", domain.IntentSearch, 3),
		domain.NewInteraction(now, "s1", "more music please", domain.IntentSearch, 2),
		domain.NewInteraction(now, "s2", "how do I submit", domain.IntentSubmit, 0),
	}
	for _, in := range interactions {
		require.NoError(t, store.RecordInteraction(ctx, in))
	}

	summary, err := store.Summary(ctx, now)
	require.NoError(t, err)

	assert.Equal(t, domain.Totals{Messages: 3, Sessions: 2, PlatformsRecommended: 5}, summary.Totals)
	assert.Equal(t, 2, summary.Today.Messages)
	assert.Equal(t, 2, summary.Today.Sessions)
	require.Len(t, summary.Last7Days, domain.SummaryDays)
	assert.Equal(t, 1, summary.Last7Days[4].Messages)
	assert.Equal(t, 2, summary.IntentDistribution[domain.IntentSearch])
	require.NotEmpty(t, summary.TopKeywords)
	assert.Equal(t, domain.KeywordCount{Keyword: "music", Count: 2}, summary.TopKeywords[0])
	require.Len(t, summary.RecentInteractions, 3)
	assert.Equal(t, "s2", summary.RecentInteractions[0].SessionID)
	assert.True(t, summary.RecentInteractions[0].Timestamp.Equal(now))
}

func TestStore_InteractionLogIsBounded(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	now := time.Now().UTC()

	for i := 0; i < domain.MaxRecentInteractions+3; i++ {
		in := domain.NewInteraction(now, fmt.Sprintf("s%d", i), "hi", domain.IntentQuestion, 0)
		require.NoError(t, store.RecordInteraction(ctx, in))
	}

	var n int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM chat_interactions").Scan(&n))
	assert.Equal(t, domain.MaxRecentInteractions, n)

	summary, err := store.Summary(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxRecentInteractions+3, summary.Totals.Messages)
}

func TestStore_PageViews(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)
	now := time.Date(2026, 5, 31, 9, 0, 0, 0, time.UTC)

	require.NoError(t, store.RecordPageView(ctx, "/old", now.AddDate(0, 0, -40)))
	require.NoError(t, store.RecordPageView(ctx, "/", now))
	require.NoError(t, store.RecordPageView(ctx, "/", now))
	require.NoError(t, store.RecordPageView(ctx, "/submit", now.AddDate(0, 0, -1)))

	var retained int
	require.NoError(t, store.db.QueryRow("SELECT COUNT(*) FROM page_views WHERE path = '/old'").Scan(&retained))
	assert.Zero(t, retained)

	summary, err := store.PageViewSummary(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 2, summary.Today)
	assert.Len(t, summary.Days, domain.PageViewRetentionDays)
	assert.Equal(t, 1, summary.Days[len(summary.Days)-2].Views)
	assert.Equal(t, []domain.PathCount{{Path: "/", Views: 2}, {Path: "/submit", Views: 1}}, summary.TopPaths)
}
