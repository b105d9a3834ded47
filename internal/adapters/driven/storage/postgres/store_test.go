package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

func TestPoolConfig(t *testing.T) {
	t.Run("empty url is invalid", func(t *testing.T) {
		_, err := PoolConfig(Config{})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("malformed url is invalid", func(t *testing.T) {
		_, err := PoolConfig(Config{URL: "postgres://user@host:notaport/db"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("pool limits are applied", func(t *testing.T) {
		cfg, err := PoolConfig(Config{URL: "postgres://user:pw@localhost:5432/aidir", MaxConns: 7, MinConns: 2})
		require.NoError(t, err)
		assert.Equal(t, int32(7), cfg.MaxConns)
		assert.Equal(t, int32(2), cfg.MinConns)
		assert.Equal(t, "aidir", cfg.ConnConfig.Database)
	})
}

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, "001_analytics.sql", entries[0].Name())
}

// setupStore connects to AIDIR_TEST_DATABASE_URL and resets the analytics tables.
func setupStore(t *testing.T) *Store {
	t.Helper()
	url := os.Getenv("AIDIR_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("AIDIR_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	store, err := NewStore(ctx, Config{URL: url})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	_, err = store.pool.Exec(ctx, `
		TRUNCATE chat_sessions, chat_daily_sessions, chat_daily_intents, chat_intents,
			chat_keywords, chat_interactions, page_views;
		UPDATE chat_totals SET messages = 0, platforms_recommended = 0;
		UPDATE page_view_totals SET views = 0;`)
	require.NoError(t, err)
	return store
}

func TestStore_Integration(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.RecordInteraction(ctx, domain.NewInteraction(now.AddDate(0, 0, -1), "s1", "music generation", domain.IntentSearch, 3)))
	require.NoError(t, store.RecordInteraction(ctx, domain.NewInteraction(now, "s1", "more music", domain.IntentSearch, 1)))
	require.NoError(t, store.RecordInteraction(ctx, domain.NewInteraction(now, "s2", "submit my tool", domain.IntentSubmit, 0)))

	summary, err := store.Summary(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, domain.Totals{Messages: 3, Sessions: 2, PlatformsRecommended: 4}, summary.Totals)
	assert.Equal(t, 2, summary.Today.Messages)
	assert.Equal(t, 1, summary.Last7Days[5].Messages)
	assert.Equal(t, domain.KeywordCount{Keyword: "music", Count: 2}, summary.TopKeywords[0])
	require.Len(t, summary.RecentInteractions, 3)
	assert.Equal(t, "s2", summary.RecentInteractions[0].SessionID)

	require.NoError(t, store.RecordPageView(ctx, "/", now))
	require.NoError(t, store.RecordPageView(ctx, "/old", now.AddDate(0, 0, -40)))

	views, err := store.PageViewSummary(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 2, views.Total)
	assert.Equal(t, 1, views.Today)
	assert.Equal(t, []domain.PathCount{{Path: "/", Views: 1}}, views.TopPaths)
}

func TestStore_InteractionLogIsBounded(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	for i := 0; i < domain.MaxRecentInteractions+2; i++ {
		require.NoError(t, store.RecordInteraction(ctx, domain.NewInteraction(now, fmt.Sprintf("s%d", i), "hi", domain.IntentQuestion, 0)))
	}

	var n int
	require.NoError(t, store.pool.QueryRow(ctx, `SELECT COUNT(*) FROM chat_interactions`).Scan(&n))
	assert.Equal(t, domain.MaxRecentInteractions, n)
}
