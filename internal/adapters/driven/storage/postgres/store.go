package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.AnalyticsStore = (*Store)(nil)

// Config holds PostgreSQL connection configuration.
type Config struct {
	URL      string
	MaxConns int32
	MinConns int32
}

// Store is a PostgreSQL analytics store.
type Store struct {
	pool *pgxpool.Pool
}

// PoolConfig parses cfg into a pgxpool configuration.
func PoolConfig(cfg Config) (*pgxpool.Config, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: database url is required", domain.ErrInvalidInput)
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("%w: parse pg config: %w", domain.ErrInvalidInput, err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	return poolCfg, nil
}

// NewStore connects to PostgreSQL and applies migrations.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	poolCfg, err := PoolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pg pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: ping pg: %w", domain.ErrAnalyticsUnavailable, err)
	}

	if err := NewMigrator(pool).Migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close closes the connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// RecordInteraction adds one chat turn to the aggregates.
func (s *Store) RecordInteraction(ctx context.Context, in domain.Interaction) error {
	day := in.Timestamp.UTC().Truncate(24 * time.Hour)
	cutoff, err := time.Parse(domain.DateLayout, domain.RetentionCutoff(in.Timestamp))
	if err != nil {
		return fmt.Errorf("retention cutoff: %w", err)
	}
	intent := string(in.Intent)

	batch := &pgx.Batch{}
	batch.Queue(`UPDATE chat_totals SET messages = messages + 1,
		platforms_recommended = platforms_recommended + $1 WHERE id = 1`, in.RecommendedCount)
	batch.Queue(`INSERT INTO chat_sessions (session_id, first_seen) VALUES ($1, $2)
		ON CONFLICT (session_id) DO NOTHING`, in.SessionID, in.Timestamp)
	batch.Queue(`INSERT INTO chat_daily_sessions (day, session_id) VALUES ($1, $2)
		ON CONFLICT (day, session_id) DO NOTHING`, day, in.SessionID)
	batch.Queue(`INSERT INTO chat_daily_intents (day, intent, count) VALUES ($1, $2, 1)
		ON CONFLICT (day, intent) DO UPDATE SET count = chat_daily_intents.count + 1`, day, intent)
	batch.Queue(`INSERT INTO chat_intents (intent, count) VALUES ($1, 1)
		ON CONFLICT (intent) DO UPDATE SET count = chat_intents.count + 1`, intent)
	for _, kw := range domain.ExtractKeywords(in.Message) {
		batch.Queue(`INSERT INTO chat_keywords (keyword, count) VALUES ($1, 1)
			ON CONFLICT (keyword) DO UPDATE SET count = chat_keywords.count + 1`, kw)
	}
	batch.Queue(`INSERT INTO chat_interactions (timestamp, session_id, message, intent, recommended_count)
		VALUES ($1, $2, $3, $4, $5)`, in.Timestamp, in.SessionID, in.Message, intent, in.RecommendedCount)
	batch.Queue(`DELETE FROM chat_interactions WHERE id <= (
		SELECT id FROM chat_interactions ORDER BY id DESC LIMIT 1 OFFSET $1)`, domain.MaxRecentInteractions)
	batch.Queue(`DELETE FROM chat_daily_sessions WHERE day < $1`, cutoff)
	batch.Queue(`DELETE FROM chat_daily_intents WHERE day < $1`, cutoff)

	return s.sendBatch(ctx, batch, "record interaction")
}

// RecordPageView counts one view of path.
func (s *Store) RecordPageView(ctx context.Context, path string, at time.Time) error {
	day := at.UTC().Truncate(24 * time.Hour)
	cutoff, err := time.Parse(domain.DateLayout, domain.RetentionCutoff(at))
	if err != nil {
		return fmt.Errorf("retention cutoff: %w", err)
	}

	batch := &pgx.Batch{}
	batch.Queue(`INSERT INTO page_views (day, path, views) VALUES ($1, $2, 1)
		ON CONFLICT (day, path) DO UPDATE SET views = page_views.views + 1`, day, path)
	batch.Queue(`UPDATE page_view_totals SET views = views + 1 WHERE id = 1`)
	batch.Queue(`DELETE FROM page_views WHERE day < $1`, cutoff)

	return s.sendBatch(ctx, batch, "record page view")
}

// sendBatch runs batch atomically in one transaction.
func (s *Store) sendBatch(ctx context.Context, batch *pgx.Batch, op string) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

// Summary returns the chat analytics as seen at now.
func (s *Store) Summary(ctx context.Context, now time.Time) (*domain.AnalyticsSummary, error) {
	summary := &domain.AnalyticsSummary{
		IntentDistribution: map[domain.IntentType]int{},
		TopKeywords:        []domain.KeywordCount{},
		RecentInteractions: []domain.Interaction{},
	}

	err := s.pool.QueryRow(ctx, `
		SELECT t.messages, t.platforms_recommended, (SELECT COUNT(*) FROM chat_sessions)
		FROM chat_totals t WHERE t.id = 1`,
	).Scan(&summary.Totals.Messages, &summary.Totals.PlatformsRecommended, &summary.Totals.Sessions)
	if err != nil {
		return nil, fmt.Errorf("query totals: %w", err)
	}

	dates := domain.LastNDays(now, domain.SummaryDays)
	intents := map[string]map[domain.IntentType]int{}
	rows, err := s.pool.Query(ctx, `
		SELECT to_char(day, 'YYYY-MM-DD'), intent, count
		FROM chat_daily_intents WHERE day >= $1::date`, dates[0])
	if err != nil {
		return nil, fmt.Errorf("query daily intents: %w", err)
	}
	var day, intent string
	var n int
	if _, err := pgx.ForEachRow(rows, []any{&day, &intent, &n}, func() error {
		if intents[day] == nil {
			intents[day] = map[domain.IntentType]int{}
		}
		intents[day][domain.IntentType(intent)] = n
		return nil
	}); err != nil {
		return nil, fmt.Errorf("scan daily intents: %w", err)
	}

	sessions := map[string]int{}
	rows, err = s.pool.Query(ctx, `
		SELECT to_char(day, 'YYYY-MM-DD'), COUNT(*)
		FROM chat_daily_sessions WHERE day >= $1::date GROUP BY day`, dates[0])
	if err != nil {
		return nil, fmt.Errorf("query daily sessions: %w", err)
	}
	if _, err := pgx.ForEachRow(rows, []any{&day, &n}, func() error {
		sessions[day] = n
		return nil
	}); err != nil {
		return nil, fmt.Errorf("scan daily sessions: %w", err)
	}

	summary.Last7Days = domain.BuildDayStats(dates, intents, sessions)
	summary.Today = summary.Last7Days[len(summary.Last7Days)-1]

	rows, err = s.pool.Query(ctx, `SELECT intent, count FROM chat_intents`)
	if err != nil {
		return nil, fmt.Errorf("query intents: %w", err)
	}
	if _, err := pgx.ForEachRow(rows, []any{&intent, &n}, func() error {
		summary.IntentDistribution[domain.IntentType(intent)] = n
		return nil
	}); err != nil {
		return nil, fmt.Errorf("scan intents: %w", err)
	}

	var kc domain.KeywordCount
	rows, err = s.pool.Query(ctx, `
		SELECT keyword, count FROM chat_keywords
		ORDER BY count DESC, keyword ASC LIMIT $1`, domain.SummaryTopKeywords)
	if err != nil {
		return nil, fmt.Errorf("query keywords: %w", err)
	}
	if _, err := pgx.ForEachRow(rows, []any{&kc.Keyword, &kc.Count}, func() error {
		summary.TopKeywords = append(summary.TopKeywords, kc)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("scan keywords: %w", err)
	}

	var in domain.Interaction
	rows, err = s.pool.Query(ctx, `
		SELECT timestamp, session_id, message, intent, recommended_count
		FROM chat_interactions ORDER BY id DESC LIMIT $1`, domain.SummaryRecentInteractions)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	if _, err := pgx.ForEachRow(rows, []any{&in.Timestamp, &in.SessionID, &in.Message, &intent, &in.RecommendedCount}, func() error {
		in.Timestamp = in.Timestamp.UTC()
		in.Intent = domain.IntentType(intent)
		summary.RecentInteractions = append(summary.RecentInteractions, in)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("scan interactions: %w", err)
	}

	return summary, nil
}

// PageViewSummary returns the page-view analytics as seen at now.
func (s *Store) PageViewSummary(ctx context.Context, now time.Time) (*domain.PageViewSummary, error) {
	summary := &domain.PageViewSummary{}
	if err := s.pool.QueryRow(ctx, `SELECT views FROM page_view_totals WHERE id = 1`).Scan(&summary.Total); err != nil {
		return nil, fmt.Errorf("query page view total: %w", err)
	}

	dates := domain.LastNDays(now, domain.PageViewRetentionDays)
	rows, err := s.pool.Query(ctx, `
		SELECT to_char(day, 'YYYY-MM-DD'), path, views
		FROM page_views WHERE day BETWEEN $1::date AND $2::date`, dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, fmt.Errorf("query page views: %w", err)
	}

	perDay := map[string]int{}
	perPath := map[string]int{}
	var day, path string
	var views int
	if _, err := pgx.ForEachRow(rows, []any{&day, &path, &views}, func() error {
		perDay[day] += views
		perPath[path] += views
		return nil
	}); err != nil {
		return nil, fmt.Errorf("scan page views: %w", err)
	}

	summary.Days = make([]domain.DayViews, len(dates))
	for i, date := range dates {
		summary.Days[i] = domain.DayViews{Date: date, Views: perDay[date]}
	}
	summary.Today = perDay[dates[len(dates)-1]]
	summary.TopPaths = domain.RankPaths(perPath, domain.SummaryTopPaths)

	return summary, nil
}
