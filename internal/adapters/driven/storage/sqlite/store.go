package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.AnalyticsStore = (*Store)(nil)

// Store is a SQLite-based analytics store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens or creates the database at path and applies migrations.
func NewStore(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: sqlite path is required", domain.ErrInvalidInput)
	}

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: path,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_analytics.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Chat Analytics ====================

// RecordInteraction adds one chat turn to the aggregates.
func (s *Store) RecordInteraction(ctx context.Context, in domain.Interaction) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	day := in.Day()
	ts := in.Timestamp.UTC().Format(time.RFC3339Nano)
	intent := string(in.Intent)

	stmts := []struct {
		query string
		args  []any
	}{
		{`UPDATE chat_totals SET messages = messages + 1,
			platforms_recommended = platforms_recommended + ? WHERE id = 1`, []any{in.RecommendedCount}},
		{`INSERT INTO chat_sessions (session_id, first_seen) VALUES (?, ?)
			ON CONFLICT(session_id) DO NOTHING`, []any{in.SessionID, ts}},
		{`INSERT INTO chat_daily_sessions (day, session_id) VALUES (?, ?)
			ON CONFLICT(day, session_id) DO NOTHING`, []any{day, in.SessionID}},
		{`INSERT INTO chat_daily_intents (day, intent, count) VALUES (?, ?, 1)
			ON CONFLICT(day, intent) DO UPDATE SET count = count + 1`, []any{day, intent}},
		{`INSERT INTO chat_intents (intent, count) VALUES (?, 1)
			ON CONFLICT(intent) DO UPDATE SET count = count + 1`, []any{intent}},
		{`INSERT INTO chat_interactions (timestamp, session_id, message, intent, recommended_count)
			VALUES (?, ?, ?, ?, ?)`, []any{ts, in.SessionID, in.Message, intent, in.RecommendedCount}},
		{`DELETE FROM chat_interactions WHERE id <= (
			SELECT id FROM chat_interactions ORDER BY id DESC LIMIT 1 OFFSET ?)`, []any{domain.MaxRecentInteractions}},
		{`DELETE FROM chat_daily_sessions WHERE day < ?`, []any{domain.RetentionCutoff(in.Timestamp)}},
		{`DELETE FROM chat_daily_intents WHERE day < ?`, []any{domain.RetentionCutoff(in.Timestamp)}},
	}
	for _, kw := range domain.ExtractKeywords(in.Message) {
		stmts = append(stmts, struct {
			query string
			args  []any
		}{`INSERT INTO chat_keywords (keyword, count) VALUES (?, 1)
			ON CONFLICT(keyword) DO UPDATE SET count = count + 1`, []any{kw}})
	}

	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt.query, stmt.args...); err != nil {
			return fmt.Errorf("recording interaction: %w", err)
		}
	}

	return tx.Commit()
}

// Summary returns the chat analytics as seen at now.
func (s *Store) Summary(ctx context.Context, now time.Time) (*domain.AnalyticsSummary, error) {
	summary := &domain.AnalyticsSummary{
		IntentDistribution: map[domain.IntentType]int{},
		TopKeywords:        []domain.KeywordCount{},
	}

	err := s.db.QueryRowContext(ctx,
		"SELECT messages, platforms_recommended FROM chat_totals WHERE id = 1",
	).Scan(&summary.Totals.Messages, &summary.Totals.PlatformsRecommended)
	if err != nil {
		return nil, fmt.Errorf("querying totals: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM chat_sessions").Scan(&summary.Totals.Sessions); err != nil {
		return nil, fmt.Errorf("counting sessions: %w", err)
	}

	dates := domain.LastNDays(now, domain.SummaryDays)
	intents, sessions, err := s.dailyCounts(ctx, dates[0])
	if err != nil {
		return nil, err
	}
	summary.Last7Days = domain.BuildDayStats(dates, intents, sessions)
	summary.Today = summary.Last7Days[len(summary.Last7Days)-1]

	counts, err := s.counts(ctx, "SELECT intent, count FROM chat_intents")
	if err != nil {
		return nil, fmt.Errorf("querying intents: %w", err)
	}
	for intent, n := range counts {
		summary.IntentDistribution[domain.IntentType(intent)] = n
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT keyword, count FROM chat_keywords ORDER BY count DESC, keyword ASC LIMIT ?",
		domain.SummaryTopKeywords)
	if err != nil {
		return nil, fmt.Errorf("querying keywords: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var kc domain.KeywordCount
		if err := rows.Scan(&kc.Keyword, &kc.Count); err != nil {
			return nil, fmt.Errorf("scanning keyword: %w", err)
		}
		summary.TopKeywords = append(summary.TopKeywords, kc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating keywords: %w", err)
	}

	summary.RecentInteractions, err = s.recentInteractions(ctx, domain.SummaryRecentInteractions)
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// dailyCounts loads per-day intent counts and distinct sessions from since onwards.
func (s *Store) dailyCounts(ctx context.Context, since string) (map[string]map[domain.IntentType]int, map[string]int, error) {
	intents := map[string]map[domain.IntentType]int{}
	rows, err := s.db.QueryContext(ctx,
		"SELECT day, intent, count FROM chat_daily_intents WHERE day >= ?", since)
	if err != nil {
		return nil, nil, fmt.Errorf("querying daily intents: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var day, intent string
		var n int
		if err := rows.Scan(&day, &intent, &n); err != nil {
			return nil, nil, fmt.Errorf("scanning daily intent: %w", err)
		}
		if intents[day] == nil {
			intents[day] = map[domain.IntentType]int{}
		}
		intents[day][domain.IntentType(intent)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating daily intents: %w", err)
	}

	sessions, err := s.counts(ctx,
		"SELECT day, COUNT(*) FROM chat_daily_sessions WHERE day >= ? GROUP BY day", since)
	if err != nil {
		return nil, nil, fmt.Errorf("querying daily sessions: %w", err)
	}
	return intents, sessions, nil
}

// counts runs a two-column (key, count) query into a map.
func (s *Store) counts(ctx context.Context, query string, args ...any) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, err
		}
		out[key] = n
	}
	return out, rows.Err()
}

// recentInteractions returns the newest n interactions, newest first.
func (s *Store) recentInteractions(ctx context.Context, n int) ([]domain.Interaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT timestamp, session_id, message, intent, recommended_count
		FROM chat_interactions ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying interactions: %w", err)
	}
	defer rows.Close()

	out := []domain.Interaction{}
	for rows.Next() {
		var in domain.Interaction
		var ts, intent string
		if err := rows.Scan(&ts, &in.SessionID, &in.Message, &intent, &in.RecommendedCount); err != nil {
			return nil, fmt.Errorf("scanning interaction: %w", err)
		}
		in.Timestamp, err = time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parsing interaction timestamp: %w", err)
		}
		in.Intent = domain.IntentType(intent)
		out = append(out, in)
	}
	return out, rows.Err()
}

// ==================== Page Views ====================

// RecordPageView counts one view of path.
func (s *Store) RecordPageView(ctx context.Context, path string, at time.Time) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	day := at.UTC().Format(domain.DateLayout)
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO page_views (day, path, views) VALUES (?, ?, 1)
		ON CONFLICT(day, path) DO UPDATE SET views = views + 1`, day, path); err != nil {
		return fmt.Errorf("recording page view: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "UPDATE page_view_totals SET views = views + 1 WHERE id = 1"); err != nil {
		return fmt.Errorf("updating page view total: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM page_views WHERE day < ?", domain.RetentionCutoff(at)); err != nil {
		return fmt.Errorf("pruning page views: %w", err)
	}

	return tx.Commit()
}

// PageViewSummary returns the page-view analytics as seen at now.
func (s *Store) PageViewSummary(ctx context.Context, now time.Time) (*domain.PageViewSummary, error) {
	summary := &domain.PageViewSummary{}
	if err := s.db.QueryRowContext(ctx, "SELECT views FROM page_view_totals WHERE id = 1").Scan(&summary.Total); err != nil {
		return nil, fmt.Errorf("querying page view total: %w", err)
	}

	dates := domain.LastNDays(now, domain.PageViewRetentionDays)
	rows, err := s.db.QueryContext(ctx,
		"SELECT day, path, views FROM page_views WHERE day >= ? AND day <= ?", dates[0], dates[len(dates)-1])
	if err != nil {
		return nil, fmt.Errorf("querying page views: %w", err)
	}
	defer rows.Close()

	perDay := map[string]int{}
	perPath := map[string]int{}
	for rows.Next() {
		var day, path string
		var views int
		if err := rows.Scan(&day, &path, &views); err != nil {
			return nil, fmt.Errorf("scanning page view: %w", err)
		}
		perDay[day] += views
		perPath[path] += views
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating page views: %w", err)
	}

	summary.Days = make([]domain.DayViews, len(dates))
	for i, date := range dates {
		summary.Days[i] = domain.DayViews{Date: date, Views: perDay[date]}
	}
	summary.Today = perDay[dates[len(dates)-1]]
	summary.TopPaths = domain.RankPaths(perPath, domain.SummaryTopPaths)

	return summary, nil
}
