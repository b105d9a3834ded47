package jsonfile

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driven"
)

// Ensure AnalyticsStore implements the interface.
var _ driven.AnalyticsStore = (*AnalyticsStore)(nil)

// chatDocument is the on-disk chat analytics document.
type chatDocument struct {
	Messages             int                       `json:"totalMessages"`
	PlatformsRecommended int                       `json:"platformsRecommended"`
	Sessions             map[string]bool           `json:"sessions"`
	Daily                map[string]*chatDay       `json:"dailyStats"`
	Keywords             map[string]int            `json:"keywords"`
	Intents              map[domain.IntentType]int `json:"intents"`
	Interactions         []domain.Interaction      `json:"interactions"`
}

// chatDay is one calendar day of chat activity.
type chatDay struct {
	Sessions map[string]bool           `json:"sessions"`
	Intents  map[domain.IntentType]int `json:"intents"`
}

// pageViewDocument is the on-disk page-view document.
type pageViewDocument struct {
	Total int                       `json:"total"`
	Daily map[string]map[string]int `json:"daily"`
}

func newChatDocument() *chatDocument {
	return &chatDocument{
		Sessions: map[string]bool{},
		Daily:    map[string]*chatDay{},
		Keywords: map[string]int{},
		Intents:  map[domain.IntentType]int{},
	}
}

func newPageViewDocument() *pageViewDocument {
	return &pageViewDocument{Daily: map[string]map[string]int{}}
}

// AnalyticsStore keeps analytics in two JSON files.
// Both documents are held in memory and rewritten after every change.
type AnalyticsStore struct {
	mu        sync.Mutex
	chatPath  string
	viewsPath string
	chat      *chatDocument
	views     *pageViewDocument
}

// NewAnalyticsStore loads the chat and page-view documents.
// Missing files start empty.
func NewAnalyticsStore(chatPath, viewsPath string) (*AnalyticsStore, error) {
	chat := newChatDocument()
	if err := readJSON(chatPath, chat); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAnalyticsUnavailable, err)
	}
	chat.fillNil()

	views := newPageViewDocument()
	if err := readJSON(viewsPath, views); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAnalyticsUnavailable, err)
	}
	if views.Daily == nil {
		views.Daily = map[string]map[string]int{}
	}

	return &AnalyticsStore{
		chatPath:  chatPath,
		viewsPath: viewsPath,
		chat:      chat,
		views:     views,
	}, nil
}

// fillNil replaces maps a partial document left out.
func (d *chatDocument) fillNil() {
	if d.Sessions == nil {
		d.Sessions = map[string]bool{}
	}
	if d.Daily == nil {
		d.Daily = map[string]*chatDay{}
	}
	if d.Keywords == nil {
		d.Keywords = map[string]int{}
	}
	if d.Intents == nil {
		d.Intents = map[domain.IntentType]int{}
	}
	for _, day := range d.Daily {
		if day.Sessions == nil {
			day.Sessions = map[string]bool{}
		}
		if day.Intents == nil {
			day.Intents = map[domain.IntentType]int{}
		}
	}
}

// RecordInteraction adds one chat turn to the aggregates.
func (s *AnalyticsStore) RecordInteraction(_ context.Context, interaction domain.Interaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.chat
	doc.Messages++
	doc.PlatformsRecommended += interaction.RecommendedCount
	doc.Sessions[interaction.SessionID] = true
	doc.Intents[interaction.Intent]++

	date := interaction.Day()
	day, ok := doc.Daily[date]
	if !ok {
		day = &chatDay{Sessions: map[string]bool{}, Intents: map[domain.IntentType]int{}}
		doc.Daily[date] = day
	}
	day.Sessions[interaction.SessionID] = true
	day.Intents[interaction.Intent]++

	for _, keyword := range domain.ExtractKeywords(interaction.Message) {
		doc.Keywords[keyword]++
	}

	doc.Interactions = append(doc.Interactions, interaction)
	if over := len(doc.Interactions) - domain.MaxRecentInteractions; over > 0 {
		doc.Interactions = append([]domain.Interaction(nil), doc.Interactions[over:]...)
	}

	cutoff := domain.RetentionCutoff(interaction.Timestamp)
	for date := range doc.Daily {
		if date < cutoff {
			delete(doc.Daily, date)
		}
	}

	return writeJSON(s.chatPath, doc)
}

// RecordPageView counts one view of path.
func (s *AnalyticsStore) RecordPageView(_ context.Context, path string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.views
	date := at.UTC().Format(domain.DateLayout)
	paths, ok := doc.Daily[date]
	if !ok {
		paths = map[string]int{}
		doc.Daily[date] = paths
	}
	paths[path]++
	doc.Total++

	cutoff := domain.RetentionCutoff(at)
	for date := range doc.Daily {
		if date < cutoff {
			delete(doc.Daily, date)
		}
	}

	return writeJSON(s.viewsPath, doc)
}

// Summary returns the chat analytics as seen at now.
func (s *AnalyticsStore) Summary(_ context.Context, now time.Time) (*domain.AnalyticsSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.chat
	intents := make(map[string]map[domain.IntentType]int, len(doc.Daily))
	sessions := make(map[string]int, len(doc.Daily))
	for date, day := range doc.Daily {
		intents[date] = day.Intents
		sessions[date] = len(day.Sessions)
	}

	days := domain.BuildDayStats(domain.LastNDays(now, domain.SummaryDays), intents, sessions)

	distribution := make(map[domain.IntentType]int, len(doc.Intents))
	for intent, n := range doc.Intents {
		distribution[intent] = n
	}

	return &domain.AnalyticsSummary{
		Totals: domain.Totals{
			Messages:             doc.Messages,
			Sessions:             len(doc.Sessions),
			PlatformsRecommended: doc.PlatformsRecommended,
		},
		Today:              days[len(days)-1],
		Last7Days:          days,
		TopKeywords:        domain.RankKeywords(doc.Keywords, domain.SummaryTopKeywords),
		IntentDistribution: distribution,
		RecentInteractions: recent(doc.Interactions, domain.SummaryRecentInteractions),
	}, nil
}

// recent returns the newest n interactions, newest first.
func recent(log []domain.Interaction, n int) []domain.Interaction {
	if n > len(log) {
		n = len(log)
	}
	out := make([]domain.Interaction, n)
	for i := 0; i < n; i++ {
		out[i] = log[len(log)-1-i]
	}
	return out
}

// PageViewSummary returns the page-view analytics as seen at now.
func (s *AnalyticsStore) PageViewSummary(_ context.Context, now time.Time) (*domain.PageViewSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dates := domain.LastNDays(now, domain.PageViewRetentionDays)
	days := make([]domain.DayViews, len(dates))
	perPath := map[string]int{}
	for i, date := range dates {
		days[i].Date = date
		for path, n := range s.views.Daily[date] {
			days[i].Views += n
			perPath[path] += n
		}
	}

	return &domain.PageViewSummary{
		Total:    s.views.Total,
		Today:    days[len(days)-1].Views,
		Days:     days,
		TopPaths: domain.RankPaths(perPath, domain.SummaryTopPaths),
	}, nil
}

// Close releases resources. Every change is already on disk.
func (s *AnalyticsStore) Close() error {
	return nil
}
