package domain

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// Analytics limits.
const (
	// MaxStoredMessageRunes truncates messages before storage.
	MaxStoredMessageRunes = 200

	// MaxRecentInteractions bounds the interaction log.
	MaxRecentInteractions = 1000

	// SummaryRecentInteractions is how many log entries a summary shows.
	SummaryRecentInteractions = 20

	// SummaryTopKeywords is how many keywords a summary shows.
	SummaryTopKeywords = 20

	// SummaryDays is the length of the daily series in a chat summary.
	SummaryDays = 7

	// SummaryTopPaths is how many paths a page-view summary shows.
	SummaryTopPaths = 10

	// PageViewRetentionDays is how long daily page-view buckets are kept.
	// Daily chat buckets share the same window.
	PageViewRetentionDays = 30

	// DateLayout keys daily buckets.
	DateLayout = "2006-01-02"
)

// Interaction is one observed chat turn.
type Interaction struct {
	Timestamp        time.Time  `json:"timestamp"`
	SessionID        string     `json:"sessionId"`
	Message          string     `json:"message"`
	Intent           IntentType `json:"intent"`
	RecommendedCount int        `json:"recommendedCount"`
}

// NewInteraction builds an Interaction with the message truncated.
func NewInteraction(at time.Time, sessionID, message string, intent IntentType, recommended int) Interaction {
	return Interaction{
		Timestamp:        at.UTC(),
		SessionID:        sessionID,
		Message:          TruncateRunes(message, MaxStoredMessageRunes),
		Intent:           intent,
		RecommendedCount: recommended,
	}
}

// Day returns the calendar date key of the interaction.
func (i Interaction) Day() string {
	return i.Timestamp.UTC().Format(DateLayout)
}

// DayStats aggregates one calendar day of chat activity.
type DayStats struct {
	Date     string             `json:"date"`
	Messages int                `json:"messages"`
	Sessions int                `json:"sessions"`
	Intents  map[IntentType]int `json:"intents,omitempty"`
}

// Totals aggregates all recorded chat activity.
type Totals struct {
	Messages             int `json:"messages"`
	Sessions             int `json:"sessions"`
	PlatformsRecommended int `json:"platformsRecommended"`
}

// KeywordCount is one entry of the keyword frequency table.
type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

// AnalyticsSummary is the read model of the chat analytics.
type AnalyticsSummary struct {
	Totals             Totals             `json:"totals"`
	Today              DayStats           `json:"today"`
	Last7Days          []DayStats         `json:"last7Days"`
	TopKeywords        []KeywordCount     `json:"topKeywords"`
	IntentDistribution map[IntentType]int `json:"intentDistribution"`
	RecentInteractions []Interaction      `json:"recentInteractions"`
}

// PathCount is the number of views of one path.
type PathCount struct {
	Path  string `json:"path"`
	Views int    `json:"views"`
}

// DayViews is one calendar day of page views.
type DayViews struct {
	Date  string `json:"date"`
	Views int    `json:"views"`
}

// PageViewSummary is the read model of page-view analytics.
type PageViewSummary struct {
	Total    int         `json:"total"`
	Today    int         `json:"today"`
	Days     []DayViews  `json:"days"`
	TopPaths []PathCount `json:"topPaths"`
}

// stopWords are dropped from keyword frequency counting.
var stopWords = map[string]bool{
	"about": true, "after": true, "also": true, "best": true, "could": true,
	"does": true, "from": true, "have": true, "help": true, "need": true,
	"some": true, "that": true, "them": true, "then": true, "there": true,
	"these": true, "they": true, "this": true, "tool": true, "tools": true,
	"want": true, "what": true, "when": true, "where": true, "which": true,
	"with": true, "would": true, "your": true, "looking": true, "please": true,
}

// ExtractKeywords returns the lower-cased words of message longer than
// three characters, stop words removed, punctuation trimmed.
func ExtractKeywords(message string) []string {
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(message)) {
		word = strings.Trim(word, ".,!?;:\"'()[]{}")
		if utf8.RuneCountInString(word) <= 3 || stopWords[word] {
			continue
		}
		keywords = append(keywords, word)
	}
	return keywords
}

// TruncateRunes shortens s to at most n runes.
func TruncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}

// LastNDays returns the date keys for the n days ending at now, oldest first.
func LastNDays(now time.Time, n int) []string {
	days := make([]string, n)
	for i := 0; i < n; i++ {
		days[i] = now.UTC().AddDate(0, 0, -(n - 1 - i)).Format(DateLayout)
	}
	return days
}

// RetentionCutoff returns the oldest date key still retained at now.
// Buckets keyed before it may be pruned.
func RetentionCutoff(now time.Time) string {
	return LastNDays(now, PageViewRetentionDays)[0]
}

// BuildDayStats assembles one DayStats per date, in the order given.
// Missing dates yield zero days. Messages is the sum of the intent counts.
func BuildDayStats(dates []string, intents map[string]map[IntentType]int, sessions map[string]int) []DayStats {
	days := make([]DayStats, len(dates))
	for i, date := range dates {
		day := DayStats{Date: date, Sessions: sessions[date], Intents: map[IntentType]int{}}
		for intent, n := range intents[date] {
			day.Intents[intent] = n
			day.Messages += n
		}
		days[i] = day
	}
	return days
}

// RankKeywords returns the n most frequent keywords, ties broken
// alphabetically.
func RankKeywords(counts map[string]int, n int) []KeywordCount {
	ranked := make([]KeywordCount, 0, len(counts))
	for keyword, count := range counts {
		ranked = append(ranked, KeywordCount{Keyword: keyword, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Keyword < ranked[j].Keyword
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// RankPaths returns the n most viewed paths, ties broken alphabetically.
func RankPaths(counts map[string]int, n int) []PathCount {
	ranked := make([]PathCount, 0, len(counts))
	for path, views := range counts {
		ranked = append(ranked, PathCount{Path: path, Views: views})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Views != ranked[j].Views {
			return ranked[i].Views > ranked[j].Views
		}
		return ranked[i].Path < ranked[j].Path
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// NormalisePath trims a page-view path and guarantees a leading slash.
// The query string and fragment are dropped.
func NormalisePath(path string) string {
	path = strings.TrimSpace(path)
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}
