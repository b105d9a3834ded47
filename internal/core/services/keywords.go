package services

import (
	"sort"
	"strings"
)

// keywordExpansions maps topical keywords to synonym sets.
// A key found anywhere in a query appends its synonyms to the query.
var keywordExpansions = map[string][]string{
	"music":        {"audio", "music", "sound", "audio-ai", "composition", "generate music"},
	"image":        {"image", "picture", "photo", "art", "image-generation", "visual"},
	"video":        {"video", "animation", "film", "video-generation", "editing"},
	"code":         {"code", "coding", "programming", "developer", "code-assistant", "ide"},
	"coding":       {"code", "coding", "programming", "developer", "code-assistant"},
	"writing":      {"writing", "text", "content", "copywriting", "blog", "article"},
	"chat":         {"chat", "chatbot", "conversation", "assistant", "llm"},
	"voice":        {"voice", "speech", "text-to-speech", "tts", "audio"},
	"marketing":    {"marketing", "ads", "advertising", "social media", "campaign"},
	"seo":          {"seo", "search engine", "ranking", "keywords"},
	"data":         {"data", "analytics", "analysis", "visualization", "dashboard"},
	"productivity": {"productivity", "automation", "workflow", "task", "notes"},
	"research":     {"research", "academic", "papers", "science", "literature"},
	"education":    {"education", "learning", "tutor", "course", "teaching"},
	"3d":           {"3d", "model", "rendering", "mesh", "3d-generation"},
	"translation":  {"translation", "translate", "language", "localization"},
	"presentation": {"presentation", "slides", "deck", "powerpoint"},
}

// ExpandQuery lower-cases query and appends the synonyms of every
// expansion key contained in it. Keys are applied in sorted order so the
// result is deterministic.
func ExpandQuery(query string) string {
	expanded := strings.ToLower(query)
	normalised := expanded

	keys := make([]string, 0, len(keywordExpansions))
	for key := range keywordExpansions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if strings.Contains(normalised, key) {
			expanded += " " + strings.Join(keywordExpansions[key], " ")
		}
	}
	return expanded
}

// queryTokens splits an expanded query on whitespace and drops tokens of
// two characters or fewer.
func queryTokens(expanded string) []string {
	var tokens []string
	for _, token := range strings.Fields(expanded) {
		if len(token) <= 2 {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}
