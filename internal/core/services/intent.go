package services

import (
	"strings"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
	"github.com/VladSF415/ai-platforms-directory/internal/logger"
)

// Fixed per-branch confidences.
const (
	submitConfidence   = 0.9
	searchConfidence   = 0.8
	questionConfidence = 0.7
	defaultConfidence  = 0.5
)

// intentRule is one entry of the ordered classification table.
type intentRule struct {
	intent     domain.IntentType
	confidence float64
	phrases    []string
}

// intentRules are checked in order; the first rule with a matching
// phrase wins. A message with both a submit and a search phrase is
// therefore a submit.
var intentRules = []intentRule{
	{
		intent:     domain.IntentSubmit,
		confidence: submitConfidence,
		phrases: []string{
			"submit", "add my", "list my", "advertise", "feature my",
			"promote my", "get listed", "my platform", "my tool",
		},
	},
	{
		intent:     domain.IntentSearch,
		confidence: searchConfidence,
		phrases: []string{
			"find", "search", "looking for", "need a", "tool for", "recommend",
			"suggest", "best", "alternative", "which tool", "show me",
		},
	},
	{
		intent:     domain.IntentQuestion,
		confidence: questionConfidence,
		phrases: []string{
			"what", "how", "why", "when", "where", "who", "can ", "does", "?",
		},
	},
}

// IntentClassifier assigns a coarse intent to a chat message.
type IntentClassifier struct{}

// NewIntentClassifier creates a new intent classifier.
func NewIntentClassifier() *IntentClassifier {
	return &IntentClassifier{}
}

// Classify returns the intent of message. It never fails: messages
// matching no rule, including the empty message, are searches with
// confidence 0.5.
func (c *IntentClassifier) Classify(message string) domain.Intent {
	normalised := strings.ToLower(message)

	for _, rule := range intentRules {
		for _, phrase := range rule.phrases {
			if strings.Contains(normalised, phrase) {
				logger.Debug("Intent %s (%.1f) matched %q", rule.intent, rule.confidence, phrase)
				return domain.Intent{Type: rule.intent, Confidence: rule.confidence}
			}
		}
	}

	logger.Debug("Intent defaulted to %s", domain.IntentSearch)
	return domain.Intent{Type: domain.IntentSearch, Confidence: defaultConfidence}
}
