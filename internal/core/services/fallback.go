package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

const (
	// fallbackSearchLimit caps the platforms listed by a templated reply.
	fallbackSearchLimit = 3

	// descriptionPreviewRunes truncates descriptions in rendered lists.
	descriptionPreviewRunes = 100
)

// tellMeMoreReply is returned when a search finds nothing.
const tellMeMoreReply = "I couldn't find a platform that matches yet. " +
	"Could you tell me more about your project? For example what you want to create, " +
	"your budget, and whether you prefer free tools."

// greetingReply is returned for messages that are neither submissions nor searches.
const greetingReply = "Hi! I can help you find the right AI tools for your project. " +
	"Tell me what you are working on, for example \"I need a tool to make music\", " +
	"or ask how to get your own platform listed."

// Composition is a reply built without a hosted model.
type Composition struct {
	Text      string
	Platforms []domain.Platform
}

// FallbackComposer builds deterministic replies from templates and
// directory matches.
type FallbackComposer struct {
	search *SearchService
	site   domain.SiteSettings
}

// NewFallbackComposer creates a new fallback composer.
func NewFallbackComposer(search *SearchService, site domain.SiteSettings) *FallbackComposer {
	return &FallbackComposer{search: search, site: site}
}

// Compose returns the templated reply for message.
func (c *FallbackComposer) Compose(message string, intent domain.IntentType) Composition {
	switch intent {
	case domain.IntentSubmit:
		return Composition{Text: c.submitReply()}
	case domain.IntentSearch:
		return c.searchReply(message)
	default:
		return Composition{Text: greetingReply}
	}
}

func (c *FallbackComposer) submitReply() string {
	return "Great, we'd love to feature your platform! Basic listings in the directory are free. " +
		"Featured placements put your tool at the top of search results and category pages " +
		"for a monthly fee. Submit your platform here: " + c.site.SubmitURL()
}

func (c *FallbackComposer) searchReply(message string) Composition {
	query := strings.Join(significantWords(message), " ")
	platforms := c.search.Search(query, domain.SearchOptions{Limit: fallbackSearchLimit})
	if len(platforms) == 0 {
		return Composition{Text: tellMeMoreReply}
	}

	var b strings.Builder
	b.WriteString("Here are some platforms that could help:\n")
	for i := range platforms {
		p := &platforms[i]
		fmt.Fprintf(&b, "\n%d. %s - %s\n", i+1, p.Name, previewDescription(p.Description))
		fmt.Fprintf(&b, "   Category: %s | Pricing: %s\n", p.Category, pricingLabel(p.Pricing))
		fmt.Fprintf(&b, "   %s\n", c.site.PlatformURL(p.EffectiveSlug()))
	}
	b.WriteString("\nWant more detail on any of these?")

	return Composition{Text: b.String(), Platforms: platforms}
}

// significantWords returns the lower-cased words of message longer than
// three characters.
func significantWords(message string) []string {
	var words []string
	for _, word := range strings.Fields(strings.ToLower(message)) {
		word = strings.Trim(word, ".,!?;:\"'()")
		if utf8.RuneCountInString(word) > 3 {
			words = append(words, word)
		}
	}
	return words
}

// previewDescription truncates a description for list rendering.
func previewDescription(description string) string {
	if utf8.RuneCountInString(description) <= descriptionPreviewRunes {
		return description
	}
	return domain.TruncateRunes(description, descriptionPreviewRunes) + "..."
}

func pricingLabel(p domain.Pricing) string {
	if p == "" {
		return "unknown"
	}
	return p.String()
}
