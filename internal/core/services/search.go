package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driven"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driving"
	"github.com/VladSF415/ai-platforms-directory/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService matches free-text queries against the platform directory.
type SearchService struct {
	platforms driven.PlatformStore
}

// NewSearchService creates a new search service.
func NewSearchService(platforms driven.PlatformStore) *SearchService {
	return &SearchService{platforms: platforms}
}

// Search returns platforms whose searchable text contains any query token
// longer than two characters, after keyword expansion. Results are sorted
// featured first, then by rating descending, then verified first, and
// truncated to opts.Limit (default 5).
func (s *SearchService) Search(query string, opts domain.SearchOptions) []domain.Platform {
	logger.Section("Platform Search")
	logger.Debug("Query: %q", query)

	expanded := ExpandQuery(query)
	tokens := queryTokens(expanded)
	logger.Debug("Expanded tokens: %v", tokens)

	if len(tokens) == 0 {
		logger.Debug("No usable tokens, returning no results")
		return []domain.Platform{}
	}

	wantPricing := opts.Pricing.Normalised()
	if opts.Category != "" || wantPricing != "" {
		logger.Debug("Filters: category=%q pricing=%q", opts.Category, wantPricing)
	}

	all := s.platforms.All()
	results := make([]domain.Platform, 0, len(all))
	for i := range all {
		p := &all[i]
		if opts.Category != "" && p.Category != opts.Category {
			continue
		}
		if wantPricing != "" && p.Pricing.Normalised() != wantPricing {
			continue
		}
		if matchesAny(searchableText(p), tokens) {
			results = append(results, *p)
		}
	}
	logger.Debug("Matched %d of %d platforms", len(results), len(all))

	sortPlatforms(results)

	limit := opts.EffectiveLimit()
	if len(results) > limit {
		results = results[:limit]
	}
	logger.Debug("Returning %d results", len(results))

	return results
}

// Platform retrieves a platform by slug.
func (s *SearchService) Platform(slug string) (*domain.Platform, error) {
	p, err := s.platforms.GetBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("platform %q: %w", slug, err)
	}
	return p, nil
}

// Categories returns primary category counts, largest first.
func (s *SearchService) Categories() []domain.CategoryCount {
	return s.platforms.Categories()
}

// Count returns the number of platforms in the directory.
func (s *SearchService) Count() int {
	return s.platforms.Count()
}

// searchableText concatenates the matched fields of p in lower case.
// Category appears twice, mirroring how the field list is assembled.
func searchableText(p *domain.Platform) string {
	fields := make([]string, 0, 4+len(p.Tags))
	fields = append(fields, p.Name, p.Description, p.Category)
	fields = append(fields, p.Tags...)
	fields = append(fields, p.Category)
	return strings.ToLower(strings.Join(fields, " "))
}

// matchesAny reports whether any token is a substring of text.
func matchesAny(text string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(text, token) {
			return true
		}
	}
	return false
}

// sortPlatforms orders featured platforms first, then by rating
// descending, then verified first. Ties keep load order.
func sortPlatforms(platforms []domain.Platform) {
	sort.SliceStable(platforms, func(i, j int) bool {
		a, b := platforms[i], platforms[j]
		if a.Featured != b.Featured {
			return a.Featured
		}
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		if a.Verified != b.Verified {
			return a.Verified
		}
		return false
	})
}
