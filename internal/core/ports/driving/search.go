package driving

import "github.com/VladSF415/ai-platforms-directory/internal/core/domain"

// SearchService provides platform lookup to external actors.
// Search is a total function: an empty result is not an error.
type SearchService interface {
	// Search returns platforms matching query, featured first then by rating.
	Search(query string, opts domain.SearchOptions) []domain.Platform

	// Platform retrieves a platform by slug.
	Platform(slug string) (*domain.Platform, error)

	// Categories returns primary category counts, largest first.
	Categories() []domain.CategoryCount

	// Count returns the number of platforms in the directory.
	Count() int
}
