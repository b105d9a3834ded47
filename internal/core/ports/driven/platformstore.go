package driven

import "github.com/VladSF415/ai-platforms-directory/internal/core/domain"

// PlatformStore is the read-only platform directory.
// It is populated once at startup and never mutated, so implementations
// are safe for concurrent reads without locking.
type PlatformStore interface {
	// All returns every platform in load order.
	All() []domain.Platform

	// Get retrieves a platform by ID.
	Get(id string) (*domain.Platform, error)

	// GetBySlug retrieves a platform by its effective slug.
	GetBySlug(slug string) (*domain.Platform, error)

	// Categories returns primary category counts, largest first.
	Categories() []domain.CategoryCount

	// Count returns the number of platforms.
	Count() int
}
