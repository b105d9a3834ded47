package memory

import (
	"fmt"
	"sort"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driven"
)

// Ensure PlatformStore implements the interface.
var _ driven.PlatformStore = (*PlatformStore)(nil)

// PlatformStore is an immutable in-memory platform directory.
// It is built once and only read afterwards, so it needs no locking.
type PlatformStore struct {
	platforms  []domain.Platform
	byID       map[string]int
	bySlug     map[string]int
	categories []domain.CategoryCount
}

// NewPlatformStore indexes platforms. Records without an ID are rejected
// with domain.ErrInvalidInput and repeated IDs with domain.ErrDuplicatePlatform.
func NewPlatformStore(platforms []domain.Platform) (*PlatformStore, error) {
	s := &PlatformStore{
		platforms: make([]domain.Platform, len(platforms)),
		byID:      make(map[string]int, len(platforms)),
		bySlug:    make(map[string]int, len(platforms)),
	}
	copy(s.platforms, platforms)

	counts := make(map[string]int)
	for i := range s.platforms {
		p := &s.platforms[i]
		if p.ID == "" {
			return nil, fmt.Errorf("platform at index %d has no id: %w", i, domain.ErrInvalidInput)
		}
		if _, exists := s.byID[p.ID]; exists {
			return nil, fmt.Errorf("%w: %s", domain.ErrDuplicatePlatform, p.ID)
		}
		if p.Slug == "" {
			p.Slug = p.ID
		}
		s.byID[p.ID] = i
		if _, exists := s.bySlug[p.Slug]; !exists {
			s.bySlug[p.Slug] = i
		}
		if p.Category != "" {
			counts[p.Category]++
		}
	}

	s.categories = make([]domain.CategoryCount, 0, len(counts))
	for category, count := range counts {
		s.categories = append(s.categories, domain.CategoryCount{Category: category, Count: count})
	}
	sort.Slice(s.categories, func(i, j int) bool {
		if s.categories[i].Count != s.categories[j].Count {
			return s.categories[i].Count > s.categories[j].Count
		}
		return s.categories[i].Category < s.categories[j].Category
	})

	return s, nil
}

// All returns a copy of every platform in load order.
func (s *PlatformStore) All() []domain.Platform {
	out := make([]domain.Platform, len(s.platforms))
	copy(out, s.platforms)
	return out
}

// Get retrieves a platform by ID.
func (s *PlatformStore) Get(id string) (*domain.Platform, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p := s.platforms[i]
	return &p, nil
}

// GetBySlug retrieves a platform by its effective slug.
func (s *PlatformStore) GetBySlug(slug string) (*domain.Platform, error) {
	i, ok := s.bySlug[slug]
	if !ok {
		return nil, domain.ErrNotFound
	}
	p := s.platforms[i]
	return &p, nil
}

// Categories returns primary category counts, largest first.
func (s *PlatformStore) Categories() []domain.CategoryCount {
	out := make([]domain.CategoryCount, len(s.categories))
	copy(out, s.categories)
	return out
}

// Count returns the number of platforms.
func (s *PlatformStore) Count() int {
	return len(s.platforms)
}
