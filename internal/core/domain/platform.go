package domain

import "strings"

// Pricing is the coarse pricing classification of a platform.
// Records may also carry a free-text label, which is kept verbatim.
type Pricing string

// Well-known pricing classes.
const (
	PricingFree     Pricing = "free"
	PricingFreemium Pricing = "freemium"
	PricingPaid     Pricing = "paid"
)

// IsKnown returns true for the three standard pricing classes.
func (p Pricing) IsKnown() bool {
	switch p.Normalised() {
	case PricingFree, PricingFreemium, PricingPaid:
		return true
	default:
		return false
	}
}

// Normalised returns the lower-cased, trimmed pricing label.
func (p Pricing) Normalised() Pricing {
	return Pricing(strings.ToLower(strings.TrimSpace(string(p))))
}

// String returns the string representation.
func (p Pricing) String() string {
	return string(p)
}

// Platform is one directory entry describing an external AI tool.
// Platforms are loaded once per process and never mutated afterwards.
type Platform struct {
	// ID is the stable unique identifier.
	ID string `json:"id"`

	// Name is the display name.
	Name string `json:"name"`

	// Description is the display description.
	Description string `json:"description"`

	// Category is the primary classification tag.
	Category string `json:"category"`

	// Categories holds zero or more secondary tags.
	Categories []string `json:"categories,omitempty"`

	// Tags is an ordered list of free-text keywords.
	Tags []string `json:"tags,omitempty"`

	// Pricing is free, freemium, paid or a free-text label.
	Pricing Pricing `json:"pricing,omitempty"`

	// Rating is a score in [0,5]; zero when absent.
	Rating float64 `json:"rating,omitempty"`

	// Featured platforms sort before the rest.
	Featured bool `json:"featured,omitempty"`

	// Verified marks platforms checked by the directory owners.
	Verified bool `json:"verified,omitempty"`

	// Slug is the URL-safe identifier; defaults to ID.
	Slug string `json:"slug,omitempty"`

	// URL is the platform's own website.
	URL string `json:"url,omitempty"`
}

// EffectiveSlug returns Slug, or ID when Slug is empty.
func (p *Platform) EffectiveSlug() string {
	if p.Slug != "" {
		return p.Slug
	}
	return p.ID
}

// PlatformRef is the compact form of a platform returned with chat replies.
type PlatformRef struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Category string `json:"category"`
}

// Ref returns the compact reference for p.
func (p *Platform) Ref() PlatformRef {
	return PlatformRef{
		Name:     p.Name,
		Slug:     p.EffectiveSlug(),
		Category: p.Category,
	}
}

// CategoryCount is the number of platforms in one primary category.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}
