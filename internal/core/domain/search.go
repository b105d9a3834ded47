package domain

// DefaultSearchLimit is the result cap when SearchOptions.Limit is unset.
const DefaultSearchLimit = 5

// SearchOptions configures a platform search.
type SearchOptions struct {
	// Category keeps only platforms whose primary category equals it.
	Category string

	// Pricing keeps only platforms whose pricing equals it.
	Pricing Pricing

	// Limit is the maximum number of results (default 5).
	Limit int
}

// EffectiveLimit returns Limit, or DefaultSearchLimit when unset.
func (o SearchOptions) EffectiveLimit() int {
	if o.Limit <= 0 {
		return DefaultSearchLimit
	}
	return o.Limit
}
