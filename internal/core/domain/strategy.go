package domain

// StrategyKind identifies how replies are produced.
type StrategyKind string

// Response strategies.
const (
	// StrategyHosted sends the conversation to a hosted model.
	StrategyHosted StrategyKind = "hosted"

	// StrategyFallback composes replies from fixed templates.
	StrategyFallback StrategyKind = "fallback"
)

// String returns the string representation.
func (k StrategyKind) String() string {
	return string(k)
}

// StrategyInfo describes the strategy selected at startup.
type StrategyInfo struct {
	Kind     StrategyKind `json:"kind"`
	Provider AIProvider   `json:"provider,omitempty"`
	Model    string       `json:"model,omitempty"`
}
