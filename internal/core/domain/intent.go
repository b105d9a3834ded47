package domain

// IntentType is the coarse purpose of a chat message.
type IntentType string

// Intent types, in classification priority order.
const (
	IntentSubmit   IntentType = "submit"
	IntentSearch   IntentType = "search"
	IntentQuestion IntentType = "question"
)

// IsValid returns true if the intent type is recognised.
func (t IntentType) IsValid() bool {
	switch t {
	case IntentSubmit, IntentSearch, IntentQuestion:
		return true
	default:
		return false
	}
}

// IsSearchLike returns true when the message should be matched against
// the platform store before a reply is composed.
func (t IntentType) IsSearchLike() bool {
	return t == IntentSearch || t == IntentQuestion
}

// String returns the string representation.
func (t IntentType) String() string {
	return string(t)
}

// AllIntentTypes returns all intent types in priority order.
func AllIntentTypes() []IntentType {
	return []IntentType{IntentSubmit, IntentSearch, IntentQuestion}
}

// Intent is the transient classification of one message.
// Confidence is a fixed per-branch constant, kept for logging only.
type Intent struct {
	Type       IntentType `json:"type"`
	Confidence float64    `json:"confidence"`
}
