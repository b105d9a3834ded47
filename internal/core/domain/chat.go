package domain

// ChatRequest is one inbound chat message.
type ChatRequest struct {
	// SessionID is optional; a new one is generated when empty.
	SessionID string `json:"sessionId,omitempty"`

	// Message is the raw user text.
	Message string `json:"message"`
}

// Reply is what the chat entry point returns. It is always populated,
// even when the hosted model failed.
type Reply struct {
	// SessionID identifies the session the turn was stored under.
	SessionID string `json:"sessionId"`

	// Response is the text shown to the user.
	Response string `json:"response"`

	// Platforms are the matched platforms the reply was built from.
	Platforms []PlatformRef `json:"platforms,omitempty"`

	// Intent is the classified intent type.
	Intent IntentType `json:"intent,omitempty"`

	// Error is set when the hosted model call failed.
	Error bool `json:"error,omitempty"`

	// Message is the apology shown when Error is set.
	Message string `json:"message,omitempty"`
}
