// Package messages defines Bubbletea message types for the chat TUI.
package messages

import (
	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

// ReplyReceived carries the chat service's answer to a sent message.
type ReplyReceived struct {
	Reply *domain.Reply
	Err   error
}

// SessionCleared signals the conversation history was dropped.
type SessionCleared struct {
	Err error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
