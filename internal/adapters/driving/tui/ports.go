// Package tui provides an interactive terminal chat client for aidir.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the TUI.
type Ports struct {
	// Chat answers user messages.
	Chat driving.ChatService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Chat == nil {
		return ErrMissingChatService
	}
	return nil
}
