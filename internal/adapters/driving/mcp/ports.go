package mcp

import (
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search provides platform lookup.
	Search driving.SearchService

	// Chat answers conversational requests. Optional.
	Chat driving.ChatService

	// Analytics reports usage summaries. Optional.
	Analytics driving.AnalyticsService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
