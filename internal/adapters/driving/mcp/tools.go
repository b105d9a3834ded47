package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

// defaultToolLimit is the search limit when the caller sets none.
const defaultToolLimit = 10

// SearchInput is the input schema for the search_platforms tool.
type SearchInput struct {
	Query    string `json:"query" jsonschema:"what the user wants to do, e.g. make music or write code"`
	Category string `json:"category,omitempty" jsonschema:"only platforms in this primary category"`
	Pricing  string `json:"pricing,omitempty" jsonschema:"only platforms with this pricing: free, freemium or paid"`
	Limit    int    `json:"limit,omitempty" jsonschema:"maximum number of results to return (default 10)"`
}

// SearchOutput is the output schema for the search_platforms tool.
type SearchOutput struct {
	Platforms []PlatformOutput `json:"platforms"`
	Count     int              `json:"count"`
}

// PlatformOutput is one platform as seen by assistants.
type PlatformOutput struct {
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Pricing     string   `json:"pricing,omitempty"`
	Rating      float64  `json:"rating,omitempty"`
	URL         string   `json:"url,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ChatInput is the input schema for the chat tool.
type ChatInput struct {
	Message   string `json:"message" jsonschema:"the user's message"`
	SessionID string `json:"session_id,omitempty" jsonschema:"session to continue; omit to start a new one"`
}

// ChatOutput is the output schema for the chat tool.
type ChatOutput struct {
	SessionID string           `json:"session_id"`
	Response  string           `json:"response"`
	Intent    string           `json:"intent,omitempty"`
	Platforms []PlatformRefOut `json:"platforms,omitempty"`
	Degraded  bool             `json:"degraded,omitempty"`
}

// PlatformRefOut is a compact platform reference returned with chat replies.
type PlatformRefOut struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Category string `json:"category"`
}

// AnalyticsInput is the (empty) input schema for analytics_summary.
type AnalyticsInput struct{}

// AnalyticsOutput is the output schema for analytics_summary.
type AnalyticsOutput struct {
	Messages             int            `json:"messages"`
	Sessions             int            `json:"sessions"`
	PlatformsRecommended int            `json:"platforms_recommended"`
	TodayMessages        int            `json:"today_messages"`
	TopKeywords          []string       `json:"top_keywords,omitempty"`
	Intents              map[string]int `json:"intents,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_platforms",
		Description: "Search the AI platform directory by use case, category and pricing",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "chat",
		Description: "Ask the directory assistant for AI platform recommendations",
	}, s.handleChat)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "analytics_summary",
		Description: "Summarise recent chat usage of the directory",
	}, s.handleAnalytics)
}

// handleSearch handles the search_platforms tool invocation.
func (s *Server) handleSearch(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = defaultToolLimit
	}

	opts := domain.SearchOptions{
		Category: input.Category,
		Pricing:  domain.Pricing(input.Pricing),
		Limit:    limit,
	}
	platforms := s.ports.Search.Search(input.Query, opts)

	output := SearchOutput{
		Platforms: make([]PlatformOutput, len(platforms)),
		Count:     len(platforms),
	}
	for i := range platforms {
		output.Platforms[i] = toPlatformOutput(&platforms[i])
	}

	return nil, output, nil
}

// handleChat handles the chat tool invocation.
func (s *Server) handleChat(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ChatInput,
) (*mcp.CallToolResult, ChatOutput, error) {
	if s.ports.Chat == nil {
		return nil, ChatOutput{}, ErrChatUnavailable
	}

	reply, err := s.ports.Chat.Chat(ctx, domain.ChatRequest{SessionID: input.SessionID, Message: input.Message})
	if err != nil {
		return nil, ChatOutput{}, fmt.Errorf("chat: %w", err)
	}

	output := ChatOutput{
		SessionID: reply.SessionID,
		Response:  reply.Response,
		Intent:    string(reply.Intent),
		Degraded:  reply.Error,
	}
	for _, p := range reply.Platforms {
		output.Platforms = append(output.Platforms, PlatformRefOut(p))
	}

	return nil, output, nil
}

// handleAnalytics handles the analytics_summary tool invocation.
func (s *Server) handleAnalytics(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ AnalyticsInput,
) (*mcp.CallToolResult, AnalyticsOutput, error) {
	if s.ports.Analytics == nil {
		return nil, AnalyticsOutput{}, ErrAnalyticsUnavailable
	}

	summary, err := s.ports.Analytics.Summary(ctx)
	if err != nil {
		return nil, AnalyticsOutput{}, err
	}

	output := AnalyticsOutput{
		Messages:             summary.Totals.Messages,
		Sessions:             summary.Totals.Sessions,
		PlatformsRecommended: summary.Totals.PlatformsRecommended,
		TodayMessages:        summary.Today.Messages,
		Intents:              make(map[string]int, len(summary.IntentDistribution)),
	}
	for _, kw := range summary.TopKeywords {
		output.TopKeywords = append(output.TopKeywords, kw.Keyword)
	}
	for intent, n := range summary.IntentDistribution {
		output.Intents[string(intent)] = n
	}

	return nil, output, nil
}

func toPlatformOutput(p *domain.Platform) PlatformOutput {
	return PlatformOutput{
		Slug:        p.EffectiveSlug(),
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Pricing:     string(p.Pricing),
		Rating:      p.Rating,
		URL:         p.URL,
		Tags:        p.Tags,
	}
}
