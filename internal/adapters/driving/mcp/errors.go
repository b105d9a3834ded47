// Package mcp provides an MCP (Model Context Protocol) server adapter for aidir.
// It lets AI assistants search the platform directory and chat with the
// recommendation assistant.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrChatUnavailable is returned by the chat tool when no chat service is wired.
var ErrChatUnavailable = errors.New("mcp: chat is not available")

// ErrAnalyticsUnavailable is returned by the analytics tool when no
// analytics service is wired.
var ErrAnalyticsUnavailable = errors.New("mcp: analytics are not available")
