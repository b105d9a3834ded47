package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

// uriScheme is the custom URI scheme for directory resources.
const uriScheme = "aidir://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "categories",
		Name:        "categories",
		Description: "Primary platform categories with their platform counts",
		MIMEType:    "application/json",
	}, s.handleCategoriesResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "platforms/{slug}",
		Name:        "platform",
		Description: "A single directory entry",
		MIMEType:    "application/json",
	}, s.handlePlatformResource)
}

// handleCategoriesResource returns the category counts.
func (s *Server) handleCategoriesResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	categories := s.ports.Search.Categories()
	if categories == nil {
		categories = []domain.CategoryCount{}
	}
	return jsonResource(req.Params.URI, categories)
}

// handlePlatformResource returns one platform by slug.
func (s *Server) handlePlatformResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	slug := extractPlatformSlug(req.Params.URI)
	if slug == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	platform, err := s.ports.Search.Platform(slug)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting platform: %w", err)
	}

	return jsonResource(req.Params.URI, toPlatformOutput(platform))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractPlatformSlug extracts the slug from a URI like aidir://platforms/{slug}.
func extractPlatformSlug(uri string) string {
	const prefix = uriScheme + "platforms/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	slug := strings.TrimPrefix(uri, prefix)
	if strings.Contains(slug, "/") {
		return ""
	}
	return slug
}
