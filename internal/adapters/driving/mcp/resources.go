package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docsum/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for docsum resources.
	uriScheme = "docsum://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for cache statistics.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "cache",
		Name:        "cache",
		Description: "Extraction cache backend and entry count",
		MIMEType:    "application/json",
	}, s.handleCacheResource)

	// Template for prompt templates.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "prompts/{name}",
		Name:        "prompt",
		Description: "Active map or combine prompt template",
		MIMEType:    "text/plain",
	}, s.handlePromptResource)
}

// handleCacheResource returns cache statistics.
func (s *Server) handleCacheResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type cacheInfo struct {
		Backend string `json:"backend"`
		Entries int    `json:"entries"`
	}

	info := cacheInfo{Backend: "none"}
	if s.ports.Cache != nil {
		stats, err := s.ports.Cache.Stats(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading cache stats: %w", err)
		}
		info = cacheInfo{Backend: stats.Backend, Entries: stats.Entries}
	}

	data, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("marshalling cache stats: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handlePromptResource returns the named prompt template.
func (s *Server) handlePromptResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	name := extractPromptName(req.Params.URI)
	if name == "" || s.ports.Prompts == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	template, err := s.ports.Prompts.Load(name)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("load prompt %s: %w", name, err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "text/plain",
			Text:     template,
		}},
	}, nil
}

// extractPromptName extracts the prompt name from a URI like "docsum://prompts/{name}".
func extractPromptName(uri string) string {
	prefix := uriScheme + "prompts/"
	if !strings.HasPrefix(uri, prefix) {
		return ""
	}
	name := strings.TrimPrefix(uri, prefix)
	if name == "" || strings.Contains(name, "/") {
		return ""
	}
	return name
}
