package mcp

import (
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
	"github.com/custodia-labs/docsum/internal/core/ports/driving"
)

// Ports aggregates the services the MCP server exposes.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pipeline extracts and summarises documents.
	Pipeline driving.PipelineService

	// Cache reports extraction cache statistics.
	Cache driving.CacheService

	// Prompts serves the active prompt templates.
	Prompts driven.PromptStore
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Pipeline == nil {
		return ErrMissingPipelineService
	}
	// Cache and Prompts are optional
	return nil
}
