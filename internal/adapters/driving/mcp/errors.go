// Package mcp provides an MCP (Model Context Protocol) server adapter for docsum.
// It lets AI assistants extract and summarise local documents.
package mcp

import "errors"

// ErrMissingPipelineService is returned when the pipeline service is not provided.
var ErrMissingPipelineService = errors.New("mcp: pipeline service is required")
