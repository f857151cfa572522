package mcp

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/docsum/internal/core/domain"
)

// DocumentInput is the input schema shared by both tools.
type DocumentInput struct {
	Path string `json:"path" jsonschema:"absolute or working-directory relative path of a pdf, docx, png, jpg, csv or txt file"`
}

// SummariseOutput is the output schema for the summarise_document tool.
type SummariseOutput struct {
	ID          string `json:"id"`
	Summary     string `json:"summary"`
	Strategy    string `json:"strategy"`
	Truncated   bool   `json:"truncated"`
	ChunksTotal int    `json:"chunks_total"`
	ChunksUsed  int    `json:"chunks_used"`
	Model       string `json:"model,omitempty"`
}

// ExtractOutput is the output schema for the extract_text tool.
type ExtractOutput struct {
	Text        string `json:"text"`
	Fingerprint string `json:"fingerprint"`
	Method      string `json:"method"`
	Cached      bool   `json:"cached"`
	Pages       int    `json:"pages,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "summarise_document",
		Description: "Extract the text of a local document and summarise it with the configured LLM",
	}, s.handleSummarise)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "extract_text",
		Description: "Extract the plain text of a local document without summarising it",
	}, s.handleExtract)
}

// handleSummarise handles the summarise_document tool invocation.
func (s *Server) handleSummarise(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, SummariseOutput, error) {
	name, content, err := readDocument(input.Path, s.ports.Pipeline.MaxBytes())
	if err != nil {
		return nil, SummariseOutput{}, err
	}

	result, err := s.ports.Pipeline.Summarise(ctx, name, content)
	if err != nil {
		return nil, SummariseOutput{}, err
	}

	return nil, SummariseOutput{
		ID:          result.ID,
		Summary:     result.Summary.Text,
		Strategy:    string(result.Summary.Strategy),
		Truncated:   result.Summary.Truncated,
		ChunksTotal: result.Summary.ChunksTotal,
		ChunksUsed:  result.Summary.ChunksUsed,
		Model:       result.Summary.Model,
	}, nil
}

// handleExtract handles the extract_text tool invocation.
func (s *Server) handleExtract(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input DocumentInput,
) (*mcp.CallToolResult, ExtractOutput, error) {
	name, content, err := readDocument(input.Path, s.ports.Pipeline.MaxBytes())
	if err != nil {
		return nil, ExtractOutput{}, err
	}

	extraction, err := s.ports.Pipeline.Extract(ctx, name, content)
	if err != nil {
		return nil, ExtractOutput{}, err
	}

	return nil, ExtractOutput{
		Text:        extraction.Text,
		Fingerprint: extraction.Fingerprint.String(),
		Method:      string(extraction.Method),
		Cached:      extraction.Cached,
		Pages:       extraction.Pages,
	}, nil
}

// readDocument loads a file of at most limit bytes and returns its base name
// for type detection. Oversized files are refused from their size alone.
func readDocument(path string, limit int64) (string, []byte, error) {
	if path == "" {
		return "", nil, fmt.Errorf("path is required")
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if info.IsDir() {
		return "", nil, fmt.Errorf("%w: %s is a directory", domain.ErrInvalidInput, path)
	}
	if limit > 0 && info.Size() > limit {
		return "", nil, fmt.Errorf("%w: %s is %d bytes, limit is %d", domain.ErrPayloadTooLarge, path, info.Size(), limit)
	}

	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if limit > 0 {
		// The file may have grown since Stat.
		r = io.LimitReader(f, limit+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return "", nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if limit > 0 && int64(len(content)) > limit {
		return "", nil, fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrPayloadTooLarge, path, limit)
	}
	return filepath.Base(path), content, nil
}
