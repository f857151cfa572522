package mcp

import (
	"context"
	"errors"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsum/internal/core/ports/driving"
)

func TestExtractPromptName(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{"valid prompt URI", "docsum://prompts/map", "map"},
		{"invalid prefix", "file://prompts/map", ""},
		{"nested path", "docsum://prompts/map/extra", ""},
		{"missing name", "docsum://prompts/", ""},
		{"empty URI", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractPromptName(tt.uri))
		})
	}
}

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestServer_handleCacheResource(t *testing.T) {
	ctx := context.Background()

	t.Run("reports stats", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Pipeline: &mockPipelineService{},
			Cache:    &mockCacheService{stats: &driving.CacheStats{Backend: "sqlite", Entries: 7}},
		})
		require.NoError(t, err)

		result, err := server.handleCacheResource(ctx, readRequest("docsum://cache"))
		require.NoError(t, err)
		require.Len(t, result.Contents, 1)
		assert.JSONEq(t, `{"backend":"sqlite","entries":7}`, result.Contents[0].Text)
	})

	t.Run("no cache service", func(t *testing.T) {
		server, err := NewServer(&Ports{Pipeline: &mockPipelineService{}})
		require.NoError(t, err)

		result, err := server.handleCacheResource(ctx, readRequest("docsum://cache"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"backend":"none","entries":0}`, result.Contents[0].Text)
	})

	t.Run("stats failure", func(t *testing.T) {
		server, err := NewServer(&Ports{
			Pipeline: &mockPipelineService{},
			Cache:    &mockCacheService{err: errors.New("redis down")},
		})
		require.NoError(t, err)

		_, err = server.handleCacheResource(ctx, readRequest("docsum://cache"))
		assert.ErrorContains(t, err, "redis down")
	})
}

func TestServer_handlePromptResource(t *testing.T) {
	ctx := context.Background()
	server, err := NewServer(&Ports{Pipeline: &mockPipelineService{}, Prompts: mockPromptStore{}})
	require.NoError(t, err)

	result, err := server.handlePromptResource(ctx, readRequest("docsum://prompts/map"))
	require.NoError(t, err)
	assert.Equal(t, "Summarise: %s", result.Contents[0].Text)

	_, err = server.handlePromptResource(ctx, readRequest("docsum://prompts/unknown"))
	assert.Error(t, err)

	bare, err := NewServer(&Ports{Pipeline: &mockPipelineService{}})
	require.NoError(t, err)
	_, err = bare.handlePromptResource(ctx, readRequest("docsum://prompts/map"))
	assert.Error(t, err)
}

func TestServer_handlePromptResource_LoadFailure(t *testing.T) {
	server, err := NewServer(&Ports{Pipeline: &mockPipelineService{}, Prompts: failingPromptStore{}})
	require.NoError(t, err)

	_, err = server.handlePromptResource(context.Background(), readRequest("docsum://prompts/map"))

	require.ErrorIs(t, err, errPromptRead)
	assert.Contains(t, err.Error(), "load prompt map")
}
