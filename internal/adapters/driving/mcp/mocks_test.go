package mcp

import (
	"context"
	"errors"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
	"github.com/custodia-labs/docsum/internal/core/ports/driving"
)

// mockPipelineService is a mock implementation of driving.PipelineService.
type mockPipelineService struct {
	result     *domain.Result
	extraction *domain.Extraction
	err        error

	gotName    string
	gotContent []byte
	maxBytes   int64
}

func (m *mockPipelineService) MaxBytes() int64 {
	if m.maxBytes == 0 {
		return domain.MaxPayloadBytes
	}
	return m.maxBytes
}

func (m *mockPipelineService) Summarise(_ context.Context, name string, content []byte) (*domain.Result, error) {
	m.gotName, m.gotContent = name, content
	return m.result, m.err
}

func (m *mockPipelineService) Extract(_ context.Context, name string, content []byte) (*domain.Extraction, error) {
	m.gotName, m.gotContent = name, content
	return m.extraction, m.err
}

// mockCacheService is a mock implementation of driving.CacheService.
type mockCacheService struct {
	stats *driving.CacheStats
	err   error
}

func (m *mockCacheService) Stats(_ context.Context) (*driving.CacheStats, error) {
	return m.stats, m.err
}

func (m *mockCacheService) Clear(_ context.Context) error {
	return m.err
}

// mockPromptStore is a mock implementation of driven.PromptStore.
type mockPromptStore struct{}

func (mockPromptStore) Load(name string) (string, error) {
	if name == driven.PromptMap {
		return "Summarise: %s", nil
	}
	return "", domain.ErrNotFound
}

func (mockPromptStore) Reload() {}

var errPromptRead = errors.New("permission denied")

// failingPromptStore fails every load with a read error.
type failingPromptStore struct{}

func (failingPromptStore) Load(string) (string, error) { return "", errPromptRead }

func (failingPromptStore) Reload() {}
