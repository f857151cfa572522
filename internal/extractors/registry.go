package extractors

import (
	"slices"
	"sync"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps file types to extractors.
type Registry struct {
	mu     sync.RWMutex
	byType map[domain.FileType]driven.Extractor
}

// NewRegistry creates an empty extractor registry.
func NewRegistry() *Registry {
	return &Registry{
		byType: make(map[domain.FileType]driven.Extractor),
	}
}

// Register adds an extractor for every type it supports.
// A later registration replaces an earlier one for the same type.
func (r *Registry) Register(extractor driven.Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range extractor.SupportedTypes() {
		r.byType[t] = extractor
	}
}

// Lookup returns the extractor for a file type.
func (r *Registry) Lookup(fileType domain.FileType) (driven.Extractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.byType[fileType]
	return e, ok
}

// SupportedTypes returns all registered file types, sorted.
func (r *Registry) SupportedTypes() []domain.FileType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]domain.FileType, 0, len(r.byType))
	for t := range r.byType {
		types = append(types, t)
	}
	slices.Sort(types)
	return types
}
