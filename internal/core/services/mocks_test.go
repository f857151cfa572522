package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockCompletion implements driven.CompletionService for testing.
// It answers each prompt with respond, or with err when set.
type mockCompletion struct {
	mu      sync.Mutex
	prompts []string
	respond func(prompt string) (any, error)
}

func (m *mockCompletion) Complete(_ context.Context, prompt string) (any, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, prompt)
	m.mu.Unlock()
	if m.respond == nil {
		return &driven.Completion{Text: "summary"}, nil
	}
	return m.respond(prompt)
}

func (m *mockCompletion) ModelName() string            { return "mock-model" }
func (m *mockCompletion) Ping(_ context.Context) error { return nil }
func (m *mockCompletion) Close() error                 { return nil }

func (m *mockCompletion) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// countPrefix counts recorded prompts starting with prefix.
func (m *mockCompletion) countPrefix(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.prompts {
		if strings.HasPrefix(p, prefix) {
			n++
		}
	}
	return n
}

// mockPrompts implements driven.PromptStore with tagged templates so tests can
// tell map calls from combine calls.
type mockPrompts struct {
	err error
}

func (m *mockPrompts) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	switch name {
	case driven.PromptMap:
		return "MAP:%s", nil
	case driven.PromptCombine:
		return "COMBINE:%s", nil
	default:
		return "", domain.ErrNotFound
	}
}

func (m *mockPrompts) Reload() {}

// mockExtractor implements driven.Extractor and counts invocations.
type mockExtractor struct {
	mu     sync.Mutex
	types  []domain.FileType
	text   string
	method domain.ExtractionMethod
	err    error
	count  int
}

func (m *mockExtractor) SupportedTypes() []domain.FileType { return m.types }

func (m *mockExtractor) Extract(_ context.Context, _ *domain.Payload) (*driven.ExtractResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count++
	if m.err != nil {
		return nil, m.err
	}
	return &driven.ExtractResult{Text: m.text, Method: m.method}, nil
}

func (m *mockExtractor) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}

// mockRegistry implements driven.ExtractorRegistry.
type mockRegistry struct {
	byType map[domain.FileType]driven.Extractor
}

func newMockRegistry(extractors ...driven.Extractor) *mockRegistry {
	r := &mockRegistry{byType: make(map[domain.FileType]driven.Extractor)}
	for _, e := range extractors {
		r.Register(e)
	}
	return r
}

func (r *mockRegistry) Register(e driven.Extractor) {
	for _, t := range e.SupportedTypes() {
		r.byType[t] = e
	}
}

func (r *mockRegistry) Lookup(t domain.FileType) (driven.Extractor, bool) {
	e, ok := r.byType[t]
	return e, ok
}

func (r *mockRegistry) SupportedTypes() []domain.FileType {
	types := make([]domain.FileType, 0, len(r.byType))
	for t := range r.byType {
		types = append(types, t)
	}
	return types
}

// mockCache implements driven.ExtractionCache.
type mockCache struct {
	mu      sync.Mutex
	entries map[domain.Fingerprint]string
	getErr  error
	putErr  error
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[domain.Fingerprint]string)}
}

func (c *mockCache) Get(_ context.Context, fp domain.Fingerprint) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return "", false, c.getErr
	}
	text, ok := c.entries[fp]
	return text, ok, nil
}

func (c *mockCache) Put(_ context.Context, fp domain.Fingerprint, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.putErr != nil {
		return c.putErr
	}
	c.entries[fp] = text
	return nil
}

func (c *mockCache) Len(_ context.Context) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries), nil
}

func (c *mockCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[domain.Fingerprint]string)
	return nil
}

// mockMetrics implements driven.Metrics and records what it was told.
type mockMetrics struct {
	mu          sync.Mutex
	hits        int
	misses      int
	extractions int
	outcomes    []string
	summaries   []string
}

func (m *mockMetrics) ObserveCache(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func (m *mockMetrics) ObserveExtraction(_, _ string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.extractions++
}

func (m *mockMetrics) ObserveCompletion(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
}

func (m *mockMetrics) ObserveSummary(strategy string, _ bool, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summaries = append(m.summaries, strategy)
}

// mockConfigStore implements driven.ConfigStore in memory.
type mockConfigStore struct {
	values map[string]any
	setErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	s, _ := m.values[key].(string)
	return s
}

func (m *mockConfigStore) GetInt(key string) int {
	switch v := m.values[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	}
	return 0
}

func (m *mockConfigStore) GetFloat(key string) float64 {
	f, _ := m.values[key].(float64)
	return f
}

func (m *mockConfigStore) GetBool(key string) bool {
	b, _ := m.values[key].(bool)
	return b
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Save() error  { return nil }
func (m *mockConfigStore) Load() error  { return nil }
func (m *mockConfigStore) Path() string { return ":memory:" }

// errAlwaysFails is returned by completion stubs that never succeed.
var errAlwaysFails = errors.New("upstream unavailable")

// noEnv is an environment lookup that finds nothing.
func noEnv(string) (string, bool) { return "", false }

// fastRetry keeps retry tests quick while still exercising backoff.
func fastRetry() RetryPolicy {
	return RetryPolicy{Attempts: 2, Base: 20 * time.Millisecond, Max: 100 * time.Millisecond, AttemptTimeout: time.Second}
}
