package memory

import (
	"context"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
)

// Ensure ExtractionCache implements the interface.
var _ driven.ExtractionCache = (*ExtractionCache)(nil)

// EvictionPolicy bounds the in-memory cache.
type EvictionPolicy struct {
	capacity int
}

// NeverEvict keeps every entry for the life of the process.
func NeverEvict() EvictionPolicy {
	return EvictionPolicy{}
}

// LRU keeps at most capacity entries, dropping the least recently used.
// A non-positive capacity never evicts.
func LRU(capacity int) EvictionPolicy {
	return EvictionPolicy{capacity: max(capacity, 0)}
}

// Capacity returns the entry limit, zero meaning unbounded.
func (p EvictionPolicy) Capacity() int {
	return p.capacity
}

// store is the storage behind the cache for one policy.
// Implementations are safe for concurrent use.
type store interface {
	Get(fp domain.Fingerprint) (string, bool)
	Add(fp domain.Fingerprint, text string) bool
	Len() int
	Purge()
}

func (p EvictionPolicy) newStore() store {
	if p.capacity > 0 {
		// lru.New only fails for a non-positive size.
		c, _ := lru.New[domain.Fingerprint, string](p.capacity)
		return c
	}
	return &mapStore{entries: make(map[domain.Fingerprint]string)}
}

// mapStore is the unbounded store.
type mapStore struct {
	mu      sync.RWMutex
	entries map[domain.Fingerprint]string
}

func (s *mapStore) Get(fp domain.Fingerprint) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	text, ok := s.entries[fp]
	return text, ok
}

func (s *mapStore) Add(fp domain.Fingerprint, text string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[fp] = text
	return false
}

func (s *mapStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *mapStore) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[domain.Fingerprint]string)
}

// ExtractionCache is an in-process fingerprint to text map.
type ExtractionCache struct {
	policy EvictionPolicy
	store  store
}

// NewExtractionCache creates an empty cache with the given policy.
func NewExtractionCache(policy EvictionPolicy) *ExtractionCache {
	return &ExtractionCache{policy: policy, store: policy.newStore()}
}

// Get returns the cached text and marks the entry as recently used.
func (c *ExtractionCache) Get(_ context.Context, fp domain.Fingerprint) (string, bool, error) {
	text, ok := c.store.Get(fp)
	return text, ok, nil
}

// Put stores text, evicting the least recently used entry when full.
func (c *ExtractionCache) Put(_ context.Context, fp domain.Fingerprint, text string) error {
	c.store.Add(fp, text)
	return nil
}

// Len returns the number of cached entries.
func (c *ExtractionCache) Len(_ context.Context) (int, error) {
	return c.store.Len(), nil
}

// Clear removes every entry.
func (c *ExtractionCache) Clear(_ context.Context) error {
	c.store.Purge()
	return nil
}
