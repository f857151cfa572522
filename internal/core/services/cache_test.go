package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsum/internal/core/domain"
)

func TestCacheService_Stats(t *testing.T) {
	ctx := context.Background()
	cache := newMockCache()
	require.NoError(t, cache.Put(ctx, domain.NewFingerprint([]byte("a")), "A"))
	require.NoError(t, cache.Put(ctx, domain.NewFingerprint([]byte("b")), "B"))

	service := NewCacheService("memory", cache)
	stats, err := service.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "memory", stats.Backend)
	assert.Equal(t, 2, stats.Entries)
}

func TestCacheService_Clear(t *testing.T) {
	ctx := context.Background()
	cache := newMockCache()
	require.NoError(t, cache.Put(ctx, domain.NewFingerprint([]byte("a")), "A"))

	service := NewCacheService("sqlite", cache)
	require.NoError(t, service.Clear(ctx))

	stats, err := service.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
}

func TestCacheService_Disabled(t *testing.T) {
	service := NewCacheService("none", nil)

	stats, err := service.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "none", stats.Backend)
	assert.Zero(t, stats.Entries)
	assert.NoError(t, service.Clear(context.Background()))
}

// failingCache fails Len and Clear.
type failingCache struct{ mockCache }

func (failingCache) Len(context.Context) (int, error) { return 0, errors.New("down") }
func (failingCache) Clear(context.Context) error      { return errors.New("down") }

func TestCacheService_BackendErrors(t *testing.T) {
	service := NewCacheService("redis", &failingCache{})

	_, err := service.Stats(context.Background())
	assert.ErrorContains(t, err, "count redis cache")
	assert.ErrorContains(t, service.Clear(context.Background()), "clear redis cache")
}
