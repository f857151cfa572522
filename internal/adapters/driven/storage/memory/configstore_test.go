package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsum/internal/core/ports/driven"
)

func TestConfigStore_InterfaceCompliance(t *testing.T) {
	var _ driven.ConfigStore = (*ConfigStore)(nil)
}

func TestConfigStore_Getters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("llm.provider", "ollama"))
	require.NoError(t, store.Set("summary.max_chunks", int64(5)))
	require.NoError(t, store.Set("extraction.pdf_workers", 3))
	require.NoError(t, store.Set("llm.requests_per_second", 0.5))
	require.NoError(t, store.Set("cache.enabled", true))

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("llm.provider"), "ollama"},
		{"int from int64", store.GetInt("summary.max_chunks"), 5},
		{"int from int", store.GetInt("extraction.pdf_workers"), 3},
		{"int from float", store.GetInt("llm.requests_per_second"), 0},
		{"float", store.GetFloat("llm.requests_per_second"), 0.5},
		{"float from int64", store.GetFloat("summary.max_chunks"), 5.0},
		{"float from int", store.GetFloat("extraction.pdf_workers"), 3.0},
		{"bool", store.GetBool("cache.enabled"), true},
		{"missing", store.GetString("missing"), ""},
		{"missing float", store.GetFloat("missing"), 0.0},
		{"wrong type", store.GetBool("llm.provider"), false},
		{"wrong type float", store.GetFloat("llm.provider"), 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_SetOverwrites(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("server.addr", ":8000"))
	require.NoError(t, store.Set("server.addr", ":9000"))

	assert.Equal(t, ":9000", store.GetString("server.addr"))
}

func TestConfigStore_PersistenceIsNoOp(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("k", "v"))

	assert.NoError(t, store.Save())
	assert.NoError(t, store.Load())
	assert.Equal(t, "v", store.GetString("k"))
	assert.Equal(t, ":memory:", store.Path())
}

func TestConfigStore_Concurrency(t *testing.T) {
	store := NewConfigStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = store.Set("retry.attempts", i)
		}(i)
		go func() {
			defer wg.Done()
			_ = store.GetInt("retry.attempts")
		}()
	}
	wg.Wait()

	_, ok := store.Get("retry.attempts")
	assert.True(t, ok)
}
