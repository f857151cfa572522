package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
)

func newTestService(t *testing.T, handler http.HandlerFunc) *CompletionService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	svc, err := NewCompletionService(Config{APIKey: "ak-test", BaseURL: server.URL})
	require.NoError(t, err)
	return svc
}

func TestNewCompletionService(t *testing.T) {
	_, err := NewCompletionService(Config{})
	assert.Error(t, err)

	svc, err := NewCompletionService(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, svc.ModelName())
	assert.Equal(t, DefaultMaxTokens, svc.maxTokens)
}

func TestComplete_Success(t *testing.T) {
	var got messagesRequest
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "ak-test", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"content":[{"type":"text","text":"Title"},{"type":"tool_use"},{"type":"text","text":"\n1. point"}],` +
			`"usage":{"input_tokens":40,"output_tokens":9}}`))
	})

	out, err := svc.Complete(context.Background(), "prompt")

	require.NoError(t, err)
	c := out.(*driven.Completion)
	assert.Equal(t, "Title\n1. point", c.Text)
	assert.Equal(t, DefaultModel, c.Model)
	assert.Equal(t, 40, c.PromptTokens)
	assert.Equal(t, 9, c.CompletionTokens)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	assert.Zero(t, got.Temperature)
}

func TestComplete_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"forbidden", http.StatusForbidden, `{}`, domain.ErrCompletionAuth},
		{"overloaded", 529, `{"error":{"type":"overloaded_error"}}`, domain.ErrCompletionTransport},
		{"no text blocks", http.StatusOK, `{"content":[]}`, domain.ErrEmptyCompletion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})
			_, err := svc.Complete(context.Background(), "p")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestPing(t *testing.T) {
	svc := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/models", r.URL.Path)
		w.WriteHeader(http.StatusUnauthorized)
	})
	assert.ErrorIs(t, svc.Ping(context.Background()), domain.ErrCompletionAuth)
}
