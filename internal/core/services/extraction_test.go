package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsum/internal/core/domain"
)

func txtPayload(t *testing.T, content string) *domain.Payload {
	t.Helper()
	p, err := domain.NewPayload("doc.txt", []byte(content))
	require.NoError(t, err)
	return p
}

func TestExtractionService_CachingIdempotence(t *testing.T) {
	ext := &mockExtractor{types: []domain.FileType{domain.FileTypeTXT}, text: "hello", method: domain.MethodPlainText}
	cache := newMockCache()
	metrics := &mockMetrics{}
	svc := NewExtractionService(newMockRegistry(ext), cache)
	svc.SetMetrics(metrics)
	ctx := context.Background()

	first, err := svc.Extract(ctx, txtPayload(t, "hello"))
	require.NoError(t, err)
	second, err := svc.Extract(ctx, txtPayload(t, "hello"))
	require.NoError(t, err)

	assert.Equal(t, 1, ext.calls())
	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, first.Fingerprint, second.Fingerprint)
	assert.False(t, first.Cached)
	assert.Equal(t, domain.MethodPlainText, first.Method)
	assert.True(t, second.Cached)
	assert.Equal(t, domain.MethodCache, second.Method)
	assert.Equal(t, 1, metrics.hits)
	assert.Equal(t, 1, metrics.misses)
	assert.Equal(t, 1, metrics.extractions)
}

func TestExtractionService_DifferentBytesMiss(t *testing.T) {
	ext := &mockExtractor{types: []domain.FileType{domain.FileTypeTXT}, text: "x", method: domain.MethodPlainText}
	svc := NewExtractionService(newMockRegistry(ext), newMockCache())

	_, err := svc.Extract(context.Background(), txtPayload(t, "one"))
	require.NoError(t, err)
	_, err = svc.Extract(context.Background(), txtPayload(t, "two"))
	require.NoError(t, err)

	assert.Equal(t, 2, ext.calls())
}

func TestExtractionService_WithoutCache(t *testing.T) {
	ext := &mockExtractor{types: []domain.FileType{domain.FileTypeTXT}, text: "x", method: domain.MethodPlainText}
	svc := NewExtractionService(newMockRegistry(ext), nil)

	for i := 0; i < 3; i++ {
		_, err := svc.Extract(context.Background(), txtPayload(t, "same"))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, ext.calls())
}

func TestExtractionService_FailuresAreNotCached(t *testing.T) {
	ext := &mockExtractor{types: []domain.FileType{domain.FileTypeTXT}, err: domain.ErrDecode}
	cache := newMockCache()
	svc := NewExtractionService(newMockRegistry(ext), cache)

	_, err := svc.Extract(context.Background(), txtPayload(t, "\xff"))

	assert.ErrorIs(t, err, domain.ErrDecode)
	n, _ := cache.Len(context.Background())
	assert.Zero(t, n)
}

func TestExtractionService_CacheErrorsDegradeToMiss(t *testing.T) {
	ext := &mockExtractor{types: []domain.FileType{domain.FileTypeTXT}, text: "ok", method: domain.MethodPlainText}
	cache := newMockCache()
	cache.getErr = errors.New("redis down")
	cache.putErr = errors.New("redis down")
	svc := NewExtractionService(newMockRegistry(ext), cache)

	got, err := svc.Extract(context.Background(), txtPayload(t, "ok"))

	require.NoError(t, err)
	assert.Equal(t, "ok", got.Text)
	assert.Equal(t, 1, ext.calls())
}

func TestExtractionService_UnclassifiedErrorsBecomeExtractionErrors(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	ext := &mockExtractor{types: []domain.FileType{domain.FileTypeDOCX}, err: cause}
	svc := NewExtractionService(newMockRegistry(ext), nil)

	payload, err := domain.NewPayload("a.docx", []byte("junk"))
	require.NoError(t, err)
	_, err = svc.Extract(context.Background(), payload)

	var extErr *domain.ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, domain.FileTypeDOCX, extErr.Type)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.ErrorIs(t, err, cause)
}

func TestExtractionService_Rejects(t *testing.T) {
	ext := &mockExtractor{types: []domain.FileType{domain.FileTypeTXT}, text: "x"}
	svc := NewExtractionService(newMockRegistry(ext), nil)

	t.Run("nil payload", func(t *testing.T) {
		_, err := svc.Extract(context.Background(), nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("invalid type", func(t *testing.T) {
		_, err := svc.Extract(context.Background(), &domain.Payload{Name: "x.exe", Type: "exe"})
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	})

	t.Run("valid type without extractor", func(t *testing.T) {
		_, err := svc.Extract(context.Background(), &domain.Payload{Name: "x.csv", Type: domain.FileTypeCSV})
		assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	})

	assert.Equal(t, 0, ext.calls())
}
