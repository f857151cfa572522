package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/extractors"
	"github.com/custodia-labs/docsum/internal/extractors/plaintext"
	"github.com/custodia-labs/docsum/internal/postprocessors/chunker"
	"github.com/custodia-labs/docsum/internal/tokeniser"
)

func newTestPipeline(ext *mockExtractor, llm *mockCompletion) *PipelineService {
	extraction := NewExtractionService(newMockRegistry(ext), newMockCache())
	summary := newTestSummariser(llm, testSummariserConfig())
	return NewPipelineService(extraction, summary, 1024)
}

func TestPipeline_RejectsUnsupportedBeforeExtraction(t *testing.T) {
	ext := &mockExtractor{types: domain.AllFileTypes(), text: "x"}
	llm := &mockCompletion{}
	p := newTestPipeline(ext, llm)

	_, err := p.Summarise(context.Background(), "installer.exe", []byte("MZ..."))

	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
	assert.Equal(t, 0, ext.calls())
	assert.Equal(t, 0, llm.calls())
}

func TestPipeline_RejectsOversizedBeforeExtraction(t *testing.T) {
	ext := &mockExtractor{types: domain.AllFileTypes(), text: "x"}
	p := newTestPipeline(ext, &mockCompletion{})

	_, err := p.Summarise(context.Background(), "big.txt", make([]byte, 1025))

	assert.ErrorIs(t, err, domain.ErrPayloadTooLarge)
	assert.Equal(t, 0, ext.calls())
}

func TestPipeline_SizeCheckedBeforeType(t *testing.T) {
	p := newTestPipeline(&mockExtractor{}, &mockCompletion{})

	_, err := p.Extract(context.Background(), "big.exe", make([]byte, 2048))

	assert.ErrorIs(t, err, domain.ErrPayloadTooLarge)
}

func TestPipeline_EmptyExtraction(t *testing.T) {
	ext := &mockExtractor{types: []domain.FileType{domain.FileTypePDF}, text: " \n\t "}
	llm := &mockCompletion{}
	p := newTestPipeline(ext, llm)

	_, err := p.Summarise(context.Background(), "scan.pdf", []byte("%PDF-1.4"))

	assert.ErrorIs(t, err, domain.ErrEmptyExtraction)
	assert.Equal(t, 0, llm.calls())
}

func TestPipeline_DefaultLimit(t *testing.T) {
	p := NewPipelineService(nil, nil, 0)
	assert.Equal(t, int64(domain.MaxPayloadBytes), p.MaxBytes())
}

func TestPipeline_EndToEndPlainText(t *testing.T) {
	registry := extractors.NewRegistry()
	registry.Register(plaintext.New())
	extraction := NewExtractionService(registry, newMockCache())

	llm := &mockCompletion{respond: func(prompt string) (any, error) {
		return "Title\n\nIntro.\n\n1. Hello world.", nil
	}}
	summary := NewSummariser(llm, &mockPrompts{}, chunker.New(), tokeniser.New(), testSummariserConfig())
	p := NewPipelineService(extraction, summary, domain.MaxPayloadBytes)

	result, err := p.Summarise(context.Background(), "hello.txt", []byte("Hello world.\n\n\n\nSecond paragraph."))

	require.NoError(t, err)
	assert.NotEmpty(t, result.ID)
	assert.Equal(t, "hello.txt", result.Name)
	assert.Equal(t, "Hello world.\n\n\n\nSecond paragraph.", result.Extraction.Text)
	assert.Equal(t, domain.MethodPlainText, result.Extraction.Method)
	assert.Equal(t, domain.StrategyDirect, result.Summary.Strategy)
	assert.True(t, strings.HasPrefix(result.Summary.Text, "Title"))

	require.Equal(t, 1, llm.calls())
	assert.Equal(t, "COMBINE:Hello world.\n\nSecond paragraph.", llm.prompts[0])
}

func TestPipeline_EndToEndReturnsCompletionVerbatim(t *testing.T) {
	registry := extractors.NewRegistry()
	registry.Register(plaintext.New())
	extraction := NewExtractionService(registry, newMockCache())

	const completion = "# Test Document\n\nA short greeting.\n\n1. Hello world.\n2. It is a test.\n"
	llm := &mockCompletion{respond: func(string) (any, error) {
		return completion, nil
	}}
	summary := NewSummariser(llm, &mockPrompts{}, chunker.New(), tokeniser.New(), testSummariserConfig())
	p := NewPipelineService(extraction, summary, domain.MaxPayloadBytes)

	result, err := p.Summarise(context.Background(), "doc.txt", []byte("Hello world.\n\nThis is a test document."))

	require.NoError(t, err)
	assert.Equal(t, completion, result.Summary.Text)
	assert.Equal(t, domain.StrategyDirect, result.Summary.Strategy)
	assert.False(t, result.Summary.Truncated)
	assert.Equal(t, "Hello world.\n\nThis is a test document.", result.Extraction.Text)

	require.Equal(t, 1, llm.calls())
	assert.Equal(t, "COMBINE:Hello world.\n\nThis is a test document.", llm.prompts[0])
}
