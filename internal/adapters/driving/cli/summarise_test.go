package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docsum/internal/adapters/driving/httpapi"
	"github.com/custodia-labs/docsum/internal/core/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func sampleResult(truncated bool) *domain.Result {
	return &domain.Result{
		ID:         "run-1",
		Extraction: &domain.Extraction{Text: "the extracted text"},
		Summary: &domain.Summary{
			Text:        "the summary",
			Strategy:    domain.StrategyMapReduce,
			ChunksTotal: 5,
			ChunksUsed:  3,
			Truncated:   truncated,
			Model:       "mock-model",
		},
	}
}

func TestSummariseCmd_Use(t *testing.T) {
	assert.Equal(t, "summarise [file]", summariseCmd.Use)
	assert.Contains(t, summariseCmd.Aliases, "summarize")
}

func TestSummariseCmd_RequiresExactlyOneArg(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "summarise")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSummariseCmd_PrintsSummary(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.pipeline.result = sampleResult(true)

	out, err := execute(t, "", "summarise", writeFile(t, "report.txt", "hello"))

	require.NoError(t, err)
	assert.Equal(t, "report.txt", ts.pipeline.gotName)
	assert.Contains(t, out, "the summary")
	assert.Contains(t, out, "Strategy: map_reduce, chunks: 3/5, model: mock-model")
	assert.Contains(t, out, "only the first 3 of 5 chunks")
	assert.NotContains(t, out, "the extracted text")
}

func TestSummariseCmd_ShowText(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.pipeline.result = sampleResult(false)

	out, err := execute(t, "", "summarise", "--show-text", writeFile(t, "a.txt", "x"))

	require.NoError(t, err)
	assert.Contains(t, out, "the extracted text")
	assert.NotContains(t, out, "only the first")
}

func TestSummariseCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.pipeline.result = sampleResult(true)

	out, err := execute(t, "", "summarise", "--json", writeFile(t, "a.txt", "x"))
	require.NoError(t, err)

	var resp httpapi.SummaryResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "run-1", resp.ID)
	assert.Equal(t, "the summary", resp.Summary)
	assert.True(t, resp.Truncated)
	assert.Equal(t, "map_reduce", resp.Strategy)
	assert.Empty(t, resp.ExtractedText)
}

func TestSummariseCmd_PipelineError(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.pipeline.err = domain.ErrUnsupportedFormat

	_, err := execute(t, "", "summarise", writeFile(t, "a.exe", "MZ"))
	assert.ErrorIs(t, err, domain.ErrUnsupportedFormat)
}

func TestSummariseCmd_MissingFile(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "", "summarise", filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExtractCmd_PrintsText(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.pipeline.extraction = &domain.Extraction{Text: "plain words", Method: domain.MethodPlainText}

	out, err := execute(t, "", "extract", writeFile(t, "a.txt", "plain words"))

	require.NoError(t, err)
	assert.Equal(t, "plain words\n", out)
}

func TestExtractCmd_JSON(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	fp := domain.NewFingerprint([]byte("x"))
	ts.pipeline.extraction = &domain.Extraction{Text: "x", Fingerprint: fp, Method: domain.MethodCSV, Cached: true}

	out, err := execute(t, "", "extract", "--json", writeFile(t, "a.csv", "x"))
	require.NoError(t, err)

	var resp httpapi.ExtractResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, httpapi.ExtractResponse{Text: "x", Fingerprint: fp.String(), Cached: true, Method: "csv"}, resp)
}

func TestExtractCmd_WithoutPipeline(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	bootstrap = nil

	_, err := execute(t, "", "extract", writeFile(t, "a.txt", "x"))
	assert.ErrorIs(t, err, errNotConfigured)
}

func TestReadDocument(t *testing.T) {
	dir := t.TempDir()
	exact := filepath.Join(dir, "exact.txt")
	require.NoError(t, os.WriteFile(exact, []byte("12345678"), 0o600))

	// A sparse file reports its full size without occupying disk.
	sparse := filepath.Join(dir, "huge.pdf")
	f, err := os.Create(sparse)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(64<<20))
	require.NoError(t, f.Close())

	tests := []struct {
		name    string
		path    string
		limit   int64
		wantErr error
	}{
		{name: "at limit", path: exact, limit: 8},
		{name: "over limit", path: exact, limit: 7, wantErr: domain.ErrPayloadTooLarge},
		{name: "sparse file over limit", path: sparse, limit: domain.MaxPayloadBytes, wantErr: domain.ErrPayloadTooLarge},
		{name: "directory", path: dir, limit: 8, wantErr: domain.ErrInvalidInput},
		{name: "missing", path: filepath.Join(dir, "nope.txt"), limit: 8, wantErr: os.ErrNotExist},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, content, err := readDocument(tt.path, tt.limit)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, content)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "exact.txt", name)
			assert.Equal(t, []byte("12345678"), content)
		})
	}
}

func TestSummariseCmd_OversizedFileNeverReachesPipeline(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	ts.pipeline.maxBytes = 4
	ts.pipeline.result = sampleResult(false)

	_, err := execute(t, "", "summarise", writeFile(t, "big.txt", "more than four bytes"))

	assert.ErrorIs(t, err, domain.ErrPayloadTooLarge)
	assert.Empty(t, ts.pipeline.gotName)
}
