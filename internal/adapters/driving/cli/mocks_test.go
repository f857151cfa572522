package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driving"
)

// mockPipelineService is a mock implementation of driving.PipelineService.
type mockPipelineService struct {
	result     *domain.Result
	extraction *domain.Extraction
	err        error
	gotName    string
	maxBytes   int64
}

func (m *mockPipelineService) MaxBytes() int64 {
	if m.maxBytes == 0 {
		return domain.MaxPayloadBytes
	}
	return m.maxBytes
}

func (m *mockPipelineService) Summarise(_ context.Context, name string, _ []byte) (*domain.Result, error) {
	m.gotName = name
	return m.result, m.err
}

func (m *mockPipelineService) Extract(_ context.Context, name string, _ []byte) (*domain.Extraction, error) {
	m.gotName = name
	return m.extraction, m.err
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings    domain.AppSettings
	setKey      string
	setValue    string
	setErr      error
	validateErr error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{settings: domain.DefaultAppSettings()}
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	m.setKey, m.setValue = key, value
	return m.setErr
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.settings.LLM.Provider = provider
	m.settings.LLM.Model = model
	m.settings.LLM.APIKey = apiKey
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"llm.provider", "summary.max_chunks"}
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// mockCacheService is a mock implementation of driving.CacheService.
type mockCacheService struct {
	entries int
	cleared bool
	err     error
}

func (m *mockCacheService) Stats(_ context.Context) (*driving.CacheStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &driving.CacheStats{Backend: "memory", Entries: m.entries}, nil
}

func (m *mockCacheService) Clear(_ context.Context) error {
	if m.err != nil {
		return m.err
	}
	m.cleared = true
	m.entries = 0
	return nil
}

// testServices holds the mocks wired by setupTestServices.
type testServices struct {
	pipeline *mockPipelineService
	settings *mockSettingsService
	cache    *mockCacheService
	checkErr error
	closed   int
}

// setupTestServices installs a bootstrap returning mocks and resets flags on cleanup.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		pipeline: &mockPipelineService{},
		settings: newMockSettingsService(),
		cache:    &mockCacheService{},
	}
	original := bootstrap
	bootstrap = func(_ context.Context, _ Options) (*Services, error) {
		return &Services{
			Pipeline: ts.pipeline,
			Settings: ts.settings,
			Cache:    ts.cache,
			CheckLLM: func(context.Context) error { return ts.checkErr },
			Close: func() error {
				ts.closed++
				return nil
			},
		}, nil
	}
	return ts, func() {
		bootstrap = original
		resetFlags(rootCmd)
	}
}

// resetFlags restores every flag to its default so tests do not leak state.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		f.Value.Set(f.DefValue) //nolint:errcheck // defaults always parse
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(bytes.NewBufferString(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		teardown() //nolint:errcheck // mocks never fail
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

var errBoom = errors.New("boom")
