package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
	"github.com/custodia-labs/docsum/internal/core/ports/driving"
	"github.com/custodia-labs/docsum/internal/logger"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// EnvPrefix prefixes environment overrides: llm.model is read from DOCSUM_LLM_MODEL.
const EnvPrefix = "DOCSUM_"

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyLLMTimeout      = "llm.timeout"
	keyLLMRPS          = "llm.requests_per_second"
	keyTokenBudget     = "summary.token_budget"
	keyChunkSize       = "summary.chunk_size"
	keyChunkOverlap    = "summary.chunk_overlap"
	keyMaxChunks       = "summary.max_chunks"
	keyRetryAttempts   = "retry.attempts"
	keyRetryBase       = "retry.base"
	keyRetryMax        = "retry.max"
	keyOCRMaxPages     = "extraction.ocr_max_pages"
	keyImageSize       = "extraction.image_size"
	keyPDFWorkers      = "extraction.pdf_workers"
	keyPDFReader       = "extraction.pdf_reader"
	keyTesseractLang   = "extraction.tesseract_lang"
	keyRasterDPI       = "extraction.raster_dpi"
	keyCacheBackend    = "cache.backend"
	keyCacheMaxEntries = "cache.max_entries"
	keyCacheTTL        = "cache.ttl"
	keyCacheRedisAddr  = "cache.redis_addr"
	keyServerAddr      = "server.addr"
	keyServerMaxUpload = "server.max_upload_bytes"
)

// providerKeyEnv names the conventional API key variable of each cloud provider.
//
//nolint:gosec // G101: environment variable names, not credentials.
var providerKeyEnv = map[domain.AIProvider]string{
	domain.AIProviderGroq:      "GROQ_API_KEY",
	domain.AIProviderOpenAI:    "OPENAI_API_KEY",
	domain.AIProviderAnthropic: "ANTHROPIC_API_KEY",
}

type valueKind int

const (
	kindString valueKind = iota
	kindInt
	kindFloat
	kindDuration
)

// setting binds a config key to a field of AppSettings.
type setting struct {
	key   string
	kind  valueKind
	apply func(s *domain.AppSettings, raw string) error
}

var settingTable = []setting{
	{keyLLMProvider, kindString, func(s *domain.AppSettings, raw string) error {
		p := domain.AIProvider(raw)
		if !p.IsValid() {
			return fmt.Errorf("unknown provider %q", raw)
		}
		s.LLM.Provider = p
		return nil
	}},
	{keyLLMModel, kindString, func(s *domain.AppSettings, raw string) error { s.LLM.Model = raw; return nil }},
	{keyLLMBaseURL, kindString, func(s *domain.AppSettings, raw string) error { s.LLM.BaseURL = raw; return nil }},
	{keyLLMAPIKey, kindString, func(s *domain.AppSettings, raw string) error { s.LLM.APIKey = raw; return nil }},
	{keyLLMTimeout, kindDuration, durationInto(func(s *domain.AppSettings) *time.Duration { return &s.LLM.Timeout })},
	{keyLLMRPS, kindFloat, func(s *domain.AppSettings, raw string) error {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return fmt.Errorf("want a non-negative number, got %q", raw)
		}
		s.LLM.RequestsPerSecond = v
		return nil
	}},
	{keyTokenBudget, kindInt, intInto(1, func(s *domain.AppSettings) *int { return &s.Summary.TokenBudget })},
	{keyChunkSize, kindInt, intInto(1, func(s *domain.AppSettings) *int { return &s.Summary.ChunkSize })},
	{keyChunkOverlap, kindInt, intInto(0, func(s *domain.AppSettings) *int { return &s.Summary.ChunkOverlap })},
	{keyMaxChunks, kindInt, intInto(0, func(s *domain.AppSettings) *int { return &s.Summary.MaxChunks })},
	{keyRetryAttempts, kindInt, intInto(1, func(s *domain.AppSettings) *int { return &s.Retry.Attempts })},
	{keyRetryBase, kindDuration, durationInto(func(s *domain.AppSettings) *time.Duration { return &s.Retry.Base })},
	{keyRetryMax, kindDuration, durationInto(func(s *domain.AppSettings) *time.Duration { return &s.Retry.Max })},
	{keyOCRMaxPages, kindInt, func(s *domain.AppSettings, raw string) error {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 || v > domain.MaxOCRPages {
			return fmt.Errorf("want 1 to %d, got %q", domain.MaxOCRPages, raw)
		}
		s.Extraction.OCRMaxPages = v
		return nil
	}},
	{keyImageSize, kindInt, intInto(1, func(s *domain.AppSettings) *int { return &s.Extraction.ImageSize })},
	{keyPDFWorkers, kindInt, intInto(0, func(s *domain.AppSettings) *int { return &s.Extraction.PDFWorkers })},
	{keyPDFReader, kindString, func(s *domain.AppSettings, raw string) error {
		r := domain.PDFReader(raw)
		if !r.IsValid() {
			return fmt.Errorf("unknown pdf reader %q", raw)
		}
		s.Extraction.PDFReader = r
		return nil
	}},
	{keyTesseractLang, kindString, func(s *domain.AppSettings, raw string) error { s.Extraction.OCRLanguage = raw; return nil }},
	{keyRasterDPI, kindInt, intInto(1, func(s *domain.AppSettings) *int { return &s.Extraction.RasterDPI })},
	{keyCacheBackend, kindString, func(s *domain.AppSettings, raw string) error {
		b := domain.CacheBackend(raw)
		if !b.IsValid() {
			return fmt.Errorf("unknown cache backend %q", raw)
		}
		s.Cache.Backend = b
		return nil
	}},
	{keyCacheMaxEntries, kindInt, intInto(0, func(s *domain.AppSettings) *int { return &s.Cache.MaxEntries })},
	{keyCacheTTL, kindDuration, durationInto(func(s *domain.AppSettings) *time.Duration { return &s.Cache.TTL })},
	{keyCacheRedisAddr, kindString, func(s *domain.AppSettings, raw string) error { s.Cache.RedisAddr = raw; return nil }},
	{keyServerAddr, kindString, func(s *domain.AppSettings, raw string) error { s.Server.Addr = raw; return nil }},
	{keyServerMaxUpload, kindInt, func(s *domain.AppSettings, raw string) error {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 1 {
			return fmt.Errorf("want a positive byte count, got %q", raw)
		}
		s.Server.MaxUploadBytes = v
		return nil
	}},
}

func intInto(minimum int, field func(*domain.AppSettings) *int) func(*domain.AppSettings, string) error {
	return func(s *domain.AppSettings, raw string) error {
		v, err := strconv.Atoi(raw)
		if err != nil || v < minimum {
			return fmt.Errorf("want an integer >= %d, got %q", minimum, raw)
		}
		*field(s) = v
		return nil
	}
}

func durationInto(field func(*domain.AppSettings) *time.Duration) func(*domain.AppSettings, string) error {
	return func(s *domain.AppSettings, raw string) error {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return fmt.Errorf("want a duration such as 30s, got %q", raw)
		}
		*field(s) = d
		return nil
	}
}

// SettingsService resolves application settings from defaults, the config
// store and the environment, in increasing order of precedence.
type SettingsService struct {
	configStore driven.ConfigStore
	lookupEnv   func(string) (string, bool)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		lookupEnv:   os.LookupEnv,
	}
}

// SetLookupEnv replaces the environment lookup. Tests use it to avoid touching the process environment.
func (s *SettingsService) SetLookupEnv(fn func(string) (string, bool)) {
	s.lookupEnv = fn
}

// EnvName returns the environment variable that overrides key.
func EnvName(key string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Get retrieves current application settings.
// Invalid stored or environment values are logged and leave the lower layer in place.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	settings := domain.DefaultAppSettings()
	providerStored := false

	for _, st := range settingTable {
		if raw, ok := s.stored(st.key); ok {
			if err := st.apply(&settings, raw); err != nil {
				logger.Warn("config %s: %v", st.key, err)
			} else if st.key == keyLLMProvider {
				providerStored = true
			}
		}
		if raw, ok := s.env(EnvName(st.key)); ok {
			if err := st.apply(&settings, raw); err != nil {
				logger.Warn("env %s: %v", EnvName(st.key), err)
			} else if st.key == keyLLMProvider {
				providerStored = true
			}
		}
	}

	// A provider switch without an explicit model picks that provider's default.
	if providerStored && !s.isSet(keyLLMModel) {
		if model, ok := domain.DefaultLLMModels()[settings.LLM.Provider]; ok {
			settings.LLM.Model = model
		}
	}

	// The provider's conventional variable fills the key unless DOCSUM_LLM_API_KEY is set.
	if _, explicit := s.env(EnvName(keyLLMAPIKey)); !explicit {
		if name, ok := providerKeyEnv[settings.LLM.Provider]; ok {
			if key, ok := s.env(name); ok {
				settings.LLM.APIKey = key
			}
		}
	}

	return &settings, nil
}

// Set validates and persists a single key.
func (s *SettingsService) Set(key, value string) error {
	st, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	candidate := domain.DefaultAppSettings()
	if err := st.apply(&candidate, value); err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	var typed any = value
	switch st.kind {
	case kindInt:
		n, _ := strconv.ParseInt(value, 10, 64)
		typed = n
	case kindFloat:
		f, _ := strconv.ParseFloat(value, 64)
		typed = f
	}

	if err := s.configStore.Set(key, typed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid LLM provider: %s", domain.ErrInvalidInput, provider)
	}

	// Set model - use provided or default
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}

	if err := s.configStore.Set(keyLLMProvider, provider.String()); err != nil {
		return fmt.Errorf("save llm provider: %w", err)
	}
	if err := s.configStore.Set(keyLLMModel, model); err != nil {
		return fmt.Errorf("save llm model: %w", err)
	}

	// Local providers need a base URL; cloud providers use their default endpoint.
	baseURL := ""
	if provider.IsLocal() {
		baseURL = "http://localhost:11434"
	}
	if err := s.configStore.Set(keyLLMBaseURL, baseURL); err != nil {
		return fmt.Errorf("save llm base_url: %w", err)
	}

	if apiKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, apiKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}
	return nil
}

// Keys returns every recognised configuration key in display order.
func (s *SettingsService) Keys() []string {
	keys := make([]string, len(settingTable))
	for i, st := range settingTable {
		keys[i] = st.key
	}
	return keys
}

// Validate checks that the current settings can run the pipeline.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.LLM.IsConfigured() {
		hint := EnvName(keyLLMAPIKey)
		if name, ok := providerKeyEnv[settings.LLM.Provider]; ok {
			hint = name
		}
		return fmt.Errorf("%w: provider %s needs an API key (set %s or run 'docsum settings set-api-key')",
			domain.ErrLLMUnavailable, settings.LLM.Provider, hint)
	}
	if settings.Summary.ChunkOverlap >= settings.Summary.ChunkSize {
		logger.Warn("summary.chunk_overlap %d >= chunk_size %d; overlap will be clamped",
			settings.Summary.ChunkOverlap, settings.Summary.ChunkSize)
	}
	if settings.Retry.Max < settings.Retry.Base {
		return fmt.Errorf("%w: retry.max %s is below retry.base %s",
			domain.ErrInvalidInput, settings.Retry.Max, settings.Retry.Base)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config layers.

func (s *SettingsService) stored(key string) (string, bool) {
	if s.configStore == nil {
		return "", false
	}
	val, ok := s.configStore.Get(key)
	if !ok || val == nil {
		return "", false
	}
	raw := strings.TrimSpace(fmt.Sprint(val))
	return raw, raw != ""
}

func (s *SettingsService) env(name string) (string, bool) {
	if s.lookupEnv == nil {
		return "", false
	}
	val, ok := s.lookupEnv(name)
	val = strings.TrimSpace(val)
	return val, ok && val != ""
}

func (s *SettingsService) isSet(key string) bool {
	if _, ok := s.stored(key); ok {
		return true
	}
	_, ok := s.env(EnvName(key))
	return ok
}

func lookupSetting(key string) (setting, bool) {
	for _, st := range settingTable {
		if st.key == key {
			return st, true
		}
	}
	return setting{}, false
}
