package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies a completion service provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOpenAI is the OpenAI cloud API or any compatible endpoint.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGroq is Groq's OpenAI-compatible cloud API.
	AIProviderGroq AIProvider = "groq"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOpenAI, AIProviderGroq, AIProviderAnthropic, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderGroq || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderGroq:
		return "Groq (cloud, OpenAI-compatible)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// AllLLMProviders returns providers that support completion.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOpenAI,
		AIProviderGroq,
		AIProviderAnthropic,
		AIProviderOllama,
	}
}

// DefaultLLMModels returns default models for each provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderGroq:      "deepseek-r1-distill-llama-70b",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
		AIProviderOllama:    "llama3.2",
	}
}

// LLMSettings holds completion service configuration.
type LLMSettings struct {
	// Provider is the completion service provider.
	Provider AIProvider

	// Model is the model identifier.
	Model string

	// BaseURL is the API endpoint override.
	BaseURL string

	// APIKey is the provider credential.
	APIKey string

	// Timeout bounds a single completion request.
	Timeout time.Duration

	// RequestsPerSecond throttles outbound calls. Zero disables throttling.
	RequestsPerSecond float64
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// SummarySettings controls chunking and the map-reduce branch.
type SummarySettings struct {
	// TokenBudget is the token count above which chunks are pre-summarised.
	TokenBudget int

	// ChunkSize is the maximum chunk length in characters.
	ChunkSize int

	// ChunkOverlap is the number of characters shared by adjacent chunks.
	ChunkOverlap int

	// MaxChunks caps how many chunks are submitted. Zero means no cap.
	// Anything beyond the cap is dropped and the summary is flagged Truncated.
	MaxChunks int
}

// RetrySettings controls the retry combinator wrapped around completion calls.
type RetrySettings struct {
	// Attempts is the total number of attempts, including the first.
	Attempts int

	// Base is the first backoff delay.
	Base time.Duration

	// Max caps any single backoff delay.
	Max time.Duration
}

// PDFReader selects the native PDF text backend.
type PDFReader string

// Available PDF readers.
const (
	PDFReaderPDFCPU     PDFReader = "pdfcpu"
	PDFReaderLedongthuc PDFReader = "ledongthuc"
)

// IsValid returns true if the PDF reader is recognised.
func (r PDFReader) IsValid() bool {
	return r == PDFReaderPDFCPU || r == PDFReaderLedongthuc
}

// MaxOCRPages is the hard cap on pages rasterised for OCR.
const MaxOCRPages = 10

// ExtractionSettings controls extraction strategies.
type ExtractionSettings struct {
	// OCRMaxPages is how many PDF pages the OCR fallback renders (at most MaxOCRPages).
	OCRMaxPages int

	// ImageSize is the square edge, in pixels, images are resized to before OCR.
	ImageSize int

	// PDFWorkers bounds the page fan-out of native PDF extraction.
	PDFWorkers int

	// PDFReader selects the native PDF backend.
	PDFReader PDFReader

	// OCRLanguage is the tesseract language code.
	OCRLanguage string

	// RasterDPI is the resolution used when rendering PDF pages.
	RasterDPI int
}

// CacheBackend selects the extraction cache implementation.
type CacheBackend string

// Available cache backends.
const (
	CacheBackendMemory CacheBackend = "memory"
	CacheBackendSQLite CacheBackend = "sqlite"
	CacheBackendRedis  CacheBackend = "redis"
	CacheBackendNone   CacheBackend = "none"
)

// IsValid returns true if the cache backend is recognised.
func (b CacheBackend) IsValid() bool {
	switch b {
	case CacheBackendMemory, CacheBackendSQLite, CacheBackendRedis, CacheBackendNone:
		return true
	default:
		return false
	}
}

// CacheSettings controls the extraction cache.
type CacheSettings struct {
	// Backend selects the implementation.
	Backend CacheBackend

	// MaxEntries bounds the cache. Zero means never evict.
	MaxEntries int

	// TTL expires entries in backends that support it.
	TTL time.Duration

	// RedisAddr is the redis server address.
	RedisAddr string
}

// ServerSettings controls the HTTP driving adapter.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// MaxUploadBytes rejects larger payloads before any processing.
	MaxUploadBytes int64
}

// AppSettings holds all application settings.
type AppSettings struct {
	LLM        LLMSettings
	Summary    SummarySettings
	Retry      RetrySettings
	Extraction ExtractionSettings
	Cache      CacheSettings
	Server     ServerSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// The LLM credential is left empty and must come from the config file or environment.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		LLM: LLMSettings{
			Provider: AIProviderGroq,
			Model:    DefaultLLMModels()[AIProviderGroq],
			Timeout:  30 * time.Second,
		},
		Summary: SummarySettings{
			TokenBudget:  4000,
			ChunkSize:    10000,
			ChunkOverlap: 100,
			MaxChunks:    3,
		},
		Retry: RetrySettings{
			Attempts: 2,
			Base:     time.Second,
			Max:      5 * time.Second,
		},
		Extraction: ExtractionSettings{
			OCRMaxPages: MaxOCRPages,
			ImageSize:   300,
			PDFReader:   PDFReaderPDFCPU,
			OCRLanguage: "eng",
			RasterDPI:   150,
		},
		Cache: CacheSettings{
			Backend:    CacheBackendMemory,
			MaxEntries: 256,
			TTL:        24 * time.Hour,
			RedisAddr:  "localhost:6379",
		},
		Server: ServerSettings{
			Addr:           ":8000",
			MaxUploadBytes: MaxPayloadBytes,
		},
	}
}
