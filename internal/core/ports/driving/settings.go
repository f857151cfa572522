package driving

import "github.com/custodia-labs/docsum/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	// Values resolve as defaults, then the config file, then the environment.
	Get() (*domain.AppSettings, error)

	// Set validates and persists a single dotted key such as "summary.max_chunks".
	Set(key, value string) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// Keys returns every recognised configuration key.
	Keys() []string

	// Validate checks that the current settings can run the pipeline.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings
}
