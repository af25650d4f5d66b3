package driving

import "github.com/custodia-labs/docchat/internal/core/domain"

// SettingsService reads and updates the provider, ingestion and retrieval
// settings stored in config.toml.
type SettingsService interface {
	// Get returns the effective settings. Unset API keys and the Ollama
	// URL are filled from the environment.
	Get() (*domain.AppSettings, error)

	// Save persists every field of settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider stores the embedding provider and model. An
	// empty apiKey is accepted when the provider's environment key is set.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetLLMProvider stores the generation provider and model.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// GetDefaults returns the built-in defaults.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig pings the configured embedding provider.
	ValidateEmbeddingConfig() error

	// ValidateLLMConfig pings the configured LLM provider.
	ValidateLLMConfig() error
}
