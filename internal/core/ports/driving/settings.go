package driving

import "github.com/VladSF415/ai-platforms-directory/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves the stored application settings filled with defaults.
	Get() (*domain.AppSettings, error)

	// Resolve returns the effective settings with environment overrides
	// applied and the hosted provider selected.
	Resolve() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetLLMProvider configures the LLM provider.
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// Validate checks the configured settings for inconsistencies.
	Validate() error
}
