package services

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driven"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyServerAddr          = "server.addr"
	keyServerRateRPS       = "server.rate_limit_rps"
	keyServerRateBurst     = "server.rate_limit_burst"
	keyServerHeaderTimeout = "server.read_header_timeout_seconds"
	keyServerProxies       = "server.trusted_proxies"
	keyPlatformsFile       = "data.platforms_file"
	keySiteBaseURL         = "site.base_url"
	keyLLMProvider         = "llm.provider"
	keyLLMModel            = "llm.model"
	keyLLMBaseURL          = "llm.base_url"
	keyLLMAPIKey           = "llm.api_key"
	keyLLMTimeout          = "llm.timeout_seconds"
	keyAnalyticsBackend    = "analytics.backend"
	keyAnalyticsFile       = "analytics.file"
	keyPageViewsFile       = "analytics.pageviews_file"
	keyAnalyticsDBURL      = "analytics.database_url"
)

// Environment variables that override the config file.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvGeminiAPIKey    = "GEMINI_API_KEY"
	EnvOpenAIAPIKey    = "OPENAI_API_KEY"
	EnvAnthropicAPIKey = "ANTHROPIC_API_KEY"
	EnvDatabaseURL     = "DATABASE_URL"
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// getenv defaults to os.Getenv when nil.
func NewSettingsService(configStore driven.ConfigStore, getenv func(string) string) *SettingsService {
	if getenv == nil {
		getenv = os.Getenv
	}
	return &SettingsService{
		configStore: configStore,
		getenv:      getenv,
	}
}

// Get retrieves the stored application settings, filled with defaults.
// Environment variables are not applied; see Resolve.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Server: domain.ServerSettings{
			Addr:              s.getString(keyServerAddr, defaults.Server.Addr),
			RateLimitRPS:      s.getFloat(keyServerRateRPS, defaults.Server.RateLimitRPS),
			RateLimitBurst:    s.getInt(keyServerRateBurst, defaults.Server.RateLimitBurst),
			ReadHeaderTimeout: s.getSeconds(keyServerHeaderTimeout, defaults.Server.ReadHeaderTimeout),
			TrustedProxies:    splitList(s.configStore.GetString(keyServerProxies)),
		},
		Data: domain.DataSettings{
			PlatformsFile: s.getString(keyPlatformsFile, defaults.Data.PlatformsFile),
		},
		Site: domain.SiteSettings{
			BaseURL: s.configStore.GetString(keySiteBaseURL),
		},
		LLM: domain.LLMSettings{
			Provider: s.getProvider(keyLLMProvider),
			Model:    s.configStore.GetString(keyLLMModel),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
			Timeout:  s.getSeconds(keyLLMTimeout, defaults.LLM.Timeout),
		},
		Analytics: domain.AnalyticsSettings{
			Backend:       s.getBackend(keyAnalyticsBackend),
			File:          s.getString(keyAnalyticsFile, defaults.Analytics.File),
			PageViewsFile: s.getString(keyPageViewsFile, defaults.Analytics.PageViewsFile),
			DatabaseURL:   s.configStore.GetString(keyAnalyticsDBURL),
		},
	}

	return settings, nil
}

// Resolve returns the effective settings: stored values, environment
// overrides, and the hosted provider chosen by credential priority.
func (s *SettingsService) Resolve() (*domain.AppSettings, error) {
	settings, err := s.Get()
	if err != nil {
		return nil, err
	}

	creds := domain.ProviderCredentials{
		Gemini:    s.getenv(EnvGeminiAPIKey),
		OpenAI:    s.getenv(EnvOpenAIAPIKey),
		Anthropic: s.getenv(EnvAnthropicAPIKey),
	}
	settings.LLM = domain.ResolveLLMSettings(settings.LLM, creds)

	if url := strings.TrimSpace(s.getenv(EnvDatabaseURL)); url != "" {
		settings.Analytics.DatabaseURL = url
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyServerAddr, settings.Server.Addr},
		{keyServerRateRPS, settings.Server.RateLimitRPS},
		{keyServerRateBurst, settings.Server.RateLimitBurst},
		{keyServerHeaderTimeout, int(settings.Server.ReadHeaderTimeout / time.Second)},
		{keyServerProxies, strings.Join(settings.Server.TrustedProxies, ",")},
		{keyPlatformsFile, settings.Data.PlatformsFile},
		{keySiteBaseURL, settings.Site.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyLLMTimeout, int(settings.LLM.Timeout / time.Second)},
		{keyAnalyticsBackend, settings.Analytics.Backend.String()},
		{keyAnalyticsFile, settings.Analytics.File},
		{keyPageViewsFile, settings.Analytics.PageViewsFile},
		{keyAnalyticsDBURL, settings.Analytics.DatabaseURL},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.LLM.APIKey != "" {
		if err := s.configStore.Set(keyLLMAPIKey, settings.LLM.APIKey); err != nil {
			return fmt.Errorf("save llm api_key: %w", err)
		}
	}

	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider %q: %w", provider, domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.LLM.Provider = provider

	// Set model - use provided or default
	if model != "" {
		settings.LLM.Model = model
	} else {
		settings.LLM.Model = domain.DefaultLLMModels()[provider]
	}

	// Local providers need a base URL, cloud providers use their default
	if provider.IsLocal() {
		if settings.LLM.BaseURL == "" {
			settings.LLM.BaseURL = "http://localhost:11434"
		}
	} else {
		settings.LLM.BaseURL = ""
	}

	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Validate checks the stored settings for inconsistencies.
func (s *SettingsService) Validate() error {
	var errs []error

	if raw := s.configStore.GetString(keyLLMProvider); raw != "" && !domain.AIProvider(raw).IsValid() {
		errs = append(errs, fmt.Errorf("unknown llm.provider %q", raw))
	}
	if raw := s.configStore.GetString(keyAnalyticsBackend); raw != "" && !domain.AnalyticsBackend(raw).IsValid() {
		errs = append(errs, fmt.Errorf("unknown analytics.backend %q", raw))
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}
	if settings.Server.RateLimitRPS < 0 {
		errs = append(errs, errors.New("server.rate_limit_rps must not be negative"))
	}
	if settings.Analytics.Backend.IsRelational() && settings.Analytics.DatabaseURL == "" &&
		strings.TrimSpace(s.getenv(EnvDatabaseURL)) == "" {
		errs = append(errs, fmt.Errorf("analytics.backend %s needs analytics.database_url", settings.Analytics.Backend))
	}
	creds := domain.ProviderCredentials{
		Gemini:    s.getenv(EnvGeminiAPIKey),
		OpenAI:    s.getenv(EnvOpenAIAPIKey),
		Anthropic: s.getenv(EnvAnthropicAPIKey),
	}
	if settings.LLM.Provider.RequiresAPIKey() && settings.LLM.APIKey == "" &&
		creds.Key(settings.LLM.Provider) == "" {
		errs = append(errs, fmt.Errorf("llm.provider %s has no API key", settings.LLM.Provider))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}

// Helper methods for getting values with defaults

func (s *SettingsService) getString(key, defaultVal string) string {
	if val := s.configStore.GetString(key); val != "" {
		return val
	}
	return defaultVal
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetInt(key)
	}
	return defaultVal
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetFloat(key)
	}
	return defaultVal
}

func (s *SettingsService) getSeconds(key string, defaultVal time.Duration) time.Duration {
	if seconds := s.configStore.GetInt(key); seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return defaultVal
}

func (s *SettingsService) getProvider(key string) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if provider.IsValid() {
		return provider
	}
	return ""
}

func (s *SettingsService) getBackend(key string) domain.AnalyticsBackend {
	backend := domain.AnalyticsBackend(s.configStore.GetString(key))
	if backend.IsValid() {
		return backend
	}
	return ""
}

// splitList parses a comma-separated config value.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
