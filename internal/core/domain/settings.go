package domain

import (
	"strings"
	"time"
)

const unknownDescription = "Unknown"

// AIProvider identifies a hosted model provider.
type AIProvider string

// Available AI providers.
const (
	// AIProviderGemini is Google's Gemini API.
	AIProviderGemini AIProvider = "gemini"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderGemini, AIProviderOpenAI, AIProviderAnthropic, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderGemini || p == AIProviderOpenAI || p == AIProviderAnthropic
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
	case AIProviderGemini:
		return "Gemini (cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// CredentialPriority is the order in which configured API keys select a
// provider. Cheapest first.
func CredentialPriority() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// AllLLMProviders returns every supported LLM provider.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderGemini,
		AIProviderOpenAI,
		AIProviderAnthropic,
		AIProviderOllama,
	}
}

// DefaultLLMModels returns default models for each provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGemini:    "gemini-2.0-flash",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
		AIProviderOllama:    "llama3.2",
	}
}

// ProviderCredentials holds the mutually exclusive provider API keys.
type ProviderCredentials struct {
	Gemini    string
	OpenAI    string
	Anthropic string
}

// Key returns the API key configured for provider.
func (c ProviderCredentials) Key(provider AIProvider) string {
	switch provider {
	case AIProviderGemini:
		return c.Gemini
	case AIProviderOpenAI:
		return c.OpenAI
	case AIProviderAnthropic:
		return c.Anthropic
	default:
		return ""
	}
}

// Select returns the first provider in CredentialPriority with a key.
func (c ProviderCredentials) Select() (AIProvider, string, bool) {
	for _, provider := range CredentialPriority() {
		if key := strings.TrimSpace(c.Key(provider)); key != "" {
			return provider, key, true
		}
	}
	return "", "", false
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL overrides the API endpoint.
	BaseURL string

	// APIKey is the API key (for cloud providers).
	APIKey string

	// Timeout bounds a single hosted call.
	Timeout time.Duration
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

// ResolveLLMSettings decides the hosted provider once at startup.
// An explicitly configured provider wins; otherwise credentials are
// checked in priority order. The result is unconfigured when neither
// yields a provider, which selects the fallback strategy.
func ResolveLLMSettings(explicit LLMSettings, creds ProviderCredentials) LLMSettings {
	resolved := explicit
	if explicit.Provider.IsValid() {
		if resolved.APIKey == "" {
			resolved.APIKey = creds.Key(explicit.Provider)
		}
	} else if provider, key, ok := creds.Select(); ok {
		resolved.Provider = provider
		resolved.APIKey = key
	} else {
		return LLMSettings{Timeout: explicit.Timeout}
	}
	if resolved.Model == "" {
		resolved.Model = DefaultLLMModels()[resolved.Provider]
	}
	return resolved
}

// AnalyticsBackend identifies where analytics are persisted.
type AnalyticsBackend string

// Available analytics backends.
const (
	AnalyticsBackendFile     AnalyticsBackend = "file"
	AnalyticsBackendSQLite   AnalyticsBackend = "sqlite"
	AnalyticsBackendPostgres AnalyticsBackend = "postgres"
)

// IsValid returns true if the backend is recognised.
func (b AnalyticsBackend) IsValid() bool {
	switch b {
	case AnalyticsBackendFile, AnalyticsBackendSQLite, AnalyticsBackendPostgres:
		return true
	default:
		return false
	}
}

// IsRelational returns true for the database-backed stores.
func (b AnalyticsBackend) IsRelational() bool {
	return b == AnalyticsBackendSQLite || b == AnalyticsBackendPostgres
}

// String returns the string representation.
func (b AnalyticsBackend) String() string {
	return string(b)
}

// AnalyticsSettings holds analytics persistence configuration.
type AnalyticsSettings struct {
	// Backend forces a backend; empty means derive from DatabaseURL.
	Backend AnalyticsBackend

	// File is the chat analytics JSON file.
	File string

	// PageViewsFile is the page-view analytics JSON file.
	PageViewsFile string

	// DatabaseURL selects a relational backend when set.
	DatabaseURL string
}

// EffectiveBackend returns the backend implied by the settings.
func (a AnalyticsSettings) EffectiveBackend() AnalyticsBackend {
	if a.Backend.IsValid() {
		return a.Backend
	}
	url := strings.TrimSpace(a.DatabaseURL)
	switch {
	case url == "":
		return AnalyticsBackendFile
	case strings.HasPrefix(url, "postgres://"), strings.HasPrefix(url, "postgresql://"):
		return AnalyticsBackendPostgres
	default:
		return AnalyticsBackendSQLite
	}
}

// SQLitePath strips the optional sqlite:// scheme from DatabaseURL.
func (a AnalyticsSettings) SQLitePath() string {
	return strings.TrimPrefix(strings.TrimSpace(a.DatabaseURL), "sqlite://")
}

// ServerSettings holds HTTP server configuration.
type ServerSettings struct {
	Addr              string
	RateLimitRPS      float64
	RateLimitBurst    int
	ReadHeaderTimeout time.Duration

	// TrustedProxies lists peer IPs or CIDRs whose X-Forwarded-For header
	// is believed when keying the rate limiter. Empty trusts no one.
	TrustedProxies []string
}

// DataSettings locates the platform data.
type DataSettings struct {
	PlatformsFile string
}

// SiteSettings configures links rendered into replies.
type SiteSettings struct {
	// BaseURL prefixes /platform/<slug> and /submit links.
	BaseURL string
}

// PlatformURL returns the directory page of a platform.
func (s SiteSettings) PlatformURL(slug string) string {
	return strings.TrimSuffix(s.BaseURL, "/") + "/platform/" + slug
}

// SubmitURL returns the submission page.
func (s SiteSettings) SubmitURL() string {
	return strings.TrimSuffix(s.BaseURL, "/") + "/submit"
}

// AppSettings holds all application settings.
type AppSettings struct {
	Server    ServerSettings
	Data      DataSettings
	Site      SiteSettings
	LLM       LLMSettings
	Analytics AnalyticsSettings
}

// DefaultLLMTimeout bounds hosted calls when no timeout is configured.
const DefaultLLMTimeout = 30 * time.Second

// DefaultAppSettings returns settings with sensible defaults.
// No LLM provider is configured, which selects the fallback strategy.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Server: ServerSettings{
			Addr:              ":8080",
			RateLimitRPS:      2,
			RateLimitBurst:    5,
			ReadHeaderTimeout: 10 * time.Second,
		},
		Data: DataSettings{
			PlatformsFile: "data/platforms.json",
		},
		LLM: LLMSettings{
			Timeout: DefaultLLMTimeout,
		},
		Analytics: AnalyticsSettings{
			File:          "data/chat-analytics.json",
			PageViewsFile: "data/pageviews.json",
		},
	}
}
