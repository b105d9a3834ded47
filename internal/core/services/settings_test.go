package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driven/storage/memory"
	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

func envMap(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestNewSettingsService(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, nil)

	require.NotNil(t, service)
	assert.NotNil(t, service.getenv)
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), envMap(nil))

	settings, err := service.Get()

	require.NoError(t, err)
	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Server, settings.Server)
	assert.Equal(t, defaults.Data, settings.Data)
	assert.Equal(t, defaults.Analytics, settings.Analytics)
	assert.Equal(t, defaults.LLM.Timeout, settings.LLM.Timeout)
	assert.Empty(t, settings.LLM.Provider)
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("server.addr", ":9000")
	_ = store.Set("server.rate_limit_rps", 0.5)
	_ = store.Set("server.rate_limit_burst", int64(3))
	_ = store.Set("llm.provider", "ollama")
	_ = store.Set("llm.timeout_seconds", int64(5))
	_ = store.Set("analytics.backend", "sqlite")
	_ = store.Set("analytics.database_url", "/tmp/a.db")
	_ = store.Set("site.base_url", "https://aidir.example")
	_ = store.Set("server.trusted_proxies", "10.0.0.0/8, 127.0.0.1,")

	settings, err := NewSettingsService(store, envMap(nil)).Get()

	require.NoError(t, err)
	assert.Equal(t, ":9000", settings.Server.Addr)
	assert.InDelta(t, 0.5, settings.Server.RateLimitRPS, 1e-9)
	assert.Equal(t, 3, settings.Server.RateLimitBurst)
	assert.Equal(t, domain.AIProviderOllama, settings.LLM.Provider)
	assert.Equal(t, 5*time.Second, settings.LLM.Timeout)
	assert.Equal(t, domain.AnalyticsBackendSQLite, settings.Analytics.Backend)
	assert.Equal(t, "https://aidir.example", settings.Site.BaseURL)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, settings.Server.TrustedProxies)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStore()
	_ = store.Set("llm.provider", "invalid_provider")
	_ = store.Set("analytics.backend", "mongo")

	settings, err := NewSettingsService(store, envMap(nil)).Get()

	require.NoError(t, err)
	assert.Empty(t, settings.LLM.Provider)
	assert.Empty(t, settings.Analytics.Backend)
}

func TestSettingsService_Resolve(t *testing.T) {
	t.Run("no credentials selects fallback", func(t *testing.T) {
		settings, err := NewSettingsService(memory.NewConfigStore(), envMap(nil)).Resolve()

		require.NoError(t, err)
		assert.False(t, settings.LLM.IsConfigured())
		assert.Equal(t, domain.AnalyticsBackendFile, settings.Analytics.EffectiveBackend())
	})

	t.Run("environment credentials follow priority", func(t *testing.T) {
		env := envMap(map[string]string{
			EnvOpenAIAPIKey:    "sk-openai",
			EnvAnthropicAPIKey: "sk-ant",
		})

		settings, err := NewSettingsService(memory.NewConfigStore(), env).Resolve()

		require.NoError(t, err)
		assert.Equal(t, domain.AIProviderOpenAI, settings.LLM.Provider)
		assert.Equal(t, "sk-openai", settings.LLM.APIKey)
	})

	t.Run("switching credentials switches strategy", func(t *testing.T) {
		env := envMap(map[string]string{EnvGeminiAPIKey: "g", EnvOpenAIAPIKey: "o"})

		settings, err := NewSettingsService(memory.NewConfigStore(), env).Resolve()

		require.NoError(t, err)
		assert.Equal(t, domain.AIProviderGemini, settings.LLM.Provider)
	})

	t.Run("database url from environment", func(t *testing.T) {
		env := envMap(map[string]string{EnvDatabaseURL: "postgres://u@db/aidir"})

		settings, err := NewSettingsService(memory.NewConfigStore(), env).Resolve()

		require.NoError(t, err)
		assert.Equal(t, domain.AnalyticsBackendPostgres, settings.Analytics.EffectiveBackend())
	})
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, envMap(nil))

	settings := service.GetDefaults()
	settings.Server.Addr = ":7070"
	settings.Server.TrustedProxies = []string{"10.0.0.1", "fd00::/8"}
	settings.Analytics.Backend = domain.AnalyticsBackendPostgres
	settings.Analytics.DatabaseURL = "postgres://localhost/aidir"
	require.NoError(t, service.Save(&settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, ":7070", got.Server.Addr)
	assert.Equal(t, settings.Server.TrustedProxies, got.Server.TrustedProxies)
	assert.Equal(t, domain.AnalyticsBackendPostgres, got.Analytics.Backend)
	assert.Equal(t, settings.Server.ReadHeaderTimeout, got.Server.ReadHeaderTimeout)

	_, ok := store.Get("llm.api_key")
	assert.False(t, ok)
}

func TestSettingsService_SetLLMProvider(t *testing.T) {
	store := memory.NewConfigStore()
	service := NewSettingsService(store, envMap(nil))

	require.NoError(t, service.SetLLMProvider(domain.AIProviderOllama, "", ""))
	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, "llama3.2", got.LLM.Model)
	assert.Equal(t, "http://localhost:11434", got.LLM.BaseURL)

	require.NoError(t, service.SetLLMProvider(domain.AIProviderAnthropic, "claude-x", "sk-ant"))
	got, err = service.Get()
	require.NoError(t, err)
	assert.Equal(t, "claude-x", got.LLM.Model)
	assert.Empty(t, got.LLM.BaseURL)
	assert.Equal(t, "sk-ant", got.LLM.APIKey)

	assert.ErrorIs(t, service.SetLLMProvider("bogus", "", ""), domain.ErrInvalidInput)
}

func TestSettingsService_Validate(t *testing.T) {
	tests := []struct {
		name    string
		values  map[string]any
		env     map[string]string
		wantErr bool
	}{
		{name: "defaults are valid"},
		{name: "unknown provider", values: map[string]any{"llm.provider": "deepmind"}, wantErr: true},
		{name: "unknown backend", values: map[string]any{"analytics.backend": "mongo"}, wantErr: true},
		{name: "negative rate", values: map[string]any{"server.rate_limit_rps": -1.0}, wantErr: true},
		{name: "relational without url", values: map[string]any{"analytics.backend": "postgres"}, wantErr: true},
		{
			name:   "relational with env url",
			values: map[string]any{"analytics.backend": "postgres"},
			env:    map[string]string{EnvDatabaseURL: "postgres://x"},
		},
		{name: "cloud provider without key", values: map[string]any{"llm.provider": "openai"}, wantErr: true},
		{
			name:    "cloud provider with another provider's key",
			values:  map[string]any{"llm.provider": "openai"},
			env:     map[string]string{EnvGeminiAPIKey: "g"},
			wantErr: true,
		},
		{
			name:   "cloud provider with env key",
			values: map[string]any{"llm.provider": "openai"},
			env:    map[string]string{EnvOpenAIAPIKey: "sk"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := memory.NewConfigStore()
			for k, v := range tt.values {
				_ = store.Set(k, v)
			}

			err := NewSettingsService(store, envMap(tt.env)).Validate()

			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
