package app

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

const testPlatforms = `[
	{"id": "synth-ai", "name": "SynthAI", "description": "Generate music from text prompts",
	 "category": "audio", "tags": ["music", "audio"], "pricing": "freemium", "rating": 4.6},
	{"id": "pixel-forge", "name": "PixelForge", "description": "Image generation",
	 "category": "image", "tags": ["image", "art"], "pricing": "paid", "rating": 4.1}
]`

// setupApp writes a config dir with platforms and file analytics.
func setupApp(t *testing.T) (*App, string) {
	t.Helper()
	dir := t.TempDir()

	platformsFile := filepath.Join(dir, "platforms.json")
	require.NoError(t, os.WriteFile(platformsFile, []byte(testPlatforms), 0o600))

	config := "[data]\nplatforms_file = " + quote(platformsFile) + "\n\n" +
		"[analytics]\nfile = " + quote(filepath.Join(dir, "chat.json")) + "\n" +
		"pageviews_file = " + quote(filepath.Join(dir, "views.json")) + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(config), 0o600))

	env := map[string]string{EnvHome: dir}
	application, err := New(context.Background(), Options{Getenv: func(k string) string { return env[k] }})
	require.NoError(t, err)
	return application, dir
}

func quote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestResolveConfigDir(t *testing.T) {
	env := map[string]string{EnvHome: "/srv/aidir"}
	getenv := func(k string) string { return env[k] }

	dir, err := ResolveConfigDir("/explicit", getenv)
	require.NoError(t, err)
	assert.Equal(t, "/explicit", dir)

	dir, err = ResolveConfigDir("", getenv)
	require.NoError(t, err)
	assert.Equal(t, "/srv/aidir", dir)
}

func TestNew_FallbackChat(t *testing.T) {
	application, dir := setupApp(t)
	ctx := context.Background()

	assert.Equal(t, dir, application.ConfigDir)
	assert.Equal(t, 2, application.Platforms.Count())
	assert.False(t, application.Strategy.IsHosted())

	reply, err := application.Chat.Chat(ctx, domain.ChatRequest{Message: "find music tools"})
	require.NoError(t, err)
	assert.Equal(t, domain.IntentSearch, reply.Intent)
	assert.Contains(t, reply.Response, "SynthAI")
	assert.NotEmpty(t, reply.SessionID)

	application.Analytics.TrackPageView("/platform/synth-ai")
	require.NoError(t, application.Analytics.Flush(ctx))

	summary, err := application.Analytics.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Totals.Messages)

	require.NoError(t, application.Close(ctx))

	data, err := os.ReadFile(filepath.Join(dir, "chat.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"totalMessages": 1`)
	assert.FileExists(t, filepath.Join(dir, "views.json"))
}

func TestNew_MissingPlatforms(t *testing.T) {
	dir := t.TempDir()
	config := "[data]\nplatforms_file = " + quote(filepath.Join(dir, "nope.json")) + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(config), 0o600))

	_, err := New(context.Background(), Options{ConfigDir: dir, Getenv: func(string) string { return "" }})

	assert.Error(t, err)
}

func TestOpenAnalyticsStore_UnreachableSQLiteFallsBack(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	store := openAnalyticsStore(context.Background(), domain.AnalyticsSettings{
		DatabaseURL:   filepath.Join(blocker, "sub", "a.db"),
		File:          filepath.Join(dir, "chat.json"),
		PageViewsFile: filepath.Join(dir, "views.json"),
	})
	defer store.Close()

	_, isDiscard := store.(discardStore)
	assert.False(t, isDiscard)
	assert.NoError(t, store.RecordPageView(context.Background(), "/", time.Now()))
}

func TestNewSettingsService_UnwritableDirUsesMemory(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	svc, dir, err := NewSettingsService(Options{ConfigDir: filepath.Join(blocker, "cfg")})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(blocker, "cfg"), dir)

	require.NoError(t, svc.SetLLMProvider(domain.AIProviderOllama, "", ""))
	settings, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOllama, settings.LLM.Provider)
}

func TestNewSettingsService_InvalidTOMLFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not = [valid"), 0o600))

	_, _, err := NewSettingsService(Options{ConfigDir: dir})

	assert.Error(t, err)
}
