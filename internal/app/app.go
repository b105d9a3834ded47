// Package app is the composition root. It turns settings into stores,
// adapters and services, and owns their lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driven/ai"
	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driven/config/file"
	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driven/metrics"
	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driven/storage/jsonfile"
	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driven/storage/memory"
	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driven/storage/postgres"
	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driven/storage/sqlite"
	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driven"
	"github.com/VladSF415/ai-platforms-directory/internal/core/services"
	"github.com/VladSF415/ai-platforms-directory/internal/logger"
)

// EnvHome overrides the configuration directory.
const EnvHome = "AIDIR_HOME"

// Options controls how the application is assembled.
type Options struct {
	// ConfigDir holds config.toml and prompts/. Empty resolves via
	// ResolveConfigDir.
	ConfigDir string

	// Getenv looks up environment variables. Defaults to os.Getenv.
	Getenv func(string) string
}

// App holds the assembled services.
type App struct {
	Settings  domain.AppSettings
	ConfigDir string

	Platforms *memory.PlatformStore
	Search    *services.SearchService
	Chat      *services.ChatService
	Analytics *services.AnalyticsRecorder
	Config    *services.SettingsService
	Metrics   *metrics.Collector
	Strategy  services.ResponseStrategy

	analyticsStore driven.AnalyticsStore
}

// ResolveConfigDir picks the configuration directory: the explicit
// value, then $AIDIR_HOME, then ~/.aidir.
func ResolveConfigDir(explicit string, getenv func(string) string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if getenv == nil {
		getenv = os.Getenv
	}
	if home := strings.TrimSpace(getenv(EnvHome)); home != "" {
		return home, nil
	}
	return file.DefaultDir()
}

// NewSettingsService opens the config store and wraps it in a settings service.
func NewSettingsService(opts Options) (*services.SettingsService, string, error) {
	dir, err := ResolveConfigDir(opts.ConfigDir, opts.Getenv)
	if err != nil {
		return nil, "", fmt.Errorf("resolve config dir: %w", err)
	}

	var configStore driven.ConfigStore
	fileStore, err := file.NewConfigStore(dir)
	switch {
	case err == nil:
		configStore = fileStore
	case errors.Is(err, file.ErrDirUnavailable):
		logger.Warn("settings will not persist: %v", err)
		configStore = memory.NewConfigStore()
	default:
		return nil, "", fmt.Errorf("open config: %w", err)
	}
	return services.NewSettingsService(configStore, opts.Getenv), dir, nil
}

// New assembles the application.
func New(ctx context.Context, opts Options) (*App, error) {
	logger.Section("Startup")

	settingsService, dir, err := NewSettingsService(opts)
	if err != nil {
		return nil, err
	}

	settings, err := settingsService.Resolve()
	if err != nil {
		return nil, fmt.Errorf("resolve settings: %w", err)
	}
	if err := settingsService.Validate(); err != nil {
		logger.Warn("config: %v", err)
	}
	logger.Debug("config dir: %s", dir)

	records, err := jsonfile.LoadPlatforms(settings.Data.PlatformsFile)
	if err != nil {
		return nil, fmt.Errorf("load platforms: %w", err)
	}
	platforms, err := memory.NewPlatformStore(records)
	if err != nil {
		return nil, fmt.Errorf("index platforms: %w", err)
	}
	logger.Info("loaded %d platforms from %s", platforms.Count(), settings.Data.PlatformsFile)

	search := services.NewSearchService(platforms)

	prompts, err := file.NewPromptStore(filepath.Join(dir, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("open prompts: %w", err)
	}

	strategy := ai.NewStrategy(ctx, settings.LLM)
	responder := services.NewResponder(strategy, services.NewFallbackComposer(search, settings.Site), settings.LLM.Timeout)
	responder.SetPromptStore(prompts)

	collector := metrics.NewCollector()
	collector.SetPlatforms(platforms.Count())

	store := openAnalyticsStore(ctx, settings.Analytics)
	recorder := services.NewAnalyticsRecorder(store)

	chat := services.NewChatService(services.NewIntentClassifier(), search, memory.NewSessionStore(), responder)
	chat.SetTracker(recorder)
	chat.SetMetrics(collector)

	return &App{
		Settings:       *settings,
		ConfigDir:      dir,
		Platforms:      platforms,
		Search:         search,
		Chat:           chat,
		Analytics:      recorder,
		Config:         settingsService,
		Metrics:        collector,
		Strategy:       strategy,
		analyticsStore: store,
	}, nil
}

// openAnalyticsStore opens the configured backend. A relational backend
// that cannot be reached degrades to the JSON files so chat keeps working.
func openAnalyticsStore(ctx context.Context, settings domain.AnalyticsSettings) driven.AnalyticsStore {
	backend := settings.EffectiveBackend()
	logger.Debug("analytics backend: %s", backend)

	var (
		store driven.AnalyticsStore
		err   error
	)
	switch backend {
	case domain.AnalyticsBackendPostgres:
		store, err = postgres.NewStore(ctx, postgres.Config{URL: settings.DatabaseURL})
	case domain.AnalyticsBackendSQLite:
		store, err = sqlite.NewStore(settings.SQLitePath())
	}
	if store != nil && err == nil {
		return store
	}
	if err != nil {
		logger.Warn("%s analytics unavailable, using JSON files: %v", backend, err)
	}

	fileStore, err := jsonfile.NewAnalyticsStore(settings.File, settings.PageViewsFile)
	if err != nil {
		logger.Error("analytics disabled: %v", err)
		return discardStore{}
	}
	return fileStore
}

// Close drains analytics and releases every resource.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	if err := a.Analytics.Flush(ctx); err != nil {
		errs = append(errs, fmt.Errorf("flush analytics: %w", err))
	}
	if err := a.Analytics.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close analytics: %w", err))
	}
	if err := a.analyticsStore.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close analytics store: %w", err))
	}
	if a.Strategy.IsHosted() {
		if err := a.Strategy.LLM.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close llm: %w", err))
		}
	}
	return errors.Join(errs...)
}
