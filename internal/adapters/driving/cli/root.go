// Package cli provides the aidir command line interface.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driving/httpapi"
	"github.com/VladSF415/ai-platforms-directory/internal/app"
	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driving"
	"github.com/VladSF415/ai-platforms-directory/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Annotation values telling the root command what a subcommand needs.
const (
	annotationNeeds = "needs"
	needsServices   = "services"
	needsSettings   = "settings"
)

var (
	verbose   bool
	configDir string
)

var (
	searchService    driving.SearchService
	chatService      driving.ChatService
	analyticsService driving.AnalyticsService
	settingsService  driving.SettingsService
	serverSettings   = domain.DefaultAppSettings().Server
	metrics          httpapi.Metrics
)

// autoWire assembles the application on demand. Tests turn it off and
// inject mocks through SetServices.
var autoWire = true

// application is the lazily assembled composition root.
var application *app.App

var rootCmd = &cobra.Command{
	Use:   "aidir",
	Short: "AI platform directory assistant",
	Long: `aidir recommends AI platforms from a curated directory.

It answers chat messages with a hosted model when an API key is
configured (GEMINI_API_KEY, OPENAI_API_KEY or ANTHROPIC_API_KEY) and
with a deterministic keyword matcher otherwise.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verbose)
		return ensureServices(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default $AIDIR_HOME or ~/.aidir)")
}

// Services holds the driving ports the commands run against.
type Services struct {
	Search    driving.SearchService
	Chat      driving.ChatService
	Analytics driving.AnalyticsService
	Settings  driving.SettingsService
	Server    domain.ServerSettings
	Metrics   httpapi.Metrics
}

// SetServices injects the services used by all commands.
func SetServices(s Services) {
	searchService = s.Search
	chatService = s.Chat
	analyticsService = s.Analytics
	settingsService = s.Settings
	serverSettings = s.Server
	metrics = s.Metrics
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer closeApp()

	return rootCmd.ExecuteContext(ctx)
}

// ensureServices assembles whatever the command declared it needs.
func ensureServices(cmd *cobra.Command) error {
	if !autoWire {
		return nil
	}

	switch cmd.Annotations[annotationNeeds] {
	case needsServices:
		if searchService != nil {
			return nil
		}
		a, err := app.New(cmd.Context(), app.Options{ConfigDir: configDir})
		if err != nil {
			return err
		}
		application = a
		SetServices(Services{
			Search:    a.Search,
			Chat:      a.Chat,
			Analytics: a.Analytics,
			Settings:  a.Config,
			Server:    a.Settings.Server,
			Metrics:   a.Metrics,
		})
	case needsSettings:
		if settingsService != nil {
			return nil
		}
		svc, _, err := app.NewSettingsService(app.Options{ConfigDir: configDir})
		if err != nil {
			return err
		}
		settingsService = svc
	}
	return nil
}

// closeApp flushes analytics and releases the assembled application.
func closeApp() {
	if application == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := application.Close(ctx); err != nil {
		logger.Warn("shutdown: %v", err)
	}
	application = nil
}

// needs returns the annotation map for a command requiring what.
func needs(what string) map[string]string {
	return map[string]string{annotationNeeds: what}
}

// printJSON writes v as indented JSON to the command's output.
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
