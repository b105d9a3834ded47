package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/VladSF415/ai-platforms-directory/internal/adapters/driven/ai"
	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

// llmValidator pings a configured provider. Replaced in tests.
var llmValidator = ai.ValidateLLMConfig

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and edit config.toml in the configuration directory.

Environment variables override the file: GEMINI_API_KEY, OPENAI_API_KEY
and ANTHROPIC_API_KEY select a hosted model (first set wins, in that
order) and DATABASE_URL selects a relational analytics backend.`,
	Annotations: needs(needsSettings),
	RunE:        runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:         "show",
	Short:       "Show effective configuration",
	Annotations: needs(needsSettings),
	RunE:        runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:         "init",
	Short:       "Interactive setup wizard",
	Long:        `Run an interactive wizard to write config.toml step by step.`,
	Annotations: needs(needsSettings),
	RunE:        runConfigInit,
}

var configLLMCmd = &cobra.Command{
	Use:         "llm",
	Short:       "Configure the hosted LLM provider",
	Annotations: needs(needsSettings),
	RunE:        runConfigLLM,
}

var configCheckCmd = &cobra.Command{
	Use:         "check",
	Short:       "Validate configuration and ping the LLM provider",
	Annotations: needs(needsSettings),
	RunE:        runConfigCheck,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configLLMCmd)
	configCmd.AddCommand(configCheckCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Resolve()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Printf("  Rate limit: %.1f req/s (burst %d)\n", settings.Server.RateLimitRPS, settings.Server.RateLimitBurst)
	cmd.Println()

	cmd.Println("[Data]")
	cmd.Printf("  Platforms file: %s\n", settings.Data.PlatformsFile)
	if settings.Site.BaseURL != "" {
		cmd.Printf("  Site URL: %s\n", settings.Site.BaseURL)
	}
	cmd.Println()

	cmd.Println("[LLM]")
	if settings.LLM.IsConfigured() {
		cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
		cmd.Printf("  Model: %s\n", settings.LLM.Model)
		if settings.LLM.Provider.IsLocal() {
			cmd.Printf("  Base URL: %s\n", settings.LLM.BaseURL)
		}
		if settings.LLM.Provider.RequiresAPIKey() {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.LLM.APIKey))
		}
		cmd.Printf("  Timeout: %s\n", settings.LLM.Timeout)
	} else {
		cmd.Println("  Provider: none (offline matcher)")
	}
	cmd.Println()

	cmd.Println("[Analytics]")
	cmd.Printf("  Backend: %s\n", settings.Analytics.EffectiveBackend())
	if settings.Analytics.EffectiveBackend().IsRelational() {
		cmd.Printf("  Database: %s\n", maskDatabaseURL(settings.Analytics.DatabaseURL))
	} else {
		cmd.Printf("  Chat file: %s\n", settings.Analytics.File)
		cmd.Printf("  Page views file: %s\n", settings.Analytics.PageViewsFile)
	}
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'aidir config init' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("aidir Setup Wizard")
	cmd.Println("==================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Platform Data")
	cmd.Println("---------------------")
	cmd.Printf("Platforms file [%s]: ", settings.Data.PlatformsFile)
	if path := readLine(reader); path != "" {
		settings.Data.PlatformsFile = path
	}
	cmd.Println()

	cmd.Println("Step 2: Analytics")
	cmd.Println("-----------------")
	cmd.Println("Leave empty to store analytics in JSON files.")
	cmd.Print("Database URL (postgres://... or a SQLite path): ")
	if url := readLine(reader); url != "" {
		settings.Analytics.DatabaseURL = url
	}
	cmd.Println()

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Println("Step 3: LLM Provider")
	cmd.Println("--------------------")
	if err := configureLLMProvider(cmd, reader); err != nil {
		return err
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runConfigLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

func runConfigCheck(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	settings, err := settingsService.Resolve()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if !settings.LLM.IsConfigured() {
		cmd.Println("No LLM provider configured; replies use the offline matcher.")
		return nil
	}

	cmd.Printf("Pinging %s (%s)... ", settings.LLM.Provider.Description(), settings.LLM.Model)
	if err := llmValidator(cmd.Context(), settings.LLM); err != nil {
		cmd.Println("FAILED")
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")
	return nil
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	cmd.Println("  1. None (offline matcher, or API key from the environment)")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+2, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers)+1, 1)
	if idx == 1 {
		cmd.Println("Using the provider selected by environment API keys, if any.")
		cmd.Println()
		return nil
	}
	selectedProvider := providers[idx-2]

	defaultModel := domain.DefaultLLMModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key (empty to use the environment): ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
	}

	if err := settingsService.SetLLMProvider(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	settings, err := settingsService.Resolve()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	if !settings.LLM.IsConfigured() {
		cmd.Printf("Saved %s, but no API key is set; replies use the offline matcher until one is.\n\n",
			selectedProvider.Description())
		return nil
	}

	cmd.Print("Validating configuration... ")
	if err := llmValidator(cmd.Context(), settings.LLM); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo when in is a terminal, otherwise it
// reads a plain line from reader.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// maskDatabaseURL hides the password of a connection URL.
func maskDatabaseURL(raw string) string {
	scheme, rest, ok := strings.Cut(raw, "://")
	if !ok {
		return raw
	}
	userinfo, host, ok := strings.Cut(rest, "@")
	if !ok {
		return raw
	}
	user, _, hasPassword := strings.Cut(userinfo, ":")
	if !hasPassword {
		return raw
	}
	return scheme + "://" + user + ":****@" + host
}
