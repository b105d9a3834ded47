package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	platforms []domain.Platform
	lastQuery string
	lastOpts  domain.SearchOptions
}

func (m *mockSearchService) Search(query string, opts domain.SearchOptions) []domain.Platform {
	m.lastQuery = query
	m.lastOpts = opts
	return m.platforms
}

func (m *mockSearchService) Platform(slug string) (*domain.Platform, error) {
	for i := range m.platforms {
		if m.platforms[i].EffectiveSlug() == slug {
			return &m.platforms[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockSearchService) Categories() []domain.CategoryCount {
	counts := map[string]int{}
	var order []string
	for i := range m.platforms {
		if counts[m.platforms[i].Category] == 0 {
			order = append(order, m.platforms[i].Category)
		}
		counts[m.platforms[i].Category]++
	}
	out := make([]domain.CategoryCount, 0, len(order))
	for _, c := range order {
		out = append(out, domain.CategoryCount{Category: c, Count: counts[c]})
	}
	return out
}

func (m *mockSearchService) Count() int {
	return len(m.platforms)
}

// mockChatService is a mock implementation of driving.ChatService.
type mockChatService struct {
	requests []domain.ChatRequest
	cleared  []string
	reply    domain.Reply
	err      error
}

func (m *mockChatService) Chat(_ context.Context, req domain.ChatRequest) (*domain.Reply, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, domain.ErrInvalidInput
	}
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	reply := m.reply
	if req.SessionID != "" {
		reply.SessionID = req.SessionID
	}
	return &reply, nil
}

func (m *mockChatService) Clear(_ context.Context, sessionID string) error {
	m.cleared = append(m.cleared, sessionID)
	return nil
}

func (m *mockChatService) History(_ context.Context, _ string) ([]domain.Turn, error) {
	return nil, nil
}

func (m *mockChatService) Strategy() domain.StrategyInfo {
	return domain.StrategyInfo{Kind: domain.StrategyFallback}
}

// mockAnalyticsService is a mock implementation of driving.AnalyticsService.
type mockAnalyticsService struct {
	summary   domain.AnalyticsSummary
	pageViews domain.PageViewSummary
	err       error
}

func (m *mockAnalyticsService) Track(_, _ string, _ domain.IntentType, _ int) {}

func (m *mockAnalyticsService) TrackPageView(_ string) {}

func (m *mockAnalyticsService) Summary(_ context.Context) (*domain.AnalyticsSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &m.summary, nil
}

func (m *mockAnalyticsService) PageViews(_ context.Context) (*domain.PageViewSummary, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &m.pageViews, nil
}

func (m *mockAnalyticsService) Flush(_ context.Context) error {
	return nil
}

// testServices holds the mocks injected by setupTestServices.
var testServices struct {
	search    *mockSearchService
	chat      *mockChatService
	analytics *mockAnalyticsService
}

// setupTestServices injects mock services and returns a cleanup function
// restoring the previous services and flag values.
func setupTestServices() func() {
	oldSearch, oldChat, oldAnalytics, oldSettings := searchService, chatService, analyticsService, settingsService
	oldServer, oldMetrics, oldAutoWire := serverSettings, metrics, autoWire

	testServices.search = &mockSearchService{platforms: []domain.Platform{
		{ID: "synth-ai", Name: "SynthAI", Description: "Music generation", Category: "audio", Pricing: domain.PricingFreemium, Rating: 4.5, Featured: true},
		{ID: "pixel-forge", Name: "PixelForge", Description: "Image generation", Category: "image", Pricing: domain.PricingPaid},
	}}
	testServices.chat = &mockChatService{reply: domain.Reply{
		SessionID: "s-1",
		Response:  "Try SynthAI.",
		Intent:    domain.IntentSearch,
		Platforms: []domain.PlatformRef{{Name: "SynthAI", Slug: "synth-ai", Category: "audio"}},
	}}
	testServices.analytics = &mockAnalyticsService{}

	autoWire = false
	SetServices(Services{
		Search:    testServices.search,
		Chat:      testServices.chat,
		Analytics: testServices.analytics,
		Server:    domain.DefaultAppSettings().Server,
	})

	return func() {
		searchService, chatService, analyticsService, settingsService = oldSearch, oldChat, oldAnalytics, oldSettings
		serverSettings, metrics, autoWire = oldServer, oldMetrics, oldAutoWire
		resetFlags()
	}
}

func resetFlags() {
	searchLimit = domain.DefaultSearchLimit
	searchCategory = ""
	searchPricing = ""
	searchJSON = false
	chatSession = ""
	chatPlain = false
	analyticsJSON = false
	serveAddr = ""
	verbose = false
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "aidir", rootCmd.Use)
	assert.Contains(t, rootCmd.Long, "GEMINI_API_KEY")
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	require.NotNil(t, rootCmd.PersistentFlags().Lookup("config-dir"))
	assert.Equal(t, "v", rootCmd.PersistentFlags().Lookup("verbose").Shorthand)
}

func TestRootCmd_HasCommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"search", "platform", "categories", "chat", "serve", "analytics", "config", "mcp", "version"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestSetServices(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	assert.Same(t, testServices.search, searchService)
	assert.Same(t, testServices.chat, chatService)
	assert.Equal(t, ":8080", serverSettings.Addr)
}

func TestEnsureServices_SkippedWhenAutoWireOff(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	searchService = nil

	err := ensureServices(searchCmd)

	assert.NoError(t, err)
	assert.Nil(t, searchService)
}

func TestEnsureServices_NoAnnotation(t *testing.T) {
	oldAutoWire := autoWire
	autoWire = true
	defer func() { autoWire = oldAutoWire }()

	assert.NoError(t, ensureServices(versionCmd))
}

func TestCloseApp_NothingAssembled(t *testing.T) {
	application = nil
	assert.NotPanics(t, closeApp)
}

func TestPrintJSON(t *testing.T) {
	buf := new(bytes.Buffer)
	versionCmd.SetOut(buf)
	defer versionCmd.SetOut(nil)

	require.NoError(t, printJSON(versionCmd, map[string]int{"a": 1}))
	assert.Equal(t, "{\n  \"a\": 1\n}\n", buf.String())
}

func TestNeeds(t *testing.T) {
	assert.Equal(t, needsServices, searchCmd.Annotations[annotationNeeds])
	assert.Equal(t, needsServices, chatCmd.Annotations[annotationNeeds])
	assert.Equal(t, needsSettings, configCmd.Annotations[annotationNeeds])
	assert.Empty(t, versionCmd.Annotations[annotationNeeds])
}

var errBoom = errors.New("boom")
