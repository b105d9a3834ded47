package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
	"github.com/VladSF415/ai-platforms-directory/internal/core/ports/driving"
	"github.com/VladSF415/ai-platforms-directory/internal/logger"
)

// shutdownTimeout bounds how long in-flight requests may finish.
const shutdownTimeout = 10 * time.Second

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 64 << 10

// Metrics receives per-request observations and serves the scrape endpoint.
type Metrics interface {
	RecordHTTPRequest(method, route string, status int, duration time.Duration)
	Handler() http.Handler
}

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	Search    driving.SearchService
	Chat      driving.ChatService
	Analytics driving.AnalyticsService

	// Metrics is optional; nil disables /metrics and request counters.
	Metrics Metrics
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Chat == nil {
		return ErrMissingChatService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}

// Server serves the JSON API.
type Server struct {
	ports    *Ports
	settings domain.ServerSettings
	limiters *clientLimiters
	handler  http.Handler
}

// NewServer creates a server for the given ports.
func NewServer(ports *Ports, settings domain.ServerSettings) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	trusted, err := parseTrustedProxies(settings.TrustedProxies)
	if err != nil {
		return nil, err
	}

	s := &Server{
		ports:    ports,
		settings: settings,
		limiters: newClientLimiters(settings.RateLimitRPS, settings.RateLimitBurst, trusted),
	}
	s.handler = s.routes()
	return s, nil
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("POST /chat", s.limiters.middleware(http.HandlerFunc(s.handleChat)))
	mux.HandleFunc("POST /chat/clear", s.handleChatClear)

	mux.HandleFunc("GET /platforms/search", s.handleSearch)
	mux.HandleFunc("GET /platforms/{slug}", s.handlePlatform)
	mux.HandleFunc("GET /categories", s.handleCategories)

	if s.ports.Analytics != nil {
		mux.HandleFunc("POST /analytics/pageview", s.handlePageView)
		mux.HandleFunc("GET /analytics/summary", s.handleAnalyticsSummary)
		mux.HandleFunc("GET /analytics/pageviews", s.handlePageViewSummary)
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.ports.Metrics != nil {
		mux.Handle("GET /metrics", s.ports.Metrics.Handler())
	}

	return recoverPanics(instrument(s.ports.Metrics, mux))
}

// Run serves on settings.Addr until ctx is cancelled, then drains
// in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	httpServer := &http.Server{
		Addr:              s.settings.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: s.settings.ReadHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP API listening on %s", s.settings.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// Close stops background work. Run calls it on exit.
func (s *Server) Close() {
	s.limiters.stop()
}
