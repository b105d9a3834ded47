package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/VladSF415/ai-platforms-directory/internal/core/domain"
)

// maxSearchLimit caps the limit query parameter.
const maxSearchLimit = 50

type clearRequest struct {
	SessionID string `json:"sessionId"`
}

type pageViewRequest struct {
	Path string `json:"path"`
}

type searchResponse struct {
	Query     string            `json:"query"`
	Count     int               `json:"count"`
	Platforms []domain.Platform `json:"platforms"`
}

type healthResponse struct {
	Status    string              `json:"status"`
	Strategy  domain.StrategyInfo `json:"strategy"`
	Platforms int                 `json:"platforms"`
}

// decodeJSON reads a bounded JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", domain.ErrInvalidInput)
	}
	return nil
}

// handleChat handles POST /chat.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req domain.ChatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	reply, err := s.ports.Chat.Chat(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

// handleChatClear handles POST /chat/clear.
func (s *Server) handleChatClear(w http.ResponseWriter, r *http.Request) {
	var req clearRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}

	if err := s.ports.Chat.Clear(r.Context(), req.SessionID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// handleSearch handles GET /platforms/search.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := domain.SearchOptions{
		Category: strings.TrimSpace(q.Get("category")),
		Pricing:  domain.Pricing(q.Get("pricing")).Normalised(),
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		opts.Limit = min(limit, maxSearchLimit)
	}

	query := q.Get("q")
	platforms := s.ports.Search.Search(query, opts)
	if platforms == nil {
		platforms = []domain.Platform{}
	}
	writeJSON(w, http.StatusOK, searchResponse{Query: query, Count: len(platforms), Platforms: platforms})
}

// handlePlatform handles GET /platforms/{slug}.
func (s *Server) handlePlatform(w http.ResponseWriter, r *http.Request) {
	platform, err := s.ports.Search.Platform(r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, platform)
}

// handleCategories handles GET /categories.
func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	categories := s.ports.Search.Categories()
	if categories == nil {
		categories = []domain.CategoryCount{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": categories})
}

// handlePageView handles POST /analytics/pageview.
func (s *Server) handlePageView(w http.ResponseWriter, r *http.Request) {
	var req pageViewRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeServiceError(w, err)
		return
	}
	if strings.TrimSpace(req.Path) == "" {
		writeError(w, http.StatusBadRequest, "path is required")
		return
	}

	s.ports.Analytics.TrackPageView(req.Path)
	writeJSON(w, http.StatusAccepted, map[string]bool{"ok": true})
}

// handleAnalyticsSummary handles GET /analytics/summary.
func (s *Server) handleAnalyticsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.ports.Analytics.Summary(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handlePageViewSummary handles GET /analytics/pageviews.
func (s *Server) handlePageViewSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.ports.Analytics.PageViews(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// handleHealth handles GET /healthz.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Strategy:  s.ports.Chat.Strategy(),
		Platforms: s.ports.Search.Count(),
	})
}
