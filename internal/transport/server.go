// Package transport implements the messaging channel between the capture
// context and the store-owning context: a JSON-over-HTTP server and client,
// plus an in-process loopback for single-binary use.
package transport

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/insightful/insightful/internal/scrape"
)

// DefaultSnippetLength bounds search result previews.
const DefaultSnippetLength = 200

// Server exposes the content store over HTTP. The save endpoint carries the
// messaging contract; failures there surface as success=false
// acknowledgments. Read endpoints follow the degrade-to-absent policy.
type Server struct {
	store      scrape.ContentStore
	snippetLen int
}

// NewServer creates a server around an open store. snippetLen of zero or
// less applies DefaultSnippetLength.
func NewServer(store scrape.ContentStore, snippetLen int) *Server {
	if snippetLen <= 0 {
		snippetLen = DefaultSnippetLength
	}
	return &Server{store: store, snippetLen: snippetLen}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/scrape", s.handleSave)
		r.Get("/content", s.handleGetByURL)
		r.Get("/content/{id}", s.handleGetByID)
		r.Delete("/content/{id}", s.handleDelete)
		r.Get("/recent", s.handleRecent)
		r.Get("/search", s.handleSearch)
		r.Post("/clear", s.handleClear)
	})

	return r
}

func (s *Server) handleSave(w http.ResponseWriter, r *http.Request) {
	var req scrape.SaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, scrape.SaveResponse{
			Success: false, Error: "malformed request body",
		})
		return
	}
	if req.Action != scrape.SaveAction {
		writeJSON(w, http.StatusBadRequest, scrape.SaveResponse{
			Success: false, Error: "unknown action " + strconv.Quote(req.Action),
		})
		return
	}

	id, err := s.store.SaveContent(r.Context(), &req.Content)
	if err != nil {
		slog.Error("save request failed",
			"url", req.Content.URL,
			"request_id", middleware.GetReqID(r.Context()),
			"error", err)

		status := http.StatusInternalServerError
		if errors.Is(err, scrape.ErrEmptyURL) || errors.Is(err, scrape.ErrInvalidTimestamp) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, scrape.SaveResponse{Success: false, Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, scrape.SaveResponse{Success: true, ID: id})
}

func (s *Server) handleGetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	c := s.store.GetContentByID(r.Context(), id)
	if c == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleGetByURL(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		http.Error(w, "missing url parameter", http.StatusBadRequest)
		return
	}

	c := s.store.GetContentByURL(r.Context(), url)
	if c == nil {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	limit := scrape.DefaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = parsed
	}

	items := s.store.GetRecentContent(r.Context(), limit)
	if items == nil {
		items = []*scrape.ScrapedContent{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	results := []scrape.SearchResult{}
	for _, c := range s.store.SearchContent(r.Context(), r.URL.Query().Get("q")) {
		results = append(results, scrape.NewSearchResult(c, s.snippetLen))
	}
	writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if err := s.store.DeleteContent(r.Context(), id); err != nil {
		slog.Error("delete failed", "id", id, "error", err)
		http.Error(w, "delete failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Clear(r.Context()); err != nil {
		slog.Error("clear failed", "error", err)
		http.Error(w, "clear failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"stats":  stats,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
