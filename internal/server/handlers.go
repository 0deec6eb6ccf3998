package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/highlight"
	"github.com/YsraEstudos/FiscalConsultas-sub001/internal/tariff"
)

func (s *Server) handleListChapters(w http.ResponseWriter, r *http.Request) {
	numbers, err := s.store.ListChapters(r.Context())
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, map[string]any{"chapters": numbers})
}

func (s *Server) handleChapter(w http.ResponseWriter, r *http.Request) {
	number := chi.URLParam(r, "number")
	chapters, err := s.store.LoadChapters(r.Context(), []string{number})
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if len(chapters) == 0 {
		s.jsonError(w, http.StatusNotFound, "chapter not found: "+number)
		return
	}
	s.writeJSON(w, map[string]any{
		"number": number,
		"markup": s.renderer.RenderDocument(chapters, s.log),
	})
}

func (s *Server) handleDocument(w http.ResponseWriter, r *http.Request) {
	chapters, err := s.store.LoadChapters(r.Context(), splitChapters(r.URL.Query().Get("chapters")))
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte(s.renderer.RenderDocument(chapters, s.log)))
}

// highlightRequest is the one-shot highlight API payload.
type highlightRequest struct {
	Chapters []string `json:"chapters,omitempty"`
	Query    string   `json:"query"`
}

// highlightResponse carries the annotated markup plus the match summary.
type highlightResponse struct {
	Markup  string            `json:"markup"`
	Terms   []string          `json:"terms"`
	Counts  map[string]int    `json:"counts"`
	Quality highlight.Quality `json:"quality"`
}

func (s *Server) handleHighlight(w http.ResponseWriter, r *http.Request) {
	var req highlightRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		s.jsonError(w, http.StatusBadRequest, "query is required")
		return
	}

	chapters, err := s.store.LoadChapters(r.Context(), req.Chapters)
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	session := highlight.NewSession(s.log)
	defer session.Close()
	session.SetQuery(req.Query)
	if err := session.SetContent(s.renderer.RenderDocument(chapters, s.log)); err != nil {
		s.jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}

	markup, err := session.Markup()
	if err != nil {
		s.jsonError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, highlightResponse{
		Markup:  markup,
		Terms:   session.Terms(),
		Counts:  session.MatchCounts(),
		Quality: session.Quality(),
	})
}

func splitChapters(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var numbers []string
	for _, n := range strings.Split(raw, ",") {
		if n = strings.TrimSpace(n); n != "" {
			numbers = append(numbers, n)
		}
	}
	return numbers
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("writing response", zap.Error(err))
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// loadAll is a convenience for websocket sessions: the full document map.
func (s *Server) loadAll(r *http.Request, numbers []string) (map[string]*tariff.Chapter, error) {
	return s.store.LoadChapters(r.Context(), numbers)
}
