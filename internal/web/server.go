// Package web is the thin HTTP collaborator over the matching engine:
// it forwards item ids down and ranked match lists up. No auth, no
// rendering; those surfaces live outside this system.
package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"lostfound-matching/internal/domain"
	"lostfound-matching/internal/finder"
	"lostfound-matching/internal/generator"
	"lostfound-matching/internal/models"
	"lostfound-matching/internal/quality"
	errs "lostfound-matching/pkg/errors"
)

type Server struct {
	repo   domain.Repository
	finder *finder.Finder
	gen    *generator.Generator
	logger *slog.Logger
}

func NewServer(repo domain.Repository, f *finder.Finder, g *generator.Generator, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{repo: repo, finder: f, gen: g, logger: logger}
}

// Router mounts the collaborator endpoints.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/items/{id}/matches", s.itemMatchesHandler).Methods("GET")
	r.HandleFunc("/matches/generate", s.generateHandler).Methods("POST")
	r.HandleFunc("/matches/{id}", s.matchDetailHandler).Methods("GET")
	r.HandleFunc("/matches/{id}/status", s.updateStatusHandler).Methods("POST")
	r.HandleFunc("/quality", s.qualityHandler).Methods("GET")
	return r
}

// rankedMatch is a finder result annotated with its quality assessment,
// the way review surfaces consume it.
type rankedMatch struct {
	models.Match
	Quality quality.Assessment `json:"quality"`
}

// itemMatchesHandler returns the ranked candidate list for an item,
// routing to the lost or found direction by the item's kind.
func (s *Server) itemMatchesHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	item, err := s.repo.GetItemByIDCtx(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if item == nil {
		s.writeError(w, errs.NewNotFound("web.itemMatchesHandler", "item "+id+" does not exist", nil))
		return
	}

	var matches []models.Match
	switch item.Kind {
	case models.KindLost:
		matches, err = s.finder.FindForLostItem(r.Context(), id)
	case models.KindFound:
		matches, err = s.finder.FindForFoundItem(r.Context(), id)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}

	ranked := make([]rankedMatch, 0, len(matches))
	for _, m := range matches {
		ranked = append(ranked, rankedMatch{Match: m, Quality: quality.Classify(m.Similarity)})
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"item_id": id,
		"kind":    item.Kind,
		"matches": ranked,
	})
}

// generateHandler runs bulk generation and returns the persisted matches.
func (s *Server) generateHandler(w http.ResponseWriter, r *http.Request) {
	persisted, err := s.gen.GenerateAll(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"persisted": len(persisted),
		"matches":   persisted,
	})
}

// matchDetailHandler returns a stored match joined with both reports.
func (s *Server) matchDetailHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	detail, err := s.repo.GetMatchWithItemsCtx(r.Context(), id)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if detail == nil {
		s.writeError(w, errs.NewNotFound("web.matchDetailHandler", "match "+id+" does not exist", nil))
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"match":      detail.Match,
		"lost_item":  detail.LostItem,
		"found_item": detail.FoundItem,
		"quality":    quality.Classify(detail.Match.Similarity),
	})
}

// updateStatusHandler moves a persisted match through its review states.
func (s *Server) updateStatusHandler(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var body struct {
		Status models.MatchStatus `json:"status"`
		Notes  *string            `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, errs.NewInvalidInput("web.updateStatusHandler", "invalid JSON body", err))
		return
	}
	if !body.Status.Valid() {
		s.writeError(w, errs.NewInvalidInput("web.updateStatusHandler", "unknown match status", nil))
		return
	}

	if err := s.repo.UpdateMatchStatusCtx(r.Context(), id, body.Status, body.Notes); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"match_id": id,
		"status":   body.Status,
	})
}

// qualityHandler is a classification probe: similarity in, tier out.
func (s *Server) qualityHandler(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("similarity")
	similarity, err := strconv.ParseFloat(raw, 64)
	if err != nil || similarity < 0 || similarity > 1 {
		s.writeError(w, errs.NewInvalidInput("web.qualityHandler", "similarity must be a number in [0, 1]", err))
		return
	}
	s.writeJSON(w, http.StatusOK, quality.Classify(similarity))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errs.Is(err, errs.ErrNotFound):
		status = http.StatusNotFound
	case errs.Is(err, errs.ErrInvalidInput):
		status = http.StatusBadRequest
	case errs.Is(err, errs.ErrConflict):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
