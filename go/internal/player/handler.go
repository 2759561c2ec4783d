package player

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/dynasty-auction/go/internal/models"
)

// Handler serves the catalog and imported draft history over HTTP.
type Handler struct {
	catalog *Catalog
	history *DraftHistory
}

// NewHandler creates a handler. history may be nil, which disables the
// draft history routes and league imports.
func NewHandler(catalog *Catalog, history *DraftHistory) *Handler {
	return &Handler{catalog: catalog, history: history}
}

// UpdateRequest is the optional body of POST /api/update-sleeper-data
type UpdateRequest struct {
	LeagueID string `json:"leagueId"`
}

// UpdateResponse reports an on-demand refresh
type UpdateResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	Players      int    `json:"players"`
	HistoryPicks int    `json:"historyPicks,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HandleListPlayers handles GET /api/players?position=&limit=
func (h *Handler) HandleListPlayers(w http.ResponseWriter, r *http.Request) {
	f := Filter{Position: r.URL.Query().Get("position")}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		f.Limit = limit
	}
	writeJSON(w, http.StatusOK, h.catalog.List(f))
}

// HandleUpdate handles POST /api/update-sleeper-data. It reloads the catalog
// and, when a league id is given, imports that league's draft history.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req UpdateRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	resp := UpdateResponse{Success: true, Message: "Player data updated successfully"}
	if leagueID := strings.TrimSpace(req.LeagueID); leagueID != "" {
		if h.history == nil {
			writeJSON(w, http.StatusNotImplemented, errorResponse{Error: "draft history is not configured"})
			return
		}
		picks, err := h.history.Import(r.Context(), leagueID)
		if err != nil {
			// the catalog refresh still runs
			log.Error().Err(err).Str("league_id", leagueID).Msg("draft history import failed")
			resp.Message = "Player data updated, draft history import failed"
		} else {
			resp.HistoryPicks = len(picks)
		}
	}

	if err := h.catalog.Refresh(r.Context()); err != nil {
		log.Error().Err(err).Msg("on-demand player refresh failed")
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
		return
	}
	resp.Players = h.catalog.Len()
	writeJSON(w, http.StatusOK, resp)
}

// HandleDraftHistory handles GET /api/draft-history and
// GET /api/draft-history/{leagueID}. With a league id the league is fetched
// and stored first; without one the stored picks are returned.
func (h *Handler) HandleDraftHistory(w http.ResponseWriter, r *http.Request) {
	var (
		picks []models.DraftHistoryPick
		err   error
	)
	if leagueID := chi.URLParam(r, "leagueID"); leagueID != "" {
		picks, err = h.history.Import(r.Context(), leagueID)
	} else {
		picks, err = h.history.List(r.Context())
	}
	if err != nil {
		log.Error().Err(err).Msg("draft history request failed")
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: err.Error()})
		return
	}
	if picks == nil {
		picks = []models.DraftHistoryPick{}
	}
	writeJSON(w, http.StatusOK, picks)
}

// RegisterRoutes registers catalog routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/api/players", h.HandleListPlayers)
	r.Post("/api/update-sleeper-data", h.HandleUpdate)
	if h.history != nil {
		r.Get("/api/draft-history", h.HandleDraftHistory)
		r.Get("/api/draft-history/{leagueID}", h.HandleDraftHistory)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode players response")
	}
}
