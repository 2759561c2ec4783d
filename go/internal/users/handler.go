package users

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// ParticipantHeader carries the caller id on authenticated REST calls
const ParticipantHeader = "X-Participant-Id"

// TeamUpdater pushes a participant's team name and logo into live rooms
type TeamUpdater interface {
	UpdateTeam(ctx context.Context, ownerID, name, logo string) (int, error)
}

// Handler exposes login and team settings over HTTP.
type Handler struct {
	directory *Directory
	teams     TeamUpdater
}

// NewHandler creates a handler. teams may be nil, in which case team
// updates only change the directory.
func NewHandler(directory *Directory, teams TeamUpdater) *Handler {
	return &Handler{directory: directory, teams: teams}
}

// HandleLogin handles POST /api/auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.directory.Authenticate(req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		log.Debug().Str("username", req.Username).Msg("login rejected")
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("login failed")
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, LoginResponse{User: p})
}

// HandleUpdateTeam handles PUT /api/users/{userID}/team. Owners may edit
// their own team; the commissioner may edit any.
func (h *Handler) HandleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	caller, err := h.directory.Lookup(r.Header.Get(ParticipantHeader))
	if err != nil {
		http.Error(w, "unknown participant", http.StatusUnauthorized)
		return
	}
	if caller.ID != userID && !caller.IsCommissioner() {
		http.Error(w, "cannot edit another participant's team", http.StatusForbidden)
		return
	}

	var req UpdateTeamRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 8192)).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	p, err := h.directory.UpdateTeam(userID, req.TeamName, req.TeamLogo)
	switch {
	case errors.Is(err, ErrUnknownParticipant):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, ErrInvalidTeam):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		log.Error().Err(err).Str("participant_id", userID).Msg("team update failed")
		http.Error(w, "team update failed", http.StatusInternalServerError)
		return
	}

	resp := UpdateTeamResponse{Success: true, User: p}
	if h.teams != nil {
		resp.Rooms, err = h.teams.UpdateTeam(r.Context(), userID, p.TeamName, p.TeamLogo)
		if err != nil {
			log.Error().Err(err).Str("participant_id", userID).Msg("failed to apply team update to rooms")
			http.Error(w, "team update failed", http.StatusInternalServerError)
			return
		}
	}

	log.Info().
		Str("participant_id", userID).
		Str("team_name", p.TeamName).
		Int("rooms", resp.Rooms).
		Msg("team settings updated")
	writeJSON(w, resp)
}

// RegisterRoutes registers auth and user routes
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/api/auth/login", h.HandleLogin)
	r.Put("/api/users/{userID}/team", h.HandleUpdateTeam)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode users response")
	}
}
