package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/dynasty-auction/go/internal/draft/auction"
	"github.com/mcdev12/dynasty-auction/go/internal/models"
)

// ParticipantHeader carries the caller's user id on REST and RPC requests
const ParticipantHeader = "X-Participant-Id"

// JoinRequest is the body of POST /api/rooms/{roomID}/join
type JoinRequest struct {
	UserID   string `json:"user_id,omitempty"`
	TeamName string `json:"team_name,omitempty"`
}

// ErrorResponse is the body of every failed REST call
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StateHandler serves room state over HTTP
type StateHandler struct {
	dispatcher   Dispatcher
	participants ParticipantResolver
}

// NewStateHandler creates a new state handler
func NewStateHandler(dispatcher Dispatcher, participants ParticipantResolver) *StateHandler {
	return &StateHandler{
		dispatcher:   dispatcher,
		participants: participants,
	}
}

// HandleGetRoom handles GET /api/rooms/{roomID}
func (h *StateHandler) HandleGetRoom(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	writeJSON(w, http.StatusOK, h.dispatcher.Snapshot(r.Context(), roomID))
}

// HandleJoin handles POST /api/rooms/{roomID}/join
func (h *StateHandler) HandleJoin(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")

	var req JoinRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "InvalidCommand", "invalid request body")
			return
		}
	}
	userID := r.Header.Get(ParticipantHeader)
	if userID == "" {
		userID = req.UserID
	}

	participant, ok := h.resolve(w, userID)
	if !ok {
		return
	}

	res, err := h.dispatcher.Join(r.Context(), roomID, participant, req.TeamName)
	if err != nil {
		writeError(w, statusFor(err), errorCode(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleGetChat handles GET /api/rooms/{roomID}/chat
func (h *StateHandler) HandleGetChat(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomID")
	messages, err := h.dispatcher.ChatHistory(r.Context(), roomID)
	if err != nil {
		log.Error().Err(err).Str("room_id", roomID).Msg("failed to load chat history")
		writeError(w, http.StatusInternalServerError, "Internal", "failed to load chat history")
		return
	}
	if messages == nil {
		messages = []models.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, messages)
}

func (h *StateHandler) resolve(w http.ResponseWriter, userID string) (models.Participant, bool) {
	if userID == "" {
		writeError(w, http.StatusUnauthorized, "NotAuthorized", "participant id is required")
		return models.Participant{}, false
	}
	participant, err := h.participants.Lookup(userID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "NotAuthorized", err.Error())
		return models.Participant{}, false
	}
	return participant, true
}

// RegisterRoutes registers room state routes
func (h *StateHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/rooms/{roomID}", func(r chi.Router) {
		r.Get("/", h.HandleGetRoom)
		r.Post("/join", h.HandleJoin)
		r.Get("/chat", h.HandleGetChat)
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, auction.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, auction.ErrRoomClosed):
		return http.StatusGone
	case auction.IsRejection(err):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Code: code, Message: message})
}
