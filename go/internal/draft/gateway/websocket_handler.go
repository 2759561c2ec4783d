package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket upgrade requests for room connections
type WebSocketHandler struct {
	connectionManager *ConnectionManager
	participants      ParticipantResolver
	defaultRoom       string
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(cm *ConnectionManager, participants ParticipantResolver, defaultRoom string) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
		participants:      participants,
		defaultRoom:       defaultRoom,
	}
}

// HandleDraftConnection handles GET /ws/draft?room_id=&user_id=&team_name=
func (h *WebSocketHandler) HandleDraftConnection(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	roomID := query.Get("room_id")
	if roomID == "" {
		roomID = h.defaultRoom
	}
	if roomID == "" {
		http.Error(w, "room_id is required", http.StatusBadRequest)
		return
	}

	userID := query.Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	participant, err := h.participants.Lookup(userID)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("rejecting WebSocket connection for unknown participant")
		http.Error(w, "unknown participant", http.StatusUnauthorized)
		return
	}

	if err := h.connectionManager.UpgradeConnection(w, r, roomID, participant, query.Get("team_name")); err != nil {
		// the upgrader has already written an error response
		log.Error().
			Err(err).
			Str("room_id", roomID).
			Str("user_id", userID).
			Msg("failed to upgrade WebSocket connection")
	}
}

// HandleConnectionStats returns statistics about active connections
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.connectionManager.GetConnectionStats()); err != nil {
		log.Error().Err(err).Msg("failed to encode connection stats")
	}
}

// RegisterRoutes registers WebSocket routes
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/draft", h.HandleDraftConnection)
	r.Get("/ws/stats", h.HandleConnectionStats)
}
