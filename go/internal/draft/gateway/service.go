package gateway

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Service bundles the WebSocket and REST surfaces of the draft rooms
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	stateHandler      *StateHandler
}

// Config holds configuration for the gateway service
type Config struct {
	ConnectionConfig ConnectionConfig
	DefaultRoom      string
}

// DefaultConfig returns default configuration for the gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		DefaultRoom:      "main",
	}
}

// NewService creates a new gateway service. The rooms the gateway drives
// publish to Notifier(), so the dispatcher is bound afterwards with Bind.
func NewService(config Config, participants ParticipantResolver) *Service {
	cm := NewConnectionManager(config.ConnectionConfig, nil)
	return &Service{
		connectionManager: cm,
		wsHandler:         NewWebSocketHandler(cm, participants, config.DefaultRoom),
		stateHandler:      NewStateHandler(nil, participants),
	}
}

// Bind sets the dispatcher commands and REST calls are executed against.
// It must be called before routes are served.
func (s *Service) Bind(dispatcher Dispatcher) {
	s.connectionManager.dispatcher = dispatcher
	s.stateHandler.dispatcher = dispatcher
}

// Notifier returns the sink rooms publish their notifications to
func (s *Service) Notifier() *ConnectionManager {
	return s.connectionManager
}

// Start runs the broadcast loop until ctx is cancelled
func (s *Service) Start(ctx context.Context) {
	log.Info().Msg("starting draft gateway service")
	s.connectionManager.Start(ctx)
	log.Info().Msg("draft gateway service stopped")
}

// RegisterRoutes registers the WebSocket and REST routes
func (s *Service) RegisterRoutes(r chi.Router) {
	s.wsHandler.RegisterRoutes(r)
	s.stateHandler.RegisterRoutes(r)
	log.Info().Msg("draft gateway routes registered")
}

// Stats returns statistics about the gateway service
func (s *Service) Stats() ConnectionStats {
	return s.connectionManager.GetConnectionStats()
}
