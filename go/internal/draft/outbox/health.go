package outbox

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type HealthStatus struct {
	Healthy       bool            `json:"healthy"`
	RelayRunning  bool            `json:"relay_running"`
	NATSConnected *bool           `json:"nats_connected,omitempty"`
	PendingEvents int             `json:"pending_events"`
	LastEventTime time.Time       `json:"last_event_time"`
	Counters      CounterSnapshot `json:"counters"`
	Errors        []string        `json:"errors"`
}

// ConnectionChecker reports broker connectivity
type ConnectionChecker interface {
	Connected() bool
}

type HealthChecker struct {
	relay    *Relay
	counters *Counters
	broker   ConnectionChecker
	// pending above this is reported as unhealthy
	maxPending int
}

// NewHealthChecker creates a health checker. broker may be nil when no
// broker is configured.
func NewHealthChecker(relay *Relay, counters *Counters, broker ConnectionChecker) *HealthChecker {
	return &HealthChecker{
		relay:      relay,
		counters:   counters,
		broker:     broker,
		maxPending: cap(relay.queue) * 9 / 10,
	}
}

func (h *HealthChecker) Check() HealthStatus {
	status := HealthStatus{
		Healthy:       true,
		RelayRunning:  h.relay.Running(),
		PendingEvents: h.relay.Pending(),
		LastEventTime: h.relay.LastEventTime(),
		Errors:        []string{},
	}
	if h.counters != nil {
		status.Counters = h.counters.Snapshot()
	}

	if !status.RelayRunning {
		status.Healthy = false
		status.Errors = append(status.Errors, "relay not running")
	}
	if h.broker != nil {
		connected := h.broker.Connected()
		status.NATSConnected = &connected
		if !connected {
			status.Healthy = false
			status.Errors = append(status.Errors, "NATS disconnected")
		}
	}
	if status.PendingEvents > h.maxPending {
		status.Healthy = false
		status.Errors = append(status.Errors, "outbox buffer nearly full")
	}
	return status
}

// HandleHealth serves GET /health/outbox
func (h *HealthChecker) HandleHealth(w http.ResponseWriter, r *http.Request) {
	status := h.Check()

	w.Header().Set("Content-Type", "application/json")
	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(status); err != nil {
		log.Error().Err(err).Msg("failed to encode outbox health")
	}
}

func (h *HealthChecker) RegisterRoutes(r chi.Router) {
	r.Get("/health/outbox", h.HandleHealth)
}
