package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/dynasty-auction/go/internal/draft/events"
)

type Config struct {
	Buffer     int
	MaxRetries int
	RetryDelay time.Duration
	// SkipTypes are never relayed.
	SkipTypes []events.EventType
}

func DefaultConfig() Config {
	return Config{
		Buffer:     1024,
		MaxRetries: 3,
		RetryDelay: time.Second,
		SkipTypes:  []events.EventType{events.EventTypeTimerTick},
	}
}

// Relay forwards room notifications to a publisher from its own goroutine.
// Notify never blocks; events that do not fit in the buffer are dropped.
type Relay struct {
	publisher EventPublisher
	config    Config
	clock     clockwork.Clock
	skip      map[events.EventType]bool
	queue     chan queued
	metrics   MetricsCollector

	mu            sync.Mutex
	running       bool
	lastEventTime time.Time
}

// NewRelay creates a relay. metrics may be nil.
func NewRelay(publisher EventPublisher, cfg Config, clock clockwork.Clock, metrics MetricsCollector) *Relay {
	if cfg.Buffer <= 0 {
		cfg.Buffer = DefaultConfig().Buffer
	}
	if metrics == nil {
		metrics = NoOpMetricsCollector{}
	}
	skip := make(map[events.EventType]bool, len(cfg.SkipTypes))
	for _, t := range cfg.SkipTypes {
		skip[t] = true
	}
	return &Relay{
		publisher: publisher,
		config:    cfg,
		clock:     clock,
		skip:      skip,
		queue:     make(chan queued, cfg.Buffer),
		metrics:   metrics,
	}
}

// queued is a notification waiting for the relay goroutine. Payloads are
// value snapshots, so encoding them later observes the state at Notify time.
type queued struct {
	roomID   string
	payload  events.Payload
	queuedAt time.Time
}

// Notify queues a room notification for publishing. Encoding happens in Run.
func (r *Relay) Notify(roomID string, payload events.Payload) {
	eventType := payload.EventType()
	if r.skip[eventType] {
		return
	}

	select {
	case r.queue <- queued{roomID: roomID, payload: payload, queuedAt: r.clock.Now().UTC()}:
	default:
		r.metrics.RecordDropped(string(eventType))
		log.Warn().
			Str("room_id", roomID).
			Str("event_type", string(eventType)).
			Msg("outbox buffer full, dropping event")
	}
}

// Run publishes queued events until ctx is cancelled
func (r *Relay) Run(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return errors.New("outbox relay already running")
	}
	r.running = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.running = false
		r.mu.Unlock()
	}()

	log.Info().
		Int("buffer", cap(r.queue)).
		Int("max_retries", r.config.MaxRetries).
		Msg("outbox relay started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Int("pending", len(r.queue)).Msg("outbox relay stopped")
			return nil
		case item := <-r.queue:
			r.process(ctx, item)
		}
	}
}

func (r *Relay) process(ctx context.Context, item queued) {
	eventType := item.payload.EventType()
	data, err := json.Marshal(item.payload)
	if err != nil {
		r.metrics.RecordEventProcessed(string(eventType), false, 0)
		log.Error().
			Err(err).
			Str("room_id", item.roomID).
			Str("event_type", string(eventType)).
			Msg("failed to marshal outbox payload")
		return
	}

	event := OutboxEvent{
		ID:        uuid.New(),
		RoomID:    item.roomID,
		EventType: eventType,
		Payload:   data,
		CreatedAt: item.queuedAt,
	}

	start := r.clock.Now()
	err = r.publishWithRetry(ctx, event)
	r.metrics.RecordEventProcessed(string(event.EventType), err == nil, r.clock.Since(start))
	if err != nil {
		log.Error().
			Err(err).
			Str("event_id", event.ID.String()).
			Str("event_type", string(event.EventType)).
			Str("room_id", event.RoomID).
			Msg("failed to publish event")
		return
	}

	r.mu.Lock()
	r.lastEventTime = r.clock.Now()
	r.mu.Unlock()
}

func (r *Relay) publishWithRetry(ctx context.Context, event OutboxEvent) error {
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-r.clock.After(r.config.RetryDelay * time.Duration(attempt)):
			}
		}

		err := r.publisher.Publish(ctx, event)
		r.metrics.RecordPublishAttempt(string(event.EventType), attempt+1, err == nil)
		if err != nil {
			lastErr = err
			log.Warn().
				Err(err).
				Str("event_id", event.ID.String()).
				Int("attempt", attempt+1).
				Msg("failed to publish event, retrying")
			continue
		}
		return nil
	}

	return fmt.Errorf("failed after %d attempts: %w", r.config.MaxRetries+1, lastErr)
}

// Pending returns the number of queued events
func (r *Relay) Pending() int {
	return len(r.queue)
}

// Running reports whether Run is active
func (r *Relay) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// LastEventTime returns when the last event was published
func (r *Relay) LastEventTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastEventTime
}
