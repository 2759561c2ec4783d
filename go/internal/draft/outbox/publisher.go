package outbox

import (
	"context"

	"github.com/rs/zerolog/log"
)

// LogPublisher logs events instead of delivering them. It is used when no
// broker is configured.
type LogPublisher struct{}

func NewLogPublisher() *LogPublisher {
	return &LogPublisher{}
}

func (p *LogPublisher) Publish(ctx context.Context, event OutboxEvent) error {
	log.Debug().
		Str("event_id", event.ID.String()).
		Str("event_type", string(event.EventType)).
		Str("room_id", event.RoomID).
		Int("payload_bytes", len(event.Payload)).
		Msg("publishing event")
	return nil
}
