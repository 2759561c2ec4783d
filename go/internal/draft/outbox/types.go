package outbox

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/dynasty-auction/go/internal/draft/events"
)

// OutboxEvent is a room notification queued for an external subscriber
type OutboxEvent struct {
	ID        uuid.UUID        `json:"id"`
	RoomID    string           `json:"room_id"`
	EventType events.EventType `json:"type"`
	Payload   json.RawMessage  `json:"data"`
	CreatedAt time.Time        `json:"timestamp"`
}

// EventPublisher delivers outbox events to a broker
type EventPublisher interface {
	Publish(ctx context.Context, event OutboxEvent) error
}
