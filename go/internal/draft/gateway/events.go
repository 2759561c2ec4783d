package gateway

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mcdev12/dynasty-auction/go/internal/draft/events"
)

// RoomEvent is the wire envelope for every outbound room notification
type RoomEvent struct {
	ID        string           `json:"id"`        // Event UUID
	RoomID    string           `json:"room_id"`   // Room identifier
	Type      events.EventType `json:"type"`      // Event type
	Timestamp time.Time        `json:"timestamp"` // Event creation time
	Data      json.RawMessage  `json:"data"`      // Event-specific payload
}

// NewRoomEvent wraps a payload in an envelope
func NewRoomEvent(roomID string, payload events.Payload) (*RoomEvent, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", payload.EventType(), err)
	}
	return &RoomEvent{
		ID:        uuid.NewString(),
		RoomID:    roomID,
		Type:      payload.EventType(),
		Timestamp: time.Now().UTC(),
		Data:      data,
	}, nil
}

// ParseEventPayload parses event data into the matching payload variant
func ParseEventPayload(event *RoomEvent) (events.Payload, error) {
	return events.Decode(event.Type, event.Data)
}
