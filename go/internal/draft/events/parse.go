package events

import (
	"encoding/json"
	"fmt"
)

// Decode parses raw event data into the payload variant named by eventType.
func Decode(eventType EventType, data []byte) (Payload, error) {
	var p Payload
	switch eventType {
	case EventTypeRoomState:
		p = &RoomStatePayload{}
	case EventTypeDraftStarted:
		p = &DraftStartedPayload{}
	case EventTypeDraftPaused:
		p = &DraftPausedPayload{}
	case EventTypePlayerNominated:
		p = &PlayerNominatedPayload{}
	case EventTypeBidPlaced:
		p = &BidPlacedPayload{}
	case EventTypeTimerTick:
		p = &TimerTickPayload{}
	case EventTypeTimerWarning:
		p = &TimerWarningPayload{}
	case EventTypeSaleCompleted:
		p = &SaleCompletedPayload{}
	case EventTypeChatMessage:
		p = &ChatMessagePayload{}
	case EventTypeChatHistory:
		p = &ChatHistoryPayload{}
	case EventTypeError:
		p = &ErrorPayload{}
	default:
		return nil, fmt.Errorf("unknown event type %q", eventType)
	}
	if err := json.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("decode %s payload: %w", eventType, err)
	}
	return p, nil
}
