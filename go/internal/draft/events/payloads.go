package events

import (
	"github.com/mcdev12/dynasty-auction/go/internal/models"
)

// EventType identifies an outbound room notification.
type EventType string

const (
	EventTypeRoomState       EventType = "room-state"
	EventTypeDraftStarted    EventType = "draft-started"
	EventTypeDraftPaused     EventType = "draft-paused"
	EventTypePlayerNominated EventType = "player-nominated"
	EventTypeBidPlaced       EventType = "bid-placed"
	EventTypeTimerTick       EventType = "timer-tick"
	EventTypeTimerWarning    EventType = "timer-warning"
	EventTypeSaleCompleted   EventType = "sale-completed"
	EventTypeChatMessage     EventType = "chat-message"
	EventTypeChatHistory     EventType = "chat-history"
	EventTypeError           EventType = "error"
)

// Payload is implemented by every outbound notification variant.
type Payload interface {
	EventType() EventType
}

// RoomStatePayload carries a full room snapshot.
type RoomStatePayload struct {
	Room models.RoomState `json:"room"`
}

// DraftStartedPayload is emitted once when the commissioner starts the draft.
type DraftStartedPayload struct {
	DraftState     models.DraftState `json:"draft_state"`
	FirstNominator string            `json:"first_nominator"`
}

// DraftPausedPayload is emitted on every pause toggle.
type DraftPausedPayload struct {
	DraftState models.DraftState `json:"draft_state"`
	IsPaused   bool              `json:"is_paused"`
}

// PlayerNominatedPayload opens an auction.
type PlayerNominatedPayload struct {
	DraftState    models.DraftState `json:"draft_state"`
	Player        models.Player     `json:"player"`
	NominatorID   string            `json:"nominator_team_id"`
	StartingPrice int               `json:"starting_price"`
}

// BidPlacedPayload reports an accepted bid.
type BidPlacedPayload struct {
	DraftState models.DraftState `json:"draft_state"`
	Bid        models.Bid        `json:"bid"`
}

// TimerTickPayload is sent every second while an auction runs.
type TimerTickPayload struct {
	TimeRemaining int `json:"time_remaining"`
}

// TimerWarningPayload is advisory only.
type TimerWarningPayload struct {
	TimeRemaining int    `json:"time_remaining"`
	Message       string `json:"message"`
}

// SaleCompletedPayload carries the resolved sale and the room after it.
type SaleCompletedPayload struct {
	Room models.RoomState     `json:"room"`
	Sale models.DraftedPlayer `json:"sale"`
}

// ChatMessagePayload is a single chat line.
type ChatMessagePayload struct {
	Message models.ChatMessage `json:"message"`
}

// ChatHistoryPayload is sent only to a joining caller.
type ChatHistoryPayload struct {
	Messages []models.ChatMessage `json:"messages"`
}

// ErrorPayload is a rejection sent only to the requesting caller.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (RoomStatePayload) EventType() EventType       { return EventTypeRoomState }
func (DraftStartedPayload) EventType() EventType    { return EventTypeDraftStarted }
func (DraftPausedPayload) EventType() EventType     { return EventTypeDraftPaused }
func (PlayerNominatedPayload) EventType() EventType { return EventTypePlayerNominated }
func (BidPlacedPayload) EventType() EventType       { return EventTypeBidPlaced }
func (TimerTickPayload) EventType() EventType       { return EventTypeTimerTick }
func (TimerWarningPayload) EventType() EventType    { return EventTypeTimerWarning }
func (SaleCompletedPayload) EventType() EventType   { return EventTypeSaleCompleted }
func (ChatMessagePayload) EventType() EventType     { return EventTypeChatMessage }
func (ChatHistoryPayload) EventType() EventType     { return EventTypeChatHistory }
func (ErrorPayload) EventType() EventType           { return EventTypeError }
