package history

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/dynasty-auction/go/internal/draft/events"
	"github.com/mcdev12/dynasty-auction/go/internal/models"
)

// Store is what the recorder writes to
type Store interface {
	InsertBid(ctx context.Context, roomID string, bid models.Bid) error
	RecordSale(ctx context.Context, roomID string, sale models.DraftedPlayer) error
	InsertChatMessage(ctx context.Context, msg models.ChatMessage) error
}

type record struct {
	roomID  string
	payload events.Payload
}

// Recorder persists bids, sales and chat from room notifications. Writes
// happen on the Run goroutine; Notify drops records when the buffer is full.
type Recorder struct {
	store Store
	queue chan record
}

func NewRecorder(store Store, buffer int) *Recorder {
	if buffer <= 0 {
		buffer = 256
	}
	return &Recorder{store: store, queue: make(chan record, buffer)}
}

func (r *Recorder) Notify(roomID string, payload events.Payload) {
	switch payload.(type) {
	case events.BidPlacedPayload, events.SaleCompletedPayload, events.ChatMessagePayload:
	default:
		return
	}
	select {
	case r.queue <- record{roomID: roomID, payload: payload}:
	default:
		log.Warn().
			Str("room_id", roomID).
			Str("event_type", string(payload.EventType())).
			Msg("history buffer full, dropping record")
	}
}

// Run writes queued records until ctx is cancelled
func (r *Recorder) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case rec := <-r.queue:
			r.write(ctx, rec)
		}
	}
}

func (r *Recorder) write(ctx context.Context, rec record) {
	var err error
	switch p := rec.payload.(type) {
	case events.BidPlacedPayload:
		err = r.store.InsertBid(ctx, rec.roomID, p.Bid)
	case events.SaleCompletedPayload:
		err = r.store.RecordSale(ctx, rec.roomID, p.Sale)
	case events.ChatMessagePayload:
		err = r.store.InsertChatMessage(ctx, p.Message)
	}

	switch {
	case err == nil:
	case errors.Is(err, ErrDuplicate):
		log.Debug().Err(err).Str("room_id", rec.roomID).Msg("history record already stored")
	default:
		log.Error().
			Err(err).
			Str("room_id", rec.roomID).
			Str("event_type", string(rec.payload.EventType())).
			Msg("failed to write history")
	}
}
