package gateway

import (
	"context"
	"errors"

	"github.com/mcdev12/dynasty-auction/go/internal/draft/auction"
	"github.com/mcdev12/dynasty-auction/go/internal/models"
	"github.com/mcdev12/dynasty-auction/go/internal/player"
)

// Dispatcher executes room operations on behalf of a participant
type Dispatcher interface {
	Join(ctx context.Context, roomID string, p models.Participant, teamName string) (auction.JoinResult, error)
	StartDraft(ctx context.Context, roomID string, p models.Participant) error
	Nominate(ctx context.Context, roomID string, p models.Participant, playerID string, startingPrice int) error
	PlaceBid(ctx context.Context, roomID string, p models.Participant, amount int) (models.Bid, error)
	TogglePause(ctx context.Context, roomID string, p models.Participant) (bool, error)
	PostChat(ctx context.Context, roomID string, p models.Participant, text string) (models.ChatMessage, error)
	Snapshot(ctx context.Context, roomID string) models.RoomState
	ChatHistory(ctx context.Context, roomID string) ([]models.ChatMessage, error)
}

// ParticipantResolver maps a user id to a known participant
type ParticipantResolver interface {
	Lookup(id string) (models.Participant, error)
}

// errorCode maps a rejection to the code sent to the client
func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidCommand):
		return "InvalidCommand"
	case errors.Is(err, player.ErrNotFound):
		return "PlayerNotFound"
	default:
		return auction.Code(err)
	}
}
