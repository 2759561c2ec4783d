package draft

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/dynasty-auction/go/internal/draft/auction"
	"github.com/mcdev12/dynasty-auction/go/internal/models"
)

// PlayerCatalog resolves nominated player ids
type PlayerCatalog interface {
	Get(id string) (models.Player, error)
}

// ChatArchive reads persisted chat for rooms whose in-memory history is gone
type ChatArchive interface {
	RecentChat(ctx context.Context, roomID string, limit int) ([]models.ChatMessage, error)
}

// App routes participant operations to the room they address
type App struct {
	rooms   *auction.Registry
	players PlayerCatalog
	archive ChatArchive
	chatMax int
}

// NewApp creates a new draft App. archive may be nil.
func NewApp(rooms *auction.Registry, players PlayerCatalog, archive ChatArchive, chatMax int) *App {
	return &App{
		rooms:   rooms,
		players: players,
		archive: archive,
		chatMax: chatMax,
	}
}

func (a *App) room(roomID string) *auction.Room {
	return a.rooms.GetOrCreate(roomID)
}

// Join binds p to a team in the room and returns the room as p sees it
func (a *App) Join(ctx context.Context, roomID string, p models.Participant, teamName string) (auction.JoinResult, error) {
	res, err := a.room(roomID).Join(p, teamName)
	if err != nil {
		return res, a.rejected("join", roomID, p, err)
	}
	if len(res.Chat) == 0 {
		res.Chat, err = a.ChatHistory(ctx, roomID)
		if err != nil {
			log.Warn().Err(err).Str("room_id", roomID).Msg("failed to load archived chat on join")
			res.Chat = nil
		}
	}
	return res, nil
}

// StartDraft starts the room's draft
func (a *App) StartDraft(ctx context.Context, roomID string, p models.Participant) error {
	if err := a.room(roomID).StartDraft(p); err != nil {
		return a.rejected("start_draft", roomID, p, err)
	}
	return nil
}

// Nominate resolves playerID through the catalog and opens an auction for it
func (a *App) Nominate(ctx context.Context, roomID string, p models.Participant, playerID string, startingPrice int) error {
	player, err := a.players.Get(playerID)
	if err != nil {
		return a.rejected("nominate", roomID, p, fmt.Errorf("resolve player %q: %w", playerID, err))
	}
	if err := a.room(roomID).Nominate(p, player, startingPrice); err != nil {
		return a.rejected("nominate", roomID, p, err)
	}
	return nil
}

// PlaceBid places a bid for the caller's team
func (a *App) PlaceBid(ctx context.Context, roomID string, p models.Participant, amount int) (models.Bid, error) {
	bid, err := a.room(roomID).PlaceBid(p, amount)
	if err != nil {
		return bid, a.rejected("place_bid", roomID, p, err)
	}
	return bid, nil
}

// TogglePause flips the pause flag of the room's draft
func (a *App) TogglePause(ctx context.Context, roomID string, p models.Participant) (bool, error) {
	paused, err := a.room(roomID).TogglePause(p)
	if err != nil {
		return paused, a.rejected("toggle_pause", roomID, p, err)
	}
	return paused, nil
}

// PostChat posts a chat message to the room
func (a *App) PostChat(ctx context.Context, roomID string, p models.Participant, text string) (models.ChatMessage, error) {
	msg, err := a.room(roomID).PostChat(p, text)
	if err != nil {
		return msg, a.rejected("chat", roomID, p, err)
	}
	return msg, nil
}

// UpdateTeam applies a participant's team name and logo to every live room
// where they own a team. It returns the number of rooms updated.
func (a *App) UpdateTeam(ctx context.Context, ownerID, name, logo string) (int, error) {
	updated := 0
	for _, id := range a.rooms.RoomIDs() {
		room, ok := a.rooms.Get(id)
		if !ok {
			continue
		}
		_, err := room.UpdateTeam(ownerID, name, logo)
		switch {
		case err == nil:
			updated++
		case errors.Is(err, auction.ErrTeamNotFound), errors.Is(err, auction.ErrRoomClosed):
		default:
			return updated, fmt.Errorf("update team in room %s: %w", id, err)
		}
	}
	return updated, nil
}

// Snapshot returns a copy of the room state
func (a *App) Snapshot(ctx context.Context, roomID string) models.RoomState {
	return a.room(roomID).Snapshot()
}

// ChatHistory returns the room's recent chat, falling back to the archive
func (a *App) ChatHistory(ctx context.Context, roomID string) ([]models.ChatMessage, error) {
	if chat := a.room(roomID).Chat(); len(chat) > 0 || a.archive == nil {
		return chat, nil
	}
	messages, err := a.archive.RecentChat(ctx, roomID, a.chatMax)
	if err != nil {
		return nil, fmt.Errorf("load archived chat for room %s: %w", roomID, err)
	}
	return messages, nil
}

func (a *App) rejected(op, roomID string, p models.Participant, err error) error {
	log.Debug().
		Err(err).
		Str("op", op).
		Str("room_id", roomID).
		Str("participant_id", p.ID).
		Str("code", auction.Code(err)).
		Msg("operation rejected")
	return err
}
