package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"slices"

	"github.com/lib/pq"

	"github.com/mcdev12/dynasty-auction/go/internal/models"
	"github.com/mcdev12/dynasty-auction/go/internal/sqlutil"
)

//go:embed schema.sql
var schema string

const uniqueViolation = pq.ErrorCode("23505")

// ErrDuplicate is returned when a record was already stored
var ErrDuplicate = errors.New("record already stored")

// Repository persists auction history in Postgres
type Repository struct {
	db      *sql.DB
	queries *Queries
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		db:      db,
		queries: New(db),
	}
}

// EnsureSchema creates the history tables if they do not exist
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply history schema: %w", err)
	}
	return nil
}

// InsertBid stores an accepted bid
func (r *Repository) InsertBid(ctx context.Context, roomID string, bid models.Bid) error {
	err := r.queries.InsertBid(ctx, InsertBidParams{
		ID:       bid.ID,
		RoomID:   roomID,
		PlayerID: bid.PlayerID,
		TeamID:   bid.TeamID,
		BidderID: bid.BidderID,
		Amount:   int32(bid.Amount),
		PlacedAt: bid.Timestamp,
	})
	if err != nil {
		return classify(fmt.Errorf("insert bid %s: %w", bid.ID, err))
	}
	return nil
}

// RecordSale stores a completed sale and flags its winning bid
func (r *Repository) RecordSale(ctx context.Context, roomID string, sale models.DraftedPlayer) error {
	player, err := sqlutil.ToNullRawMessage(sale.Player)
	if err != nil {
		return fmt.Errorf("marshal sold player: %w", err)
	}

	err = sqlutil.Run(ctx, r.db, func(tx *sql.Tx) *Queries { return r.queries.WithTx(tx) }, func(q *Queries) error {
		if err := q.InsertSale(ctx, InsertSaleParams{
			RoomID:   roomID,
			PlayerID: sale.Player.ID,
			BidID:    sale.WinningBid.ID,
			TeamID:   sale.WinningBid.TeamID,
			TeamName: sqlutil.ToNullString(sale.WinningBid.TeamName),
			Amount:   int32(sale.WinningBid.Amount),
			Round:    int32(sale.Round),
			Player:   player,
			SoldAt:   sale.WinningBid.Timestamp,
		}); err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		if err := q.MarkBidWon(ctx, sale.WinningBid.ID); err != nil {
			return fmt.Errorf("mark bid %s won: %w", sale.WinningBid.ID, err)
		}
		return nil
	})
	if err != nil {
		return classify(fmt.Errorf("record sale of %s: %w", sale.Player.ID, err))
	}
	return nil
}

// InsertChatMessage stores a chat message. Re-inserting the same id is a no-op.
func (r *Repository) InsertChatMessage(ctx context.Context, msg models.ChatMessage) error {
	err := r.queries.InsertChatMessage(ctx, InsertChatMessageParams{
		ID:       msg.ID,
		RoomID:   msg.RoomID,
		UserID:   msg.UserID,
		Username: sqlutil.ToNullString(msg.Username),
		Message:  msg.Message,
		SentAt:   msg.Timestamp,
	})
	if err != nil {
		return fmt.Errorf("insert chat message %s: %w", msg.ID, err)
	}
	return nil
}

// RecentChat returns up to limit messages of a room, oldest first
func (r *Repository) RecentChat(ctx context.Context, roomID string, limit int) ([]models.ChatMessage, error) {
	rows, err := r.queries.RecentChat(ctx, roomID, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("query recent chat: %w", err)
	}
	return chatFromRows(rows), nil
}

// SaveDraftHistory upserts imported league picks in one transaction
func (r *Repository) SaveDraftHistory(ctx context.Context, picks []models.DraftHistoryPick) error {
	if len(picks) == 0 {
		return nil
	}
	return sqlutil.Run(ctx, r.db, r.queries.WithTx, func(q *Queries) error {
		for _, p := range picks {
			if err := q.UpsertDraftPick(ctx, DraftPickRow{
				ID:            p.ID,
				Year:          int32(p.Year),
				LeagueID:      p.LeagueID,
				PlayerID:      p.PlayerID,
				PlayerName:    sqlutil.ToNullString(p.PlayerName),
				DraftPosition: int32(p.DraftPosition),
			}); err != nil {
				return fmt.Errorf("upsert draft pick %s: %w", p.ID, err)
			}
		}
		return nil
	})
}

// ListDraftHistory returns stored picks, newest season first
func (r *Repository) ListDraftHistory(ctx context.Context) ([]models.DraftHistoryPick, error) {
	rows, err := r.queries.ListDraftHistory(ctx)
	if err != nil {
		return nil, fmt.Errorf("query draft history: %w", err)
	}
	out := make([]models.DraftHistoryPick, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.DraftHistoryPick{
			ID:            row.ID,
			Year:          int(row.Year),
			LeagueID:      row.LeagueID,
			PlayerID:      row.PlayerID,
			PlayerName:    sqlutil.FromNullString(row.PlayerName),
			DraftPosition: int(row.DraftPosition),
		})
	}
	return out, nil
}

func chatFromRows(rows []ChatRow) []models.ChatMessage {
	out := make([]models.ChatMessage, 0, len(rows))
	for _, row := range rows {
		out = append(out, models.ChatMessage{
			ID:        row.ID,
			RoomID:    row.RoomID,
			UserID:    row.UserID,
			Username:  sqlutil.FromNullString(row.Username),
			Message:   row.Message,
			Timestamp: row.SentAt,
		})
	}
	slices.Reverse(out)
	return out
}

// classify marks unique violations as ErrDuplicate
func classify(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return err
}
