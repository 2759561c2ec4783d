package history

import (
	"context"
	"database/sql"
	"time"

	"github.com/sqlc-dev/pqtype"
)

// DBTX is satisfied by *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const insertBid = `
INSERT INTO auction_bids (id, room_id, player_id, team_id, bidder_id, amount, placed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

type InsertBidParams struct {
	ID       string
	RoomID   string
	PlayerID string
	TeamID   string
	BidderID string
	Amount   int32
	PlacedAt time.Time
}

func (q *Queries) InsertBid(ctx context.Context, arg InsertBidParams) error {
	_, err := q.db.ExecContext(ctx, insertBid,
		arg.ID, arg.RoomID, arg.PlayerID, arg.TeamID, arg.BidderID, arg.Amount, arg.PlacedAt)
	return err
}

const markBidWon = `UPDATE auction_bids SET won = TRUE WHERE id = $1`

func (q *Queries) MarkBidWon(ctx context.Context, id string) error {
	_, err := q.db.ExecContext(ctx, markBidWon, id)
	return err
}

const insertSale = `
INSERT INTO auction_sales (room_id, player_id, bid_id, team_id, team_name, amount, round, player, sold_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

type InsertSaleParams struct {
	RoomID   string
	PlayerID string
	BidID    string
	TeamID   string
	TeamName sql.NullString
	Amount   int32
	Round    int32
	Player   pqtype.NullRawMessage
	SoldAt   time.Time
}

func (q *Queries) InsertSale(ctx context.Context, arg InsertSaleParams) error {
	_, err := q.db.ExecContext(ctx, insertSale,
		arg.RoomID, arg.PlayerID, arg.BidID, arg.TeamID, arg.TeamName, arg.Amount, arg.Round, arg.Player, arg.SoldAt)
	return err
}

const insertChatMessage = `
INSERT INTO auction_chat (id, room_id, user_id, username, message, sent_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO NOTHING`

type InsertChatMessageParams struct {
	ID       string
	RoomID   string
	UserID   string
	Username sql.NullString
	Message  string
	SentAt   time.Time
}

func (q *Queries) InsertChatMessage(ctx context.Context, arg InsertChatMessageParams) error {
	_, err := q.db.ExecContext(ctx, insertChatMessage,
		arg.ID, arg.RoomID, arg.UserID, arg.Username, arg.Message, arg.SentAt)
	return err
}

// newest first; callers reverse
const recentChat = `
SELECT id, room_id, user_id, username, message, sent_at
FROM auction_chat
WHERE room_id = $1
ORDER BY sent_at DESC
LIMIT $2`

type ChatRow struct {
	ID       string
	RoomID   string
	UserID   string
	Username sql.NullString
	Message  string
	SentAt   time.Time
}

func (q *Queries) RecentChat(ctx context.Context, roomID string, limit int32) ([]ChatRow, error) {
	rows, err := q.db.QueryContext(ctx, recentChat, roomID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ChatRow
	for rows.Next() {
		var i ChatRow
		if err := rows.Scan(&i.ID, &i.RoomID, &i.UserID, &i.Username, &i.Message, &i.SentAt); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const upsertDraftPick = `
INSERT INTO draft_history (id, year, league_id, player_id, player_name, draft_position)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (id) DO UPDATE
SET year = EXCLUDED.year, player_name = EXCLUDED.player_name, draft_position = EXCLUDED.draft_position`

type DraftPickRow struct {
	ID            string
	Year          int32
	LeagueID      string
	PlayerID      string
	PlayerName    sql.NullString
	DraftPosition int32
}

func (q *Queries) UpsertDraftPick(ctx context.Context, arg DraftPickRow) error {
	_, err := q.db.ExecContext(ctx, upsertDraftPick,
		arg.ID, arg.Year, arg.LeagueID, arg.PlayerID, arg.PlayerName, arg.DraftPosition)
	return err
}

const listDraftHistory = `
SELECT id, year, league_id, player_id, player_name, draft_position
FROM draft_history
ORDER BY year DESC, draft_position ASC, id ASC`

func (q *Queries) ListDraftHistory(ctx context.Context) ([]DraftPickRow, error) {
	rows, err := q.db.QueryContext(ctx, listDraftHistory)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []DraftPickRow
	for rows.Next() {
		var i DraftPickRow
		if err := rows.Scan(&i.ID, &i.Year, &i.LeagueID, &i.PlayerID, &i.PlayerName, &i.DraftPosition); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
