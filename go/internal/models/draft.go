package models

import "time"

// Bid is an immutable offer made during an auction.
type Bid struct {
	ID         string    `json:"id"`
	PlayerID   string    `json:"player_id"`
	BidderID   string    `json:"bidder_id"`
	BidderName string    `json:"bidder_name"`
	TeamID     string    `json:"team_id"`
	TeamName   string    `json:"team_name"`
	Amount     int       `json:"amount"`
	Timestamp  time.Time `json:"timestamp"`
}

// DraftedPlayer is one entry of the draft results ledger.
type DraftedPlayer struct {
	Player     Player `json:"player"`
	WinningBid Bid    `json:"winning_bid"`
	Round      int    `json:"round"`
}

// DraftState is the per-room auction state.
type DraftState struct {
	CurrentRound     int             `json:"current_round"`
	CurrentNominator string          `json:"current_nominator"`
	NominationOrder  []string        `json:"nomination_order"`
	NominatedPlayer  *Player         `json:"nominated_player"`
	CurrentBids      []Bid           `json:"current_bids"`
	HighestBid       *Bid            `json:"highest_bid"`
	TimeRemaining    int             `json:"time_remaining"`
	IsActive         bool            `json:"is_active"`
	IsPaused         bool            `json:"is_paused"`
	IsStarted        bool            `json:"is_started"`
	IsComplete       bool            `json:"is_complete"`
	StartingPrice    int             `json:"starting_price"`
	DraftedPlayers   []DraftedPlayer `json:"drafted_players"`
}

// Clone returns a deep copy of s.
func (s DraftState) Clone() DraftState {
	c := s
	c.NominationOrder = append([]string{}, s.NominationOrder...)
	c.CurrentBids = append([]Bid{}, s.CurrentBids...)
	c.DraftedPlayers = append([]DraftedPlayer{}, s.DraftedPlayers...)
	if s.NominatedPlayer != nil {
		p := *s.NominatedPlayer
		c.NominatedPlayer = &p
	}
	if s.HighestBid != nil {
		b := *s.HighestBid
		c.HighestBid = &b
	}
	return c
}

// RoomState is the full observable state of a room.
type RoomState struct {
	RoomID     string     `json:"room_id"`
	Teams      []Team     `json:"teams"`
	DraftState DraftState `json:"draft_state"`
}

// ChatMessage is a message posted in a room's chat.
type ChatMessage struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}
