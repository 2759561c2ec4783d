package auction

import (
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/dynasty-auction/go/internal/draft/events"
	"github.com/mcdev12/dynasty-auction/go/internal/models"
)

// PlaceBid records a bid by p's team. An accepted bid becomes the highest
// bid, lifts the countdown to at least the bid floor and rearms the timer.
func (r *Room) PlaceBid(p models.Participant, amount int) (models.Bid, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return models.Bid{}, ErrRoomClosed
	}
	if !r.state.IsActive || r.state.IsPaused || r.state.NominatedPlayer == nil {
		return models.Bid{}, ErrBiddingNotActive
	}
	team := r.teamByOwner(p.ID)
	if team == nil {
		return models.Bid{}, ErrTeamNotFound
	}
	if r.state.HighestBid != nil && amount <= r.state.HighestBid.Amount {
		return models.Bid{}, ErrBidTooLow
	}
	if amount < 1 {
		return models.Bid{}, ErrBidTooLow
	}
	if amount > team.Budget {
		return models.Bid{}, ErrBudgetExceeded
	}

	bid := models.Bid{
		ID:         r.newID(),
		PlayerID:   r.state.NominatedPlayer.ID,
		BidderID:   p.ID,
		BidderName: p.Username,
		TeamID:     team.ID,
		TeamName:   team.Name,
		Amount:     amount,
		Timestamp:  r.clock.Now(),
	}
	r.state.CurrentBids = append(r.state.CurrentBids, bid)
	r.state.HighestBid = &bid
	r.state.TimeRemaining = max(r.state.TimeRemaining, r.settings.floorSeconds())
	r.timer.Arm()

	log.Debug().
		Str("room_id", r.id).
		Str("team_id", team.ID).
		Int("amount", amount).
		Int("time_remaining", r.state.TimeRemaining).
		Msg("bid accepted")

	r.notifier.Notify(r.id, events.BidPlacedPayload{
		DraftState: r.state.Clone(),
		Bid:        bid,
	})
	r.broadcastStateLocked()
	return bid, nil
}
