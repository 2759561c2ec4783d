package auction

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/dynasty-auction/go/internal/draft/events"
	"github.com/mcdev12/dynasty-auction/go/internal/models"
)

// tick advances the countdown by one second. Ticks from a cancelled or
// replaced sequence are dropped.
func (r *Room) tick(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || !r.timer.Current(gen) {
		return
	}
	if !r.state.IsActive || r.state.IsPaused {
		r.timer.Cancel()
		return
	}

	r.state.TimeRemaining--
	for _, mark := range r.settings.WarningMarks {
		if r.state.TimeRemaining == mark {
			r.notifier.Notify(r.id, events.TimerWarningPayload{
				TimeRemaining: mark,
				Message:       fmt.Sprintf("%d seconds remaining!", mark),
			})
		}
	}

	if r.state.TimeRemaining <= 0 {
		r.resolveSaleLocked()
		r.timer.Cancel()
		return
	}
	r.notifier.Notify(r.id, events.TimerTickPayload{TimeRemaining: r.state.TimeRemaining})
}

// resolveSaleLocked commits the highest bid of the expiring auction.
// Inconsistent state is logged and the auction closed without a sale.
func (r *Room) resolveSaleLocked() {
	if r.state.NominatedPlayer == nil {
		return
	}
	player := *r.state.NominatedPlayer

	var sale *models.DraftedPlayer
	if bid := r.state.HighestBid; bid != nil {
		winner := r.teamByID(bid.TeamID)
		switch {
		case winner == nil:
			log.Error().
				Str("room_id", r.id).
				Str("team_id", bid.TeamID).
				Msg("winning team missing, closing auction without sale")
		case bid.Amount > winner.Budget:
			log.Error().
				Str("room_id", r.id).
				Str("team_id", winner.ID).
				Int("amount", bid.Amount).
				Int("budget", winner.Budget).
				Msg("winning bid exceeds budget, closing auction without sale")
		default:
			winner.Players = append(winner.Players, player)
			winner.Budget -= bid.Amount
			sale = &models.DraftedPlayer{
				Player:     player,
				WinningBid: *bid,
				Round:      r.state.CurrentRound,
			}
			r.state.DraftedPlayers = append(r.state.DraftedPlayers, *sale)
			r.state.CurrentNominator = winner.ID
			r.advanceRoundLocked()
			r.passEmptyNominatorLocked()

			log.Info().
				Str("room_id", r.id).
				Str("team_id", winner.ID).
				Str("player_id", player.ID).
				Int("amount", bid.Amount).
				Int("round", sale.Round).
				Msg("sale completed")
		}
	}

	r.state.NominatedPlayer = nil
	r.state.CurrentBids = []models.Bid{}
	r.state.HighestBid = nil
	r.state.TimeRemaining = 0
	r.state.IsActive = false
	r.state.StartingPrice = 1
	r.auctionNominator = ""

	if sale != nil {
		r.notifier.Notify(r.id, events.SaleCompletedPayload{
			Room: r.snapshotLocked(),
			Sale: *sale,
		})
		return
	}
	r.broadcastStateLocked()
}

// advanceRoundLocked counts the resolved auction's nominator toward the
// current round and starts a new round once every team has nominated.
func (r *Room) advanceRoundLocked() {
	if r.seedPending {
		r.seedPending = false
	} else {
		r.state.NominationOrder = append(r.state.NominationOrder, r.auctionNominator)
	}
	if len(r.state.NominationOrder) >= len(r.teams) {
		r.state.CurrentRound++
		r.state.NominationOrder = []string{}
	}
}

// passEmptyNominatorLocked hands the turn to the next team in seat order that
// can still open an auction. With no such team the draft is complete.
func (r *Room) passEmptyNominatorLocked() {
	at := -1
	for i := range r.teams {
		if r.teams[i].ID == r.state.CurrentNominator {
			at = i
			break
		}
	}
	if at >= 0 && r.teams[at].Budget >= 1 {
		return
	}
	for step := 1; step <= len(r.teams); step++ {
		next := &r.teams[(at+step+len(r.teams))%len(r.teams)]
		if next.Budget >= 1 {
			log.Info().
				Str("room_id", r.id).
				Str("from_team_id", r.state.CurrentNominator).
				Str("team_id", next.ID).
				Msg("nominator has no budget, passing turn")
			r.state.CurrentNominator = next.ID
			return
		}
	}

	r.state.CurrentNominator = ""
	r.state.IsComplete = true
	log.Info().Str("room_id", r.id).Msg("draft complete, every budget is spent")
}
