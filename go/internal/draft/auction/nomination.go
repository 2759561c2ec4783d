package auction

import (
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/dynasty-auction/go/internal/draft/events"
	"github.com/mcdev12/dynasty-auction/go/internal/models"
)

// StartDraft starts the draft with a randomly chosen first nominator.
func (r *Room) StartDraft(p models.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRoomClosed
	}
	if !p.IsCommissioner() {
		return ErrNotAuthorized
	}
	if r.state.IsStarted {
		return ErrAlreadyStarted
	}
	if len(r.teams) == 0 {
		return ErrNoTeams
	}

	first := r.teams[r.intn(len(r.teams))].ID
	r.state.IsStarted = true
	r.state.IsPaused = false
	r.state.CurrentNominator = first
	r.state.NominationOrder = []string{first}
	r.seedPending = true

	log.Info().
		Str("room_id", r.id).
		Str("team_id", first).
		Msg("draft started")

	r.notifier.Notify(r.id, events.DraftStartedPayload{
		DraftState:     r.state.Clone(),
		FirstNominator: first,
	})
	r.broadcastStateLocked()
	return nil
}

// Nominate opens an auction for player. A startingPrice below 1 means the
// default of 1; the price is clamped to the nominating team's budget.
func (r *Room) Nominate(p models.Participant, player models.Player, startingPrice int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRoomClosed
	}
	if !r.state.IsStarted {
		return ErrDraftNotActive
	}
	if r.state.IsComplete {
		return ErrDraftComplete
	}
	if r.state.IsPaused {
		return ErrDraftPaused
	}
	if r.state.IsActive {
		return ErrAuctionInProgress
	}
	team := r.teamByOwner(p.ID)
	if team == nil || team.ID != r.state.CurrentNominator {
		return ErrNotYourTurn
	}
	if r.isDrafted(player.ID) {
		return ErrPlayerAlreadyDrafted
	}
	// The synthesized opening bid is at least 1, so an empty budget could
	// only be driven negative.
	if team.Budget < 1 {
		return ErrBudgetExceeded
	}

	price := max(1, min(startingPrice, team.Budget))
	opening := models.Bid{
		ID:         r.newID(),
		PlayerID:   player.ID,
		BidderID:   p.ID,
		BidderName: p.Username,
		TeamID:     team.ID,
		TeamName:   team.Name,
		Amount:     price,
		Timestamp:  r.clock.Now(),
	}

	nominated := player
	r.state.NominatedPlayer = &nominated
	r.state.CurrentBids = []models.Bid{}
	r.state.HighestBid = &opening
	r.state.StartingPrice = price
	r.state.TimeRemaining = r.settings.windowSeconds()
	r.state.IsActive = true
	r.auctionNominator = team.ID
	r.timer.Arm()

	log.Info().
		Str("room_id", r.id).
		Str("team_id", team.ID).
		Str("player_id", player.ID).
		Int("amount", price).
		Msg("player nominated")

	r.notifier.Notify(r.id, events.PlayerNominatedPayload{
		DraftState:    r.state.Clone(),
		Player:        player,
		NominatorID:   team.ID,
		StartingPrice: price,
	})
	r.broadcastStateLocked()
	return nil
}

// TogglePause suspends or resumes ticking. The remaining time is preserved.
func (r *Room) TogglePause(p models.Participant) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return false, ErrRoomClosed
	}
	if !p.IsCommissioner() {
		return false, ErrNotAuthorized
	}
	if !r.state.IsStarted {
		return false, ErrDraftNotActive
	}

	r.state.IsPaused = !r.state.IsPaused
	if r.state.IsPaused {
		r.timer.Pause()
	} else if r.state.IsActive && r.state.TimeRemaining > 0 {
		r.timer.Resume()
	}

	log.Info().
		Str("room_id", r.id).
		Bool("paused", r.state.IsPaused).
		Int("time_remaining", r.state.TimeRemaining).
		Msg("draft pause toggled")

	r.notifier.Notify(r.id, events.DraftPausedPayload{
		DraftState: r.state.Clone(),
		IsPaused:   r.state.IsPaused,
	})
	r.broadcastStateLocked()
	return r.state.IsPaused, nil
}
