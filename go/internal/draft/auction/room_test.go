package auction

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/dynasty-auction/go/internal/draft/events"
	"github.com/mcdev12/dynasty-auction/go/internal/models"
)

func TestNewRoom_Defaults(t *testing.T) {
	room, _ := newTestRoom(t, 12)
	state := room.Snapshot()

	require.Len(t, state.Teams, 12)
	assert.Equal(t, "team-1", state.Teams[0].ID)
	assert.Equal(t, "Thunder Bolts", state.Teams[0].Name)
	assert.Equal(t, "Black Panthers", state.Teams[11].Name)
	for _, team := range state.Teams {
		assert.Equal(t, 200, team.Budget)
		assert.Empty(t, team.Players)
	}
	assert.Equal(t, 1, state.DraftState.CurrentRound)
	assert.Equal(t, "team-1", state.DraftState.CurrentNominator)
	assert.Equal(t, 1, state.DraftState.StartingPrice)
	assert.False(t, state.DraftState.IsStarted)
	assert.Equal(t, TimerIdle, room.TimerState())
}

func TestSnapshot_IsDeepCopy(t *testing.T) {
	room, _ := openAuction(t, 2)
	snap := room.Snapshot()
	snap.Teams[0].Budget = 0
	snap.DraftState.HighestBid.Amount = 999
	snap.DraftState.NominationOrder[0] = "mutated"

	fresh := room.Snapshot()
	assert.Equal(t, 200, fresh.Teams[0].Budget)
	assert.Equal(t, 1, fresh.DraftState.HighestBid.Amount)
	assert.Equal(t, "team-1", fresh.DraftState.NominationOrder[0])
}

func TestJoin(t *testing.T) {
	settings := DefaultSettings()
	settings.Teams = []TeamSeed{
		{ID: "team-1", Name: "Thunder Bolts", OwnerID: "user-1"},
		{ID: "team-2", Name: "Open Slot"},
	}
	rec := &recorder{}
	room := NewRoom("room-1", settings, WithClock(clockwork.NewFakeClock()), WithNotifier(rec))
	t.Cleanup(room.Close)

	res, err := room.Join(commish, "ignored")
	require.NoError(t, err)
	require.NotNil(t, res.Team)
	assert.Equal(t, "team-1", res.Team.ID)
	assert.Equal(t, "Thunder Bolts", res.Team.Name, "an owned team keeps its name")

	newcomer := models.Participant{ID: "user-42", Username: "newcomer"}
	res, err = room.Join(newcomer, "  Gridiron Gang ")
	require.NoError(t, err)
	require.NotNil(t, res.Team)
	assert.Equal(t, "team-2", res.Team.ID)
	assert.Equal(t, "Gridiron Gang", res.Team.Name)
	assert.Equal(t, "user-42", teamByID(room.Snapshot(), "team-2").OwnerID)

	res, err = room.Join(newcomer, "")
	require.NoError(t, err)
	assert.Equal(t, "team-2", res.Team.ID, "joining again returns the same team")

	res, err = room.Join(models.Participant{ID: "user-99"}, "Late")
	require.NoError(t, err)
	assert.Nil(t, res.Team, "no free team left, participant only observes")
	assert.Equal(t, 4, rec.count(events.EventTypeRoomState))
}

func TestUpdateTeam(t *testing.T) {
	room, rec := newTestRoom(t, 3)

	team, err := room.UpdateTeam("user-2", "  Gridiron Gang ", "https://img.example/gg.png")
	require.NoError(t, err)
	assert.Equal(t, "team-2", team.ID)
	assert.Equal(t, "Gridiron Gang", team.Name)

	state := room.Snapshot()
	assert.Equal(t, "Gridiron Gang", teamByID(state, "team-2").Name)
	assert.Equal(t, "https://img.example/gg.png", teamByID(state, "team-2").Logo)
	assert.Equal(t, 1, rec.count(events.EventTypeRoomState))

	team, err = room.UpdateTeam("user-2", "", "")
	require.NoError(t, err)
	assert.Equal(t, "Gridiron Gang", team.Name)
	assert.Empty(t, team.Logo)

	_, err = room.UpdateTeam("user-99", "Nobody", "")
	assert.ErrorIs(t, err, ErrTeamNotFound)

	room.Close()
	_, err = room.UpdateTeam("user-2", "Late", "")
	assert.ErrorIs(t, err, ErrRoomClosed)
}

func TestPostChat(t *testing.T) {
	room, rec := newTestRoom(t, 2)
	room.settings.ChatHistory = 2

	_, err := room.PostChat(commish, "   ")
	require.ErrorIs(t, err, ErrInvalidMessage)
	_, err = room.PostChat(commish, strings.Repeat("x", 501))
	require.ErrorIs(t, err, ErrInvalidMessage)

	for i := 1; i <= 3; i++ {
		msg, err := room.PostChat(commish, fmt.Sprintf(" hello %d ", i))
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("hello %d", i), msg.Message)
		assert.Equal(t, "commish", msg.Username)
	}
	assert.Equal(t, 3, rec.count(events.EventTypeChatMessage))

	chat := room.Chat()
	require.Len(t, chat, 2)
	assert.Equal(t, "hello 2", chat[0].Message)
	assert.Equal(t, "hello 3", chat[1].Message)

	res, err := room.Join(commish, "")
	require.NoError(t, err)
	assert.Equal(t, chat, res.Chat)
}

func TestClose(t *testing.T) {
	room, _ := openAuction(t, 2)
	room.Close()

	assert.Equal(t, TimerIdle, room.TimerState())
	_, err := room.PlaceBid(member(2), 5)
	require.ErrorIs(t, err, ErrRoomClosed)
	require.ErrorIs(t, room.StartDraft(commish), ErrRoomClosed)
	_, err = room.Join(commish, "")
	require.ErrorIs(t, err, ErrRoomClosed)
}

func TestCode(t *testing.T) {
	cases := []struct {
		err  error
		want string
	}{
		{ErrNotAuthorized, "NotAuthorized"},
		{ErrAlreadyStarted, "AlreadyStarted"},
		{ErrDraftNotActive, "DraftNotActive"},
		{ErrDraftPaused, "DraftPaused"},
		{ErrNotYourTurn, "NotYourTurn"},
		{ErrBiddingNotActive, "BiddingNotActive"},
		{ErrTeamNotFound, "TeamNotFound"},
		{fmt.Errorf("room-1: %w", ErrBidTooLow), "BidTooLow"},
		{fmt.Errorf("boom"), "Internal"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Code(tc.err))
	}
	assert.True(t, IsRejection(ErrBudgetExceeded))
	assert.False(t, IsRejection(fmt.Errorf("boom")))
}

// TestCountdown_RealTicks drives a whole auction through the timer goroutine.
func TestCountdown_RealTicks(t *testing.T) {
	fc := clockwork.NewFakeClock()
	room, rec := newTestRoom(t, 2, WithClock(fc))
	require.NoError(t, room.StartDraft(commish))
	require.NoError(t, room.Nominate(commish, testPlayer("x"), 1))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	for want := 29; want >= 1; want-- {
		require.NoError(t, fc.BlockUntilContext(ctx, 1))
		fc.Advance(time.Second)
		require.Eventually(t, func() bool {
			return room.Snapshot().DraftState.TimeRemaining == want
		}, time.Second, time.Millisecond)
	}

	require.NoError(t, fc.BlockUntilContext(ctx, 1))
	fc.Advance(time.Second)
	require.Eventually(t, func() bool {
		return rec.count(events.EventTypeSaleCompleted) == 1
	}, time.Second, time.Millisecond)

	state := room.Snapshot()
	assert.Len(t, state.DraftState.DraftedPlayers, 1)
	assert.Equal(t, 199, teamByID(state, "team-1").Budget)
	assert.Equal(t, TimerIdle, room.TimerState())
}
