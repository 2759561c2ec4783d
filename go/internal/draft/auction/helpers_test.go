package auction

import (
	"fmt"
	"sync"
	"testing"

	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/dynasty-auction/go/internal/draft/events"
	"github.com/mcdev12/dynasty-auction/go/internal/models"
)

type recorder struct {
	mu       sync.Mutex
	payloads []events.Payload
}

func (r *recorder) Notify(_ string, p events.Payload) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = append(r.payloads, p)
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, len(r.payloads))
	for i, p := range r.payloads {
		out[i] = p.EventType()
	}
	return out
}

func (r *recorder) count(t events.EventType) int {
	n := 0
	for _, got := range r.types() {
		if got == t {
			n++
		}
	}
	return n
}

func (r *recorder) last(t events.EventType) events.Payload {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.payloads) - 1; i >= 0; i-- {
		if r.payloads[i].EventType() == t {
			return r.payloads[i]
		}
	}
	return nil
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.payloads = nil
}

var commish = models.Participant{ID: "user-1", Username: "commish", Role: models.RoleCommissioner}

func member(n int) models.Participant {
	return models.Participant{ID: fmt.Sprintf("user-%d", n), Username: fmt.Sprintf("owner%d", n), Role: models.RoleMember}
}

func testPlayer(id string) models.Player {
	return models.Player{ID: id, Name: "Player " + id, Position: "RB", Team: "KC", Rank: 1}
}

// newTestRoom returns a room with the given number of default teams whose
// first nominator is always team-1. Its fake clock is never advanced, so the
// countdown only moves through tickN.
func newTestRoom(t *testing.T, teams int, opts ...Option) (*Room, *recorder) {
	t.Helper()
	settings := DefaultSettings()
	settings.Teams = DefaultTeams()[:teams]

	rec := &recorder{}
	seq := 0
	base := []Option{
		WithClock(clockwork.NewFakeClock()),
		WithNotifier(rec),
		WithRand(func(int) int { return 0 }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
	}
	room := NewRoom("room-1", settings, append(base, opts...)...)
	t.Cleanup(room.Close)
	return room, rec
}

func tickN(r *Room, n int) {
	for i := 0; i < n; i++ {
		r.tick(r.timer.Generation())
	}
}

func teamByID(state models.RoomState, id string) models.Team {
	for _, t := range state.Teams {
		if t.ID == id {
			return t
		}
	}
	return models.Team{}
}
