package draft

import (
	"context"
	"fmt"
	"testing"

	"github.com/jonboulle/clockwork"

	"github.com/mcdev12/dynasty-auction/go/internal/draft/auction"
	"github.com/mcdev12/dynasty-auction/go/internal/models"
	"github.com/mcdev12/dynasty-auction/go/internal/player"
	"github.com/mcdev12/dynasty-auction/go/internal/users"
)

type fakeCatalog map[string]models.Player

func (c fakeCatalog) Get(id string) (models.Player, error) {
	p, ok := c[id]
	if !ok {
		return models.Player{}, fmt.Errorf("player %s: %w", id, player.ErrNotFound)
	}
	return p, nil
}

type fakeArchive struct {
	messages []models.ChatMessage
	err      error
	calls    int
}

func (a *fakeArchive) RecentChat(_ context.Context, _ string, _ int) ([]models.ChatMessage, error) {
	a.calls++
	return a.messages, a.err
}

type fakeParticipants map[string]models.Participant

func (f fakeParticipants) Lookup(id string) (models.Participant, error) {
	p, ok := f[id]
	if !ok {
		return models.Participant{}, users.ErrUnknownParticipant
	}
	return p, nil
}

var (
	commish = models.Participant{ID: "user-1", Username: "commish", Role: models.RoleCommissioner}
	owner2  = models.Participant{ID: "user-2", Username: "owner2", Role: models.RoleMember}
)

func testParticipants() fakeParticipants {
	return fakeParticipants{commish.ID: commish, owner2.ID: owner2}
}

func testCatalog() fakeCatalog {
	return fakeCatalog{
		"p1": {ID: "p1", Name: "Patrick Mahomes", Position: "QB", Team: "KC", Rank: 1},
		"p2": {ID: "p2", Name: "Bijan Robinson", Position: "RB", Team: "ATL", Rank: 2},
	}
}

// newTestApp returns an App over two-team rooms driven by a fake clock.
func newTestApp(t *testing.T, archive ChatArchive) *App {
	t.Helper()
	settings := auction.DefaultSettings()
	settings.Teams = auction.DefaultTeams()[:2]
	registry := auction.NewRegistry(settings,
		auction.WithClock(clockwork.NewFakeClock()),
		auction.WithRand(func(int) int { return 0 }),
	)
	t.Cleanup(registry.Close)
	return NewApp(registry, testCatalog(), archive, settings.ChatHistory)
}
