package sleeper_client

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/mcdev12/dynasty-auction/go/clients"
	"github.com/mcdev12/dynasty-auction/go/internal/models"
)

type SleeperClient struct {
	*clients.BaseClient
	limit int
}

func NewSleeperClient(baseURL string, limit int) *SleeperClient {
	if baseURL == "" {
		baseURL = BaseURL
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &SleeperClient{
		BaseClient: clients.NewBaseClient(baseURL),
		limit:      limit,
	}
}

// sleeperPlayer is the subset of the Sleeper player record we read.
type sleeperPlayer struct {
	PlayerID     string  `json:"player_id"`
	FullName     string  `json:"full_name"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Position     string  `json:"position"`
	Team         *string `json:"team"`
	Active       bool    `json:"active"`
	Age          *int    `json:"age"`
	YearsExp     *int    `json:"years_exp"`
	InjuryStatus *string `json:"injury_status"`
	InjuryNotes  *string `json:"injury_notes"`
	SearchRank   *int    `json:"search_rank"`
}

// FetchPlayers returns the active, draftable players ordered by Sleeper's
// search rank, truncated to the client's limit.
func (c *SleeperClient) FetchPlayers(ctx context.Context) ([]models.Player, error) {
	var raw map[string]sleeperPlayer
	if err := c.GetJSON(ctx, NFLPlayersEndpoint, &raw); err != nil {
		return nil, fmt.Errorf("fetch sleeper players: %w", err)
	}

	candidates := make([]sleeperPlayer, 0, len(raw))
	for id, p := range raw {
		if !p.Active || !draftablePositions[p.Position] || p.Team == nil || *p.Team == "" {
			continue
		}
		if p.PlayerID == "" {
			p.PlayerID = id
		}
		candidates = append(candidates, p)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		ri, rj := searchRank(candidates[i]), searchRank(candidates[j])
		if ri != rj {
			return ri < rj
		}
		return candidates[i].PlayerID < candidates[j].PlayerID
	})
	if len(candidates) > c.limit {
		candidates = candidates[:c.limit]
	}

	players := make([]models.Player, len(candidates))
	for i, p := range candidates {
		players[i] = toModel(p, i+1)
	}
	return players, nil
}

func searchRank(p sleeperPlayer) int {
	if p.SearchRank == nil {
		return unranked
	}
	return *p.SearchRank
}

func toModel(p sleeperPlayer, rank int) models.Player {
	name := p.FullName
	if name == "" {
		name = strings.TrimSpace(p.FirstName + " " + p.LastName)
	}
	player := models.Player{
		ID:         "sleeper-" + p.PlayerID,
		Name:       name,
		Position:   p.Position,
		Team:       *p.Team,
		Rank:       rank,
		ExternalID: p.PlayerID,
		Age:        p.Age,
		Experience: p.YearsExp,
	}
	if p.InjuryStatus != nil {
		player.InjuryStatus = *p.InjuryStatus
	}
	if p.InjuryNotes != nil {
		player.InjuryDescription = *p.InjuryNotes
	}
	return player
}
