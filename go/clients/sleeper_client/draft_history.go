package sleeper_client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/mcdev12/dynasty-auction/go/internal/models"
)

var ErrInvalidLeagueID = errors.New("invalid league id")

type sleeperLeague struct {
	LeagueID string `json:"league_id"`
	Season   string `json:"season"`
}

type sleeperDraft struct {
	DraftID string `json:"draft_id"`
	Season  string `json:"season"`
}

type sleeperPick struct {
	PlayerID string `json:"player_id"`
	PickNo   int    `json:"pick_no"`
	Metadata struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	} `json:"metadata"`
}

// FetchDraftHistory returns the picks of the league's most recent draft.
// A league without drafts yields an empty slice.
func (c *SleeperClient) FetchDraftHistory(ctx context.Context, leagueID string) ([]models.DraftHistoryPick, error) {
	leagueID = strings.TrimSpace(leagueID)
	if leagueID == "" || strings.ContainsAny(leagueID, "/?#") {
		return nil, fmt.Errorf("%q: %w", leagueID, ErrInvalidLeagueID)
	}
	escaped := url.PathEscape(leagueID)

	var league sleeperLeague
	if err := c.GetJSON(ctx, fmt.Sprintf(LeagueEndpoint, escaped), &league); err != nil {
		return nil, fmt.Errorf("fetch league %s: %w", leagueID, err)
	}

	var drafts []sleeperDraft
	if err := c.GetJSON(ctx, fmt.Sprintf(LeagueDraftsEndpoint, escaped), &drafts); err != nil {
		return nil, fmt.Errorf("fetch drafts of league %s: %w", leagueID, err)
	}
	if len(drafts) == 0 {
		return []models.DraftHistoryPick{}, nil
	}
	latest := drafts[0]

	var picks []sleeperPick
	if err := c.GetJSON(ctx, fmt.Sprintf(DraftPicksEndpoint, url.PathEscape(latest.DraftID)), &picks); err != nil {
		return nil, fmt.Errorf("fetch picks of draft %s: %w", latest.DraftID, err)
	}

	season := league.Season
	if season == "" {
		season = latest.Season
	}
	year, _ := strconv.Atoi(season)

	out := make([]models.DraftHistoryPick, 0, len(picks))
	for _, p := range picks {
		if p.PlayerID == "" {
			continue
		}
		name := strings.TrimSpace(p.Metadata.FirstName + " " + p.Metadata.LastName)
		if p.Metadata.FirstName == "" || p.Metadata.LastName == "" {
			name = "Unknown Player"
		}
		out = append(out, models.DraftHistoryPick{
			ID:            fmt.Sprintf("%s-%s-%s", leagueID, p.PlayerID, season),
			Year:          year,
			LeagueID:      leagueID,
			PlayerID:      p.PlayerID,
			PlayerName:    name,
			DraftPosition: p.PickNo,
		})
	}
	return out, nil
}
