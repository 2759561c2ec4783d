package sleeper_client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const playersFixture = `{
  "4046": {"player_id": "4046", "full_name": "Patrick Mahomes", "position": "QB", "team": "KC", "active": true, "age": 29, "years_exp": 7, "search_rank": 12},
  "6794": {"player_id": "6794", "full_name": "Justin Jefferson", "position": "WR", "team": "MIN", "active": true, "search_rank": 2, "injury_status": "Questionable", "injury_notes": "Hamstring"},
  "9999": {"player_id": "9999", "full_name": "Retired Guy", "position": "RB", "team": null, "active": false, "search_rank": 1},
  "1111": {"player_id": "1111", "full_name": "Long Snapper", "position": "LS", "team": "DAL", "active": true, "search_rank": 3},
  "KC":   {"player_id": "KC", "first_name": "Kansas City", "last_name": "Chiefs", "position": "DEF", "team": "KC", "active": true}
}`

func TestFetchPlayers(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, NFLPlayersEndpoint, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(playersFixture))
	}))
	defer srv.Close()

	players, err := NewSleeperClient(srv.URL, 0).FetchPlayers(context.Background())
	require.NoError(t, err)
	require.Len(t, players, 3)

	assert.Equal(t, "sleeper-6794", players[0].ID)
	assert.Equal(t, 1, players[0].Rank)
	assert.Equal(t, "Questionable", players[0].InjuryStatus)
	assert.Equal(t, "Hamstring", players[0].InjuryDescription)

	assert.Equal(t, "Patrick Mahomes", players[1].Name)
	require.NotNil(t, players[1].Age)
	assert.Equal(t, 29, *players[1].Age)

	assert.Equal(t, "Kansas City Chiefs", players[2].Name)
	assert.Equal(t, "DEF", players[2].Position)
	assert.Equal(t, 3, players[2].Rank)
}

func TestFetchPlayers_Limit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(playersFixture))
	}))
	defer srv.Close()

	players, err := NewSleeperClient(srv.URL, 1).FetchPlayers(context.Background())
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "sleeper-6794", players[0].ID)
}

func TestFetchPlayers_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewSleeperClient(srv.URL, 0).FetchPlayers(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestFetchDraftHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v1/league/L1":
			_, _ = w.Write([]byte(`{"league_id": "L1", "season": "2024"}`))
		case "/v1/league/L1/drafts":
			_, _ = w.Write([]byte(`[{"draft_id": "D9", "season": "2024"}, {"draft_id": "D8", "season": "2023"}]`))
		case "/v1/draft/D9/picks":
			_, _ = w.Write([]byte(`[
				{"player_id": "4046", "pick_no": 1, "metadata": {"first_name": "Patrick", "last_name": "Mahomes"}},
				{"player_id": "6794", "pick_no": 2, "metadata": {}},
				{"player_id": "", "pick_no": 3}
			]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	picks, err := NewSleeperClient(srv.URL, 0).FetchDraftHistory(context.Background(), "L1")
	require.NoError(t, err)
	require.Len(t, picks, 2)
	assert.Equal(t, "L1-4046-2024", picks[0].ID)
	assert.Equal(t, 2024, picks[0].Year)
	assert.Equal(t, "Patrick Mahomes", picks[0].PlayerName)
	assert.Equal(t, 1, picks[0].DraftPosition)
	assert.Equal(t, "Unknown Player", picks[1].PlayerName)
}

func TestFetchDraftHistory_NoDrafts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/league/L2/drafts" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`{"season": "2024"}`))
	}))
	defer srv.Close()

	picks, err := NewSleeperClient(srv.URL, 0).FetchDraftHistory(context.Background(), "L2")
	require.NoError(t, err)
	assert.Empty(t, picks)
}

func TestFetchDraftHistory_InvalidLeague(t *testing.T) {
	_, err := NewSleeperClient("http://unused", 0).FetchDraftHistory(context.Background(), "../x")
	assert.ErrorIs(t, err, ErrInvalidLeagueID)
	_, err = NewSleeperClient("http://unused", 0).FetchDraftHistory(context.Background(), " ")
	assert.ErrorIs(t, err, ErrInvalidLeagueID)
}
