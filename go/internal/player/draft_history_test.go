package player

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/dynasty-auction/go/internal/models"
)

type fakeFetcher struct {
	picks map[string][]models.DraftHistoryPick
	err   error
}

func (f *fakeFetcher) FetchDraftHistory(_ context.Context, leagueID string) ([]models.DraftHistoryPick, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.picks[leagueID], nil
}

var leaguePicks = map[string][]models.DraftHistoryPick{
	"L1": {
		{ID: "L1-a-2023", Year: 2023, LeagueID: "L1", PlayerID: "a", DraftPosition: 2},
		{ID: "L1-b-2023", Year: 2023, LeagueID: "L1", PlayerID: "b", DraftPosition: 1},
	},
	"L2": {
		{ID: "L2-c-2024", Year: 2024, LeagueID: "L2", PlayerID: "c", DraftPosition: 5},
	},
}

func TestDraftHistory_ImportAndList(t *testing.T) {
	h := NewDraftHistory(&fakeFetcher{picks: leaguePicks}, nil)
	ctx := context.Background()

	picks, err := h.Import(ctx, "L1")
	require.NoError(t, err)
	assert.Len(t, picks, 2)
	_, err = h.Import(ctx, "L2")
	require.NoError(t, err)
	// re-importing is idempotent
	_, err = h.Import(ctx, "L1")
	require.NoError(t, err)

	all, err := h.List(ctx)
	require.NoError(t, err)
	ids := make([]string, len(all))
	for i, p := range all {
		ids[i] = p.ID
	}
	assert.Equal(t, []string{"L2-c-2024", "L1-b-2023", "L1-a-2023"}, ids)
}

func TestDraftHistory_ImportFailure(t *testing.T) {
	h := NewDraftHistory(&fakeFetcher{err: errors.New("sleeper down")}, nil)
	_, err := h.Import(context.Background(), "L1")
	assert.ErrorContains(t, err, "sleeper down")

	all, err := h.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func newHistoryRouter(t *testing.T, src *fakeSource, fetcher *fakeFetcher) (*Catalog, chi.Router) {
	t.Helper()
	c := NewCatalog(src, clockwork.NewFakeClock())
	r := chi.NewRouter()
	NewHandler(c, NewDraftHistory(fetcher, nil)).RegisterRoutes(r)
	return c, r
}

func TestHandler_UpdateSleeperData(t *testing.T) {
	src := &fakeSource{players: samplePlayers}
	c, r := newHistoryRouter(t, src, &fakeFetcher{picks: leaguePicks})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/update-sleeper-data", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var resp UpdateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, 3, resp.Players)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, 1, src.callCount())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/update-sleeper-data", strings.NewReader(`{"leagueId":"L1"}`)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.HistoryPicks)
	assert.Equal(t, 2, src.callCount())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/update-sleeper-data", strings.NewReader(`{`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_UpdateSleeperDataFailureKeepsCatalog(t *testing.T) {
	src := &fakeSource{players: samplePlayers}
	c, r := newHistoryRouter(t, src, &fakeFetcher{})
	require.NoError(t, c.Refresh(context.Background()))

	src.mu.Lock()
	src.err = errors.New("upstream 502")
	src.mu.Unlock()

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/update-sleeper-data", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, 3, c.Len())
}

func TestHandler_DraftHistory(t *testing.T) {
	_, r := newHistoryRouter(t, &fakeSource{}, &fakeFetcher{picks: leaguePicks})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/draft-history", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/draft-history/L2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got []models.DraftHistoryPick
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].PlayerID)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/draft-history", nil))
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 1)
}
