package player

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/mcdev12/dynasty-auction/go/internal/models"
)

// HistoryFetcher loads the picks of a league's most recent draft.
type HistoryFetcher interface {
	FetchDraftHistory(ctx context.Context, leagueID string) ([]models.DraftHistoryPick, error)
}

// HistoryStore keeps imported draft picks.
type HistoryStore interface {
	SaveDraftHistory(ctx context.Context, picks []models.DraftHistoryPick) error
	ListDraftHistory(ctx context.Context) ([]models.DraftHistoryPick, error)
}

// DraftHistory imports past league drafts for reference during the auction.
type DraftHistory struct {
	fetcher HistoryFetcher
	store   HistoryStore
}

func NewDraftHistory(fetcher HistoryFetcher, store HistoryStore) *DraftHistory {
	if store == nil {
		store = NewMemoryHistoryStore()
	}
	return &DraftHistory{fetcher: fetcher, store: store}
}

// Import fetches a league's latest draft and stores its picks.
func (h *DraftHistory) Import(ctx context.Context, leagueID string) ([]models.DraftHistoryPick, error) {
	picks, err := h.fetcher.FetchDraftHistory(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("import draft history: %w", err)
	}
	if err := h.store.SaveDraftHistory(ctx, picks); err != nil {
		return nil, fmt.Errorf("store draft history: %w", err)
	}
	log.Info().Str("league_id", leagueID).Int("picks", len(picks)).Msg("draft history imported")
	return picks, nil
}

// List returns every stored pick, newest season first, then by pick number.
func (h *DraftHistory) List(ctx context.Context) ([]models.DraftHistoryPick, error) {
	return h.store.ListDraftHistory(ctx)
}

// MemoryHistoryStore is the HistoryStore used without a database.
type MemoryHistoryStore struct {
	mu    sync.RWMutex
	picks map[string]models.DraftHistoryPick
}

func NewMemoryHistoryStore() *MemoryHistoryStore {
	return &MemoryHistoryStore{picks: make(map[string]models.DraftHistoryPick)}
}

// SaveDraftHistory upserts picks by id.
func (s *MemoryHistoryStore) SaveDraftHistory(_ context.Context, picks []models.DraftHistoryPick) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range picks {
		s.picks[p.ID] = p
	}
	return nil
}

func (s *MemoryHistoryStore) ListDraftHistory(context.Context) ([]models.DraftHistoryPick, error) {
	s.mu.RLock()
	out := make([]models.DraftHistoryPick, 0, len(s.picks))
	for _, p := range s.picks {
		out = append(out, p)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year > out[j].Year
		}
		if out[i].DraftPosition != out[j].DraftPosition {
			return out[i].DraftPosition < out[j].DraftPosition
		}
		return strings.Compare(out[i].ID, out[j].ID) < 0
	})
	return out, nil
}
