package player

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/dynasty-auction/go/internal/models"
)

// Source loads the full list of nominatable players.
type Source interface {
	FetchPlayers(ctx context.Context) ([]models.Player, error)
}

// Catalog is the in-memory, rank ordered set of nominatable players.
type Catalog struct {
	source Source
	clock  clockwork.Clock

	mu          sync.RWMutex
	byID        map[string]models.Player
	ordered     []models.Player
	refreshedAt time.Time
}

// NewCatalog creates an empty catalog backed by source.
func NewCatalog(source Source, clock clockwork.Clock) *Catalog {
	return &Catalog{
		source: source,
		clock:  clock,
		byID:   make(map[string]models.Player),
	}
}

// Load replaces the catalog contents.
func (c *Catalog) Load(players []models.Player) {
	ordered := append([]models.Player(nil), players...)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Rank != ordered[j].Rank {
			return ordered[i].Rank < ordered[j].Rank
		}
		return ordered[i].Name < ordered[j].Name
	})

	byID := make(map[string]models.Player, len(ordered))
	for _, p := range ordered {
		byID[p.ID] = p
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ordered = ordered
	c.byID = byID
	c.refreshedAt = c.clock.Now()
}

// Refresh reloads the catalog from its source. On failure the previous
// contents are kept.
func (c *Catalog) Refresh(ctx context.Context) error {
	players, err := c.source.FetchPlayers(ctx)
	if err != nil {
		return fmt.Errorf("refresh player catalog: %w", err)
	}
	if len(players) == 0 {
		return ErrEmptyCatalog
	}
	c.Load(players)
	log.Info().Int("players", len(players)).Msg("player catalog refreshed")
	return nil
}

// RunRefresher refreshes the catalog every interval until ctx is done.
func (c *Catalog) RunRefresher(ctx context.Context, interval time.Duration) {
	ticker := c.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if err := c.Refresh(ctx); err != nil {
				log.Error().Err(err).Msg("scheduled player refresh failed, keeping previous catalog")
			}
		}
	}
}

// Get returns the player with the given id.
func (c *Catalog) Get(id string) (models.Player, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.byID[id]
	if !ok {
		return models.Player{}, fmt.Errorf("player %s: %w", id, ErrNotFound)
	}
	return p, nil
}

// Filter narrows List.
type Filter struct {
	Position string
	Limit    int
}

// List returns players in rank order.
func (c *Catalog) List(f Filter) []models.Player {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.Player, 0, len(c.ordered))
	for _, p := range c.ordered {
		if f.Position != "" && !strings.EqualFold(p.Position, f.Position) {
			continue
		}
		out = append(out, p)
		if f.Limit > 0 && len(out) == f.Limit {
			break
		}
	}
	return out
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ordered)
}

func (c *Catalog) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}
