package auction

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// Registry owns the rooms of a process, keyed by opaque room id.
type Registry struct {
	settings Settings
	opts     []Option

	mu    sync.RWMutex
	rooms map[string]*Room
}

// NewRegistry creates an empty registry. opts are applied to every room.
func NewRegistry(settings Settings, opts ...Option) *Registry {
	return &Registry{
		settings: settings,
		opts:     opts,
		rooms:    make(map[string]*Room),
	}
}

// Get returns an existing room.
func (g *Registry) Get(id string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	r, ok := g.rooms[id]
	return r, ok
}

// GetOrCreate returns the room, creating it with default state on first access.
func (g *Registry) GetOrCreate(id string) *Room {
	if r, ok := g.Get(id); ok {
		return r
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if r, ok := g.rooms[id]; ok {
		return r
	}
	r := NewRoom(id, g.settings, g.opts...)
	g.rooms[id] = r
	log.Info().Str("room_id", id).Int("teams", len(g.settings.Teams)).Msg("room created")
	return r
}

// Remove closes and forgets a room. It reports whether the room existed.
func (g *Registry) Remove(id string) bool {
	g.mu.Lock()
	r, ok := g.rooms[id]
	delete(g.rooms, id)
	g.mu.Unlock()

	if ok {
		r.Close()
		log.Info().Str("room_id", id).Msg("room removed")
	}
	return ok
}

// RoomIDs returns the ids of all live rooms in sorted order.
func (g *Registry) RoomIDs() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	ids := make([]string, 0, len(g.rooms))
	for id := range g.rooms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Close closes every room.
func (g *Registry) Close() {
	g.mu.Lock()
	rooms := g.rooms
	g.rooms = make(map[string]*Room)
	g.mu.Unlock()

	for _, r := range rooms {
		r.Close()
	}
}
