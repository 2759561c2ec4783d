package player

import "errors"

// ErrNotFound is returned when a player id is not in the catalog
var ErrNotFound = errors.New("player not found")

// ErrEmptyCatalog is returned when a source yields no players
var ErrEmptyCatalog = errors.New("player source returned no players")
