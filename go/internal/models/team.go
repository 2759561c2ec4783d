package models

// Team is a fantasy team taking part in an auction room.
type Team struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Logo    string   `json:"logo,omitempty"`
	OwnerID string   `json:"owner_id"`
	Budget  int      `json:"budget"`
	Players []Player `json:"players"`
}

// Clone returns a copy that shares no slices with t.
func (t Team) Clone() Team {
	c := t
	c.Players = append([]Player(nil), t.Players...)
	return c
}
