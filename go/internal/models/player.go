package models

// Player is a nominatable entry from the player catalog. The draft core treats
// it as opaque once nominated.
type Player struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Position          string   `json:"position"`
	Team              string   `json:"team"`
	Rank              int      `json:"rank"`
	ProjectedPoints   *float64 `json:"projected_points,omitempty"`
	ADP               *float64 `json:"adp,omitempty"`
	ByeWeek           *int     `json:"bye_week,omitempty"`
	LastYearPoints    *float64 `json:"last_year_points,omitempty"`
	ExternalID        string   `json:"external_id,omitempty"` // Sleeper player id
	Age               *int     `json:"age,omitempty"`
	Experience        *int     `json:"experience,omitempty"`
	InjuryStatus      string   `json:"injury_status,omitempty"`
	InjuryDescription string   `json:"injury_description,omitempty"`
}
