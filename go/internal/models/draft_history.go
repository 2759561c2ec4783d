package models

// DraftHistoryPick is one pick of an imported past league draft.
type DraftHistoryPick struct {
	ID            string `json:"id"`
	Year          int    `json:"year"`
	LeagueID      string `json:"league_id"`
	PlayerID      string `json:"player_id"`
	PlayerName    string `json:"player_name"`
	DraftPosition int    `json:"draft_position"`
}
