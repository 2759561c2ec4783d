package sleeper_client

const (
	// Base URL
	BaseURL = "https://api.sleeper.app"

	// API Endpoints
	NFLPlayersEndpoint   = "/v1/players/nfl"
	LeagueEndpoint       = "/v1/league/%s"
	LeagueDraftsEndpoint = "/v1/league/%s/drafts"
	DraftPicksEndpoint   = "/v1/draft/%s/picks"

	// DefaultLimit is how many ranked players a catalog keeps
	DefaultLimit = 300

	// unranked is the search_rank Sleeper reports for players without one
	unranked = 9999999
)

// draftablePositions are the fantasy positions offered for nomination
var draftablePositions = map[string]bool{
	"QB":  true,
	"RB":  true,
	"WR":  true,
	"TE":  true,
	"K":   true,
	"DEF": true,
}
