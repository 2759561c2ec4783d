package auction

import "errors"

// Rejections returned to the caller of a room operation. The room is left
// unchanged whenever one of these is returned.
var (
	ErrNotAuthorized        = errors.New("only the commissioner can perform this action")
	ErrAlreadyStarted       = errors.New("draft has already started")
	ErrDraftNotActive       = errors.New("draft has not started")
	ErrDraftPaused          = errors.New("draft is paused")
	ErrNotYourTurn          = errors.New("it is not your turn to nominate")
	ErrAuctionInProgress    = errors.New("an auction is already in progress")
	ErrBiddingNotActive     = errors.New("bidding is not active")
	ErrTeamNotFound         = errors.New("team not found")
	ErrBidTooLow            = errors.New("bid must be higher than the current highest bid")
	ErrBudgetExceeded       = errors.New("bid exceeds remaining budget")
	ErrPlayerAlreadyDrafted = errors.New("player has already been drafted")
	ErrNoTeams              = errors.New("room has no teams")
	ErrInvalidMessage       = errors.New("chat message must be between 1 and 500 characters")
	ErrRoomClosed           = errors.New("room is closed")
	ErrDraftComplete        = errors.New("draft is complete, no team can afford a nomination")
)

var codes = []struct {
	err  error
	code string
}{
	{ErrNotAuthorized, "NotAuthorized"},
	{ErrAlreadyStarted, "AlreadyStarted"},
	{ErrDraftNotActive, "DraftNotActive"},
	{ErrDraftPaused, "DraftPaused"},
	{ErrNotYourTurn, "NotYourTurn"},
	{ErrAuctionInProgress, "AuctionInProgress"},
	{ErrBiddingNotActive, "BiddingNotActive"},
	{ErrTeamNotFound, "TeamNotFound"},
	{ErrBidTooLow, "BidTooLow"},
	{ErrBudgetExceeded, "BudgetExceeded"},
	{ErrPlayerAlreadyDrafted, "PlayerAlreadyDrafted"},
	{ErrNoTeams, "NoTeams"},
	{ErrInvalidMessage, "InvalidMessage"},
	{ErrRoomClosed, "RoomClosed"},
	{ErrDraftComplete, "DraftComplete"},
}

// Code returns the stable wire code for a rejection, or "Internal".
func Code(err error) string {
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return "Internal"
}

// IsRejection reports whether err is one of the caller-facing rejections.
func IsRejection(err error) bool {
	return Code(err) != "Internal"
}
