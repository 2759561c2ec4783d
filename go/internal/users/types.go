package users

import (
	"errors"

	"github.com/mcdev12/dynasty-auction/go/internal/models"
)

var (
	// ErrUnknownParticipant is returned when an id is not registered
	ErrUnknownParticipant = errors.New("unknown participant")
	// ErrInvalidCredentials is returned for a bad username or password
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrInvalidTeam is returned for an empty or oversized team name or logo
	ErrInvalidTeam = errors.New("team name must be 1-50 characters and logo at most 2048")
)

const (
	MaxTeamNameLength = 50
	MaxTeamLogoLength = 2048
)

// Account is a pre-registered participant with an optional bcrypt hash.
// Accounts without a hash can connect by id but cannot log in.
type Account struct {
	models.Participant
	PasswordHash string
}

// LoginRequest represents the body of POST /api/auth/login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse represents a successful login
type LoginResponse struct {
	User models.Participant `json:"user"`
}

// UpdateTeamRequest represents the body of PUT /api/users/{userID}/team
type UpdateTeamRequest struct {
	TeamName string `json:"teamName"`
	TeamLogo string `json:"teamLogo"`
}

// UpdateTeamResponse reports the stored team and how many rooms picked it up
type UpdateTeamResponse struct {
	Success bool               `json:"success"`
	User    models.Participant `json:"user"`
	Rooms   int                `json:"rooms"`
}
