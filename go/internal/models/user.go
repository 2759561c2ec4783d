package models

// Role is a participant's capability within a draft.
type Role string

const (
	RoleMember       Role = "member"
	RoleCommissioner Role = "commissioner"
)

// Participant is an authenticated caller.
type Participant struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
	TeamName string `json:"team_name,omitempty"`
	TeamLogo string `json:"team_logo,omitempty"`
}

// IsCommissioner reports whether p may start or pause the draft.
func (p Participant) IsCommissioner() bool {
	return p.Role == RoleCommissioner
}
