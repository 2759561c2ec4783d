package users

import (
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcdev12/dynasty-auction/go/internal/models"
)

// Directory resolves caller identity and role for the draft.
type Directory struct {
	mu     sync.RWMutex
	byID   map[string]Account
	byName map[string]string
}

// NewDirectory indexes accounts by id and by case-insensitive username.
func NewDirectory(accounts []Account) (*Directory, error) {
	d := &Directory{
		byID:   make(map[string]Account, len(accounts)),
		byName: make(map[string]string, len(accounts)),
	}
	for _, a := range accounts {
		if a.ID == "" || a.Username == "" {
			return nil, fmt.Errorf("account %q: id and username are required", a.Username)
		}
		if _, dup := d.byID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate account id %q", a.ID)
		}
		name := strings.ToLower(a.Username)
		if _, dup := d.byName[name]; dup {
			return nil, fmt.Errorf("duplicate username %q", a.Username)
		}
		if a.Role == "" {
			a.Role = models.RoleMember
		}
		d.byID[a.ID] = a
		d.byName[name] = a.ID
	}
	return d, nil
}

// Lookup returns the participant registered under id.
func (d *Directory) Lookup(id string) (models.Participant, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	a, ok := d.byID[id]
	if !ok {
		return models.Participant{}, fmt.Errorf("%s: %w", id, ErrUnknownParticipant)
	}
	return a.Participant, nil
}

// Authenticate checks a username and password against the stored hash.
func (d *Directory) Authenticate(username, password string) (models.Participant, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	id, ok := d.byName[strings.ToLower(strings.TrimSpace(username))]
	if !ok {
		return models.Participant{}, ErrInvalidCredentials
	}
	a := d.byID[id]
	if a.PasswordHash == "" {
		return models.Participant{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)); err != nil {
		return models.Participant{}, ErrInvalidCredentials
	}
	return a.Participant, nil
}

// UpdateTeam sets the team name and logo shown for a participant.
func (d *Directory) UpdateTeam(id, teamName, teamLogo string) (models.Participant, error) {
	teamName = strings.TrimSpace(teamName)
	teamLogo = strings.TrimSpace(teamLogo)
	if teamName == "" || utf8.RuneCountInString(teamName) > MaxTeamNameLength {
		return models.Participant{}, ErrInvalidTeam
	}
	if len(teamLogo) > MaxTeamLogoLength {
		return models.Participant{}, ErrInvalidTeam
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	a, ok := d.byID[id]
	if !ok {
		return models.Participant{}, fmt.Errorf("%s: %w", id, ErrUnknownParticipant)
	}
	a.TeamName = teamName
	a.TeamLogo = teamLogo
	d.byID[id] = a
	return a.Participant, nil
}

// Len returns the number of registered participants.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.byID)
}

// HashPassword returns a bcrypt hash suitable for Account.PasswordHash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
