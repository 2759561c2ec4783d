package auction

import (
	"fmt"
	"time"
)

// TeamSeed describes a team a new room starts with.
type TeamSeed struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	OwnerID string `yaml:"owner_id"`
}

// Settings are the rules shared by every room of a registry.
type Settings struct {
	BudgetCap        int
	NominationWindow time.Duration
	BidFloor         time.Duration
	WarningMarks     []int
	TickInterval     time.Duration
	ChatHistory      int
	Teams            []TeamSeed
}

var defaultTeamNames = []string{
	"Thunder Bolts", "Fire Dragons", "Ice Wolves", "Golden Eagles",
	"Silver Hawks", "Red Lions", "Blue Sharks", "Green Vipers",
	"Purple Ravens", "Orange Tigers", "Yellow Hornets", "Black Panthers",
}

// DefaultTeams returns the twelve stock teams owned by user-1 through user-12.
func DefaultTeams() []TeamSeed {
	teams := make([]TeamSeed, len(defaultTeamNames))
	for i, name := range defaultTeamNames {
		teams[i] = TeamSeed{
			ID:      fmt.Sprintf("team-%d", i+1),
			Name:    name,
			OwnerID: fmt.Sprintf("user-%d", i+1),
		}
	}
	return teams
}

// DefaultSettings returns a $200 auction with a 30s window and a 5s bid floor.
func DefaultSettings() Settings {
	return Settings{
		BudgetCap:        200,
		NominationWindow: 30 * time.Second,
		BidFloor:         5 * time.Second,
		WarningMarks:     []int{10, 5},
		TickInterval:     time.Second,
		ChatHistory:      50,
		Teams:            DefaultTeams(),
	}
}

// Validate checks that the settings describe a playable auction.
func (s Settings) Validate() error {
	if s.BudgetCap <= 0 {
		return fmt.Errorf("budget cap must be positive, got %d", s.BudgetCap)
	}
	if s.TickInterval <= 0 {
		return fmt.Errorf("tick interval must be positive, got %s", s.TickInterval)
	}
	if s.NominationWindow < s.TickInterval {
		return fmt.Errorf("nomination window %s is shorter than one tick", s.NominationWindow)
	}
	if s.BidFloor <= 0 || s.BidFloor > s.NominationWindow {
		return fmt.Errorf("bid floor %s must be positive and no longer than the nomination window", s.BidFloor)
	}
	seen := make(map[string]bool, len(s.Teams))
	for _, t := range s.Teams {
		if t.ID == "" {
			return fmt.Errorf("team %q has no id", t.Name)
		}
		if seen[t.ID] {
			return fmt.Errorf("duplicate team id %q", t.ID)
		}
		seen[t.ID] = true
	}
	return nil
}

func (s Settings) windowSeconds() int {
	return int(s.NominationWindow / time.Second)
}

func (s Settings) floorSeconds() int {
	return int(s.BidFloor / time.Second)
}
