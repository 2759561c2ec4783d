package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// CommandType names an inbound client command
type CommandType string

const (
	CommandJoin        CommandType = "join"
	CommandStartDraft  CommandType = "start-draft"
	CommandNominate    CommandType = "nominate"
	CommandPlaceBid    CommandType = "place-bid"
	CommandTogglePause CommandType = "toggle-pause"
	CommandChat        CommandType = "chat"
)

// ErrInvalidCommand is returned for messages that fail boundary validation
var ErrInvalidCommand = errors.New("invalid command")

// Command is implemented by every inbound command variant
type Command interface {
	CommandType() CommandType
	Validate() error
}

// envelope is the raw inbound message
type envelope struct {
	Type CommandType     `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type JoinCommand struct {
	TeamName string `json:"teamName,omitempty"`
}

type StartDraftCommand struct{}

type NominateCommand struct {
	PlayerID      string `json:"playerId"`
	StartingPrice int    `json:"startingPrice,omitempty"`
}

type PlaceBidCommand struct {
	Amount int `json:"amount"`
}

type TogglePauseCommand struct{}

type ChatCommand struct {
	Text string `json:"text"`
}

func (JoinCommand) CommandType() CommandType        { return CommandJoin }
func (StartDraftCommand) CommandType() CommandType  { return CommandStartDraft }
func (NominateCommand) CommandType() CommandType    { return CommandNominate }
func (PlaceBidCommand) CommandType() CommandType    { return CommandPlaceBid }
func (TogglePauseCommand) CommandType() CommandType { return CommandTogglePause }
func (ChatCommand) CommandType() CommandType        { return CommandChat }

func (c JoinCommand) Validate() error {
	if len(c.TeamName) > 64 {
		return fmt.Errorf("%w: team name longer than 64 characters", ErrInvalidCommand)
	}
	return nil
}

func (StartDraftCommand) Validate() error  { return nil }
func (TogglePauseCommand) Validate() error { return nil }

func (c NominateCommand) Validate() error {
	if strings.TrimSpace(c.PlayerID) == "" {
		return fmt.Errorf("%w: playerId is required", ErrInvalidCommand)
	}
	if c.StartingPrice < 0 {
		return fmt.Errorf("%w: startingPrice must not be negative", ErrInvalidCommand)
	}
	return nil
}

func (c PlaceBidCommand) Validate() error {
	if c.Amount <= 0 {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidCommand)
	}
	return nil
}

func (c ChatCommand) Validate() error {
	if strings.TrimSpace(c.Text) == "" {
		return fmt.Errorf("%w: text is required", ErrInvalidCommand)
	}
	return nil
}

// DecodeCommand parses and validates a raw client message
func DecodeCommand(raw []byte) (Command, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCommand, err)
	}

	var cmd Command
	switch env.Type {
	case CommandJoin:
		cmd = &JoinCommand{}
	case CommandStartDraft:
		cmd = &StartDraftCommand{}
	case CommandNominate:
		cmd = &NominateCommand{}
	case CommandPlaceBid:
		cmd = &PlaceBidCommand{}
	case CommandTogglePause:
		cmd = &TogglePauseCommand{}
	case CommandChat:
		cmd = &ChatCommand{}
	default:
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidCommand, env.Type)
	}

	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, cmd); err != nil {
			return nil, fmt.Errorf("%w: %s data: %v", ErrInvalidCommand, env.Type, err)
		}
	}
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	return cmd, nil
}
