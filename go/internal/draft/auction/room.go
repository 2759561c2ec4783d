package auction

import (
	"math/rand/v2"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/dynasty-auction/go/internal/draft/events"
	"github.com/mcdev12/dynasty-auction/go/internal/models"
)

const maxChatLength = 500

// Room holds the authoritative state of one auction room. Every operation and
// every timer tick runs to completion under mu, so they are atomic with
// respect to each other.
type Room struct {
	id       string
	settings Settings
	clock    clockwork.Clock
	notifier Notifier
	intn     func(n int) int
	newID    func() string

	mu    sync.Mutex
	teams []models.Team
	state models.DraftState
	chat  []models.ChatMessage
	timer *Timer
	// seedPending is set while the first nominator of the draft is already
	// counted in NominationOrder by StartDraft.
	seedPending bool
	// auctionNominator is the team that opened the running auction.
	auctionNominator string
	closed           bool
}

// Option configures a Room.
type Option func(*Room)

// WithClock sets the clock driving the countdown.
func WithClock(c clockwork.Clock) Option {
	return func(r *Room) { r.clock = c }
}

// WithNotifier sets the sink for room notifications.
func WithNotifier(n Notifier) Option {
	return func(r *Room) { r.notifier = n }
}

// WithRand sets the function used to pick the first nominator.
func WithRand(intn func(n int) int) Option {
	return func(r *Room) { r.intn = intn }
}

// WithIDGenerator sets the generator for bid and chat message ids.
func WithIDGenerator(gen func() string) Option {
	return func(r *Room) { r.newID = gen }
}

// NewRoom creates a room in its default, not yet started state.
func NewRoom(id string, settings Settings, opts ...Option) *Room {
	r := &Room{
		id:       id,
		settings: settings,
		clock:    clockwork.NewRealClock(),
		notifier: nopNotifier{},
		intn:     rand.IntN,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.teams = make([]models.Team, 0, len(settings.Teams))
	for _, seed := range settings.Teams {
		r.teams = append(r.teams, models.Team{
			ID:      seed.ID,
			Name:    seed.Name,
			OwnerID: seed.OwnerID,
			Budget:  settings.BudgetCap,
			Players: []models.Player{},
		})
	}

	r.state = models.DraftState{
		CurrentRound:    1,
		NominationOrder: []string{},
		CurrentBids:     []models.Bid{},
		StartingPrice:   1,
		DraftedPlayers:  []models.DraftedPlayer{},
	}
	if len(r.teams) > 0 {
		r.state.CurrentNominator = r.teams[0].ID
	}

	r.timer = NewTimer(r.clock, settings.TickInterval, r.tick)
	return r
}

func (r *Room) ID() string { return r.id }

// JoinResult is returned to a participant entering a room.
type JoinResult struct {
	Room models.RoomState     `json:"room"`
	Team *models.Team         `json:"team,omitempty"`
	Chat []models.ChatMessage `json:"chat"`
}

// Join binds p to a team if it owns none yet. A team owned by p is returned
// as is; otherwise the first team without an owner is claimed and, when
// teamName is given, renamed. Participants that cannot be bound still observe
// the room.
func (r *Room) Join(p models.Participant, teamName string) (JoinResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return JoinResult{}, ErrRoomClosed
	}

	team := r.teamByOwner(p.ID)
	if team == nil {
		for i := range r.teams {
			if r.teams[i].OwnerID != "" {
				continue
			}
			team = &r.teams[i]
			team.OwnerID = p.ID
			if name := strings.TrimSpace(teamName); name != "" {
				team.Name = name
			}
			log.Info().
				Str("room_id", r.id).
				Str("team_id", team.ID).
				Str("participant_id", p.ID).
				Msg("participant claimed team")
			break
		}
	}

	res := JoinResult{
		Room: r.snapshotLocked(),
		Chat: append([]models.ChatMessage{}, r.chat...),
	}
	if team != nil {
		t := team.Clone()
		res.Team = &t
	}
	r.notifier.Notify(r.id, events.RoomStatePayload{Room: res.Room})
	return res, nil
}

// UpdateTeam renames the team owned by ownerID and sets its logo. An empty
// name keeps the current one.
func (r *Room) UpdateTeam(ownerID, name, logo string) (models.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return models.Team{}, ErrRoomClosed
	}
	team := r.teamByOwner(ownerID)
	if team == nil {
		return models.Team{}, ErrTeamNotFound
	}
	if name = strings.TrimSpace(name); name != "" {
		team.Name = name
	}
	team.Logo = strings.TrimSpace(logo)

	log.Info().
		Str("room_id", r.id).
		Str("team_id", team.ID).
		Str("participant_id", ownerID).
		Msg("team updated")

	r.broadcastStateLocked()
	return team.Clone(), nil
}

// PostChat appends a chat message and broadcasts it.
func (r *Room) PostChat(p models.Participant, text string) (models.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" || utf8.RuneCountInString(text) > maxChatLength {
		return models.ChatMessage{}, ErrInvalidMessage
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return models.ChatMessage{}, ErrRoomClosed
	}

	msg := models.ChatMessage{
		ID:        r.newID(),
		RoomID:    r.id,
		UserID:    p.ID,
		Username:  p.Username,
		Message:   text,
		Timestamp: r.clock.Now(),
	}
	r.chat = append(r.chat, msg)
	if limit := r.settings.ChatHistory; limit > 0 && len(r.chat) > limit {
		r.chat = append([]models.ChatMessage{}, r.chat[len(r.chat)-limit:]...)
	}
	r.notifier.Notify(r.id, events.ChatMessagePayload{Message: msg})
	return msg, nil
}

// Chat returns the retained chat history, oldest first.
func (r *Room) Chat() []models.ChatMessage {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.ChatMessage{}, r.chat...)
}

// Snapshot returns a deep copy of the room's teams and draft state.
func (r *Room) Snapshot() models.RoomState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// TimerState reports the state of the room's countdown driver.
func (r *Room) TimerState() TimerState {
	return r.timer.State()
}

// Close destroys the room's timer. Later operations fail with ErrRoomClosed.
func (r *Room) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	r.timer.Close()
}

func (r *Room) snapshotLocked() models.RoomState {
	teams := make([]models.Team, len(r.teams))
	for i, t := range r.teams {
		teams[i] = t.Clone()
	}
	return models.RoomState{
		RoomID:     r.id,
		Teams:      teams,
		DraftState: r.state.Clone(),
	}
}

func (r *Room) broadcastStateLocked() {
	r.notifier.Notify(r.id, events.RoomStatePayload{Room: r.snapshotLocked()})
}

func (r *Room) teamByOwner(ownerID string) *models.Team {
	if ownerID == "" {
		return nil
	}
	for i := range r.teams {
		if r.teams[i].OwnerID == ownerID {
			return &r.teams[i]
		}
	}
	return nil
}

func (r *Room) teamByID(id string) *models.Team {
	for i := range r.teams {
		if r.teams[i].ID == id {
			return &r.teams[i]
		}
	}
	return nil
}

func (r *Room) isDrafted(playerID string) bool {
	for _, d := range r.state.DraftedPlayers {
		if d.Player.ID == playerID {
			return true
		}
	}
	return false
}
