package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/dynasty-auction/go/internal/draft/auction"
	"github.com/mcdev12/dynasty-auction/go/internal/draft/events"
	"github.com/mcdev12/dynasty-auction/go/internal/models"
	"github.com/mcdev12/dynasty-auction/go/internal/player"
)

// roomDispatcher drives rooms directly, resolving players from a fixed set.
type roomDispatcher struct {
	rooms   *auction.Registry
	players map[string]models.Player
}

func (d *roomDispatcher) Join(_ context.Context, roomID string, p models.Participant, teamName string) (auction.JoinResult, error) {
	return d.rooms.GetOrCreate(roomID).Join(p, teamName)
}

func (d *roomDispatcher) StartDraft(_ context.Context, roomID string, p models.Participant) error {
	return d.rooms.GetOrCreate(roomID).StartDraft(p)
}

func (d *roomDispatcher) Nominate(_ context.Context, roomID string, p models.Participant, playerID string, price int) error {
	pl, ok := d.players[playerID]
	if !ok {
		return player.ErrNotFound
	}
	return d.rooms.GetOrCreate(roomID).Nominate(p, pl, price)
}

func (d *roomDispatcher) PlaceBid(_ context.Context, roomID string, p models.Participant, amount int) (models.Bid, error) {
	return d.rooms.GetOrCreate(roomID).PlaceBid(p, amount)
}

func (d *roomDispatcher) TogglePause(_ context.Context, roomID string, p models.Participant) (bool, error) {
	return d.rooms.GetOrCreate(roomID).TogglePause(p)
}

func (d *roomDispatcher) PostChat(_ context.Context, roomID string, p models.Participant, text string) (models.ChatMessage, error) {
	return d.rooms.GetOrCreate(roomID).PostChat(p, text)
}

func (d *roomDispatcher) Snapshot(_ context.Context, roomID string) models.RoomState {
	return d.rooms.GetOrCreate(roomID).Snapshot()
}

func (d *roomDispatcher) ChatHistory(_ context.Context, roomID string) ([]models.ChatMessage, error) {
	return d.rooms.GetOrCreate(roomID).Chat(), nil
}

type staticParticipants map[string]models.Participant

func (s staticParticipants) Lookup(id string) (models.Participant, error) {
	p, ok := s[id]
	if !ok {
		return models.Participant{}, assert.AnError
	}
	return p, nil
}

type testEnv struct {
	server *httptest.Server
	svc    *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	participants := staticParticipants{
		"user-1": {ID: "user-1", Username: "commish", Role: models.RoleCommissioner},
		"user-2": {ID: "user-2", Username: "owner2", Role: models.RoleMember},
	}
	svc := NewService(DefaultConfig(), participants)

	settings := auction.DefaultSettings()
	settings.Teams = auction.DefaultTeams()[:2]
	registry := auction.NewRegistry(settings,
		auction.WithClock(clockwork.NewFakeClock()),
		auction.WithRand(func(int) int { return 0 }),
		auction.WithNotifier(svc.Notifier()),
	)
	svc.Bind(&roomDispatcher{
		rooms: registry,
		players: map[string]models.Player{
			"p1": {ID: "p1", Name: "Josh Allen", Position: "QB", Team: "BUF", Rank: 1},
		},
	})

	ctx, cancel := context.WithCancel(context.Background())
	go svc.Start(ctx)

	r := chi.NewRouter()
	svc.RegisterRoutes(r)
	server := httptest.NewServer(r)

	t.Cleanup(func() {
		cancel()
		server.Close()
		registry.Close()
	})
	return &testEnv{server: server, svc: svc}
}

func (e *testEnv) dial(t *testing.T, userID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(e.server.URL, "http") + "/ws/draft?room_id=main&user_id=" + userID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msg string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
}

// readUntil reads events until one of type want arrives.
func readUntil(t *testing.T, conn *websocket.Conn, want events.EventType) *RoomEvent {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err, "waiting for %s", want)
		var event RoomEvent
		require.NoError(t, json.Unmarshal(data, &event))
		if event.Type == want {
			return &event
		}
	}
}

func TestWebSocket_JoinReceivesSnapshotAndHistory(t *testing.T) {
	env := newTestEnv(t)
	conn := env.dial(t, "user-1")

	event := readUntil(t, conn, events.EventTypeRoomState)
	assert.Equal(t, "main", event.RoomID)
	payload, err := ParseEventPayload(event)
	require.NoError(t, err)
	room := payload.(*events.RoomStatePayload).Room
	assert.Len(t, room.Teams, 2)
	assert.False(t, room.DraftState.IsStarted)

	readUntil(t, conn, events.EventTypeChatHistory)

	require.Eventually(t, func() bool {
		return env.svc.Stats().TotalConnections == 1
	}, time.Second, 10*time.Millisecond)
}

func TestWebSocket_DraftFlowBroadcasts(t *testing.T) {
	env := newTestEnv(t)
	commish := env.dial(t, "user-1")
	owner := env.dial(t, "user-2")
	readUntil(t, commish, events.EventTypeChatHistory)
	readUntil(t, owner, events.EventTypeChatHistory)

	send(t, commish, `{"type":"start-draft"}`)
	readUntil(t, owner, events.EventTypeDraftStarted)

	send(t, commish, `{"type":"nominate","data":{"playerId":"p1","startingPrice":2}}`)
	event := readUntil(t, owner, events.EventTypePlayerNominated)
	payload, err := ParseEventPayload(event)
	require.NoError(t, err)
	assert.Equal(t, "p1", payload.(*events.PlayerNominatedPayload).Player.ID)

	send(t, owner, `{"type":"place-bid","data":{"amount":7}}`)
	event = readUntil(t, commish, events.EventTypeBidPlaced)
	payload, err = ParseEventPayload(event)
	require.NoError(t, err)
	assert.Equal(t, 7, payload.(*events.BidPlacedPayload).Bid.Amount)

	send(t, owner, `{"type":"chat","data":{"text":"mine"}}`)
	event = readUntil(t, commish, events.EventTypeChatMessage)
	payload, err = ParseEventPayload(event)
	require.NoError(t, err)
	assert.Equal(t, "mine", payload.(*events.ChatMessagePayload).Message.Message)
}

func TestWebSocket_RejectionGoesToCallerOnly(t *testing.T) {
	env := newTestEnv(t)
	commish := env.dial(t, "user-1")
	owner := env.dial(t, "user-2")
	readUntil(t, commish, events.EventTypeChatHistory)
	readUntil(t, owner, events.EventTypeChatHistory)

	send(t, owner, `{"type":"start-draft"}`)
	event := readUntil(t, owner, events.EventTypeError)
	payload, err := ParseEventPayload(event)
	require.NoError(t, err)
	assert.Equal(t, "NotAuthorized", payload.(*events.ErrorPayload).Code)

	send(t, owner, `{"type":"place-bid","data":{"amount":"lots"}}`)
	event = readUntil(t, owner, events.EventTypeError)
	payload, err = ParseEventPayload(event)
	require.NoError(t, err)
	assert.Equal(t, "InvalidCommand", payload.(*events.ErrorPayload).Code)

	// The commissioner's next event is the chat, not either rejection.
	send(t, owner, `{"type":"chat","data":{"text":"sorry"}}`)
	require.NoError(t, commish.SetReadDeadline(time.Now().Add(2*time.Second)))
	for {
		_, data, err := commish.ReadMessage()
		require.NoError(t, err)
		var e RoomEvent
		require.NoError(t, json.Unmarshal(data, &e))
		require.NotEqual(t, events.EventTypeError, e.Type)
		if e.Type == events.EventTypeChatMessage {
			break
		}
	}
}

func TestWebSocket_UnknownParticipantRejected(t *testing.T) {
	env := newTestEnv(t)
	url := "ws" + strings.TrimPrefix(env.server.URL, "http") + "/ws/draft?room_id=main&user_id=ghost"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestStateHandler_Routes(t *testing.T) {
	env := newTestEnv(t)

	resp, err := http.Get(env.server.URL + "/api/rooms/main")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var room models.RoomState
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&room))
	assert.Equal(t, "main", room.RoomID)

	req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/rooms/main/join", strings.NewReader(`{"team_name":"Renamed"}`))
	require.NoError(t, err)
	req.Header.Set(ParticipantHeader, "user-2")
	joinResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer joinResp.Body.Close()
	require.Equal(t, http.StatusOK, joinResp.StatusCode)
	var joined auction.JoinResult
	require.NoError(t, json.NewDecoder(joinResp.Body).Decode(&joined))
	require.NotNil(t, joined.Team)
	assert.Equal(t, "team-2", joined.Team.ID)

	anon, err := http.Post(env.server.URL+"/api/rooms/main/join", "application/json", nil)
	require.NoError(t, err)
	defer anon.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, anon.StatusCode)

	chat, err := http.Get(env.server.URL + "/api/rooms/main/chat")
	require.NoError(t, err)
	defer chat.Body.Close()
	var messages []models.ChatMessage
	require.NoError(t, json.NewDecoder(chat.Body).Decode(&messages))
	assert.Empty(t, messages)
}
