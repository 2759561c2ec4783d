package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/dynasty-auction/go/internal/draft/events"
	"github.com/mcdev12/dynasty-auction/go/internal/models"
)

type fakePublisher struct {
	mu        sync.Mutex
	failFirst int
	calls     int
	published []OutboxEvent
}

func (p *fakePublisher) Publish(_ context.Context, event OutboxEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	if p.calls <= p.failFirst {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, event)
	return nil
}

func (p *fakePublisher) events() []OutboxEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]OutboxEvent(nil), p.published...)
}

func startRelay(t *testing.T, r *Relay) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		assert.NoError(t, r.Run(ctx))
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	require.Eventually(t, r.Running, time.Second, 5*time.Millisecond)
}

func TestRelay_PublishesAndSkipsTicks(t *testing.T) {
	pub := &fakePublisher{}
	counters := NewCounters()
	r := NewRelay(pub, DefaultConfig(), clockwork.NewFakeClock(), counters)
	startRelay(t, r)

	r.Notify("main", events.TimerTickPayload{TimeRemaining: 29})
	r.Notify("main", events.BidPlacedPayload{Bid: models.Bid{ID: "b1", Amount: 12}})

	require.Eventually(t, func() bool { return len(pub.events()) == 1 }, time.Second, 5*time.Millisecond)

	got := pub.events()[0]
	assert.Equal(t, "main", got.RoomID)
	assert.Equal(t, events.EventTypeBidPlaced, got.EventType)
	assert.NotEqual(t, uuid.Nil, got.ID)

	payload, err := events.Decode(got.EventType, got.Payload)
	require.NoError(t, err)
	assert.Equal(t, 12, payload.(*events.BidPlacedPayload).Bid.Amount)

	snap := counters.Snapshot()
	assert.Equal(t, uint64(1), snap.Published[string(events.EventTypeBidPlaced)])
	assert.Zero(t, snap.Published[string(events.EventTypeTimerTick)])
}

func TestRelay_RetriesWithBackoff(t *testing.T) {
	clock := clockwork.NewFakeClock()
	pub := &fakePublisher{failFirst: 1}
	counters := NewCounters()
	cfg := DefaultConfig()
	cfg.RetryDelay = 500 * time.Millisecond
	r := NewRelay(pub, cfg, clock, counters)
	startRelay(t, r)

	r.Notify("main", events.ChatMessagePayload{Message: models.ChatMessage{ID: "m1", Message: "hi"}})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(cfg.RetryDelay)

	require.Eventually(t, func() bool { return len(pub.events()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, uint64(1), counters.Snapshot().Retries)
}

func TestRelay_GivesUpAfterMaxRetries(t *testing.T) {
	pub := &fakePublisher{failFirst: 100}
	counters := NewCounters()
	cfg := DefaultConfig()
	cfg.MaxRetries = 0
	r := NewRelay(pub, cfg, clockwork.NewFakeClock(), counters)
	startRelay(t, r)

	r.Notify("main", events.DraftPausedPayload{IsPaused: true})

	require.Eventually(t, func() bool {
		return counters.Snapshot().Failed[string(events.EventTypeDraftPaused)] == 1
	}, time.Second, 5*time.Millisecond)
	assert.Empty(t, pub.events())
}

// encodeCounter counts how often it is marshalled.
type encodeCounter struct {
	n *atomic.Int32
}

func (encodeCounter) EventType() events.EventType { return events.EventTypeChatMessage }

func (c encodeCounter) MarshalJSON() ([]byte, error) {
	c.n.Add(1)
	return []byte(`{"message":{"id":"m1"}}`), nil
}

func TestRelay_EncodesOffTheCaller(t *testing.T) {
	pub := &fakePublisher{}
	clock := clockwork.NewFakeClock()
	r := NewRelay(pub, DefaultConfig(), clock, nil)

	var n atomic.Int32
	r.Notify("main", encodeCounter{n: &n})
	assert.Zero(t, n.Load())
	assert.Equal(t, 1, r.Pending())

	startRelay(t, r)
	require.Eventually(t, func() bool { return len(pub.events()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(1), n.Load())

	got := pub.events()[0]
	assert.Equal(t, clock.Now().UTC(), got.CreatedAt)
	assert.JSONEq(t, `{"message":{"id":"m1"}}`, string(got.Payload))
}

func TestRelay_DropsWhenFull(t *testing.T) {
	counters := NewCounters()
	cfg := DefaultConfig()
	cfg.Buffer = 1
	r := NewRelay(&fakePublisher{}, cfg, clockwork.NewFakeClock(), counters)

	r.Notify("main", events.ChatMessagePayload{})
	r.Notify("main", events.ChatMessagePayload{})

	assert.Equal(t, 1, r.Pending())
	assert.Equal(t, uint64(1), counters.Snapshot().Dropped[string(events.EventTypeChatMessage)])
}

func TestRelay_RunTwice(t *testing.T) {
	r := NewRelay(&fakePublisher{}, DefaultConfig(), clockwork.NewFakeClock(), nil)
	startRelay(t, r)
	assert.Error(t, r.Run(context.Background()))
}

func TestSubject(t *testing.T) {
	e := OutboxEvent{RoomID: "league.2025 main", EventType: events.EventTypeSaleCompleted}
	assert.Equal(t, "auction.events.league_2025_main.sale-completed", Subject("auction.events", e))

	e.RoomID = ""
	assert.Equal(t, "auction.events._.sale-completed", Subject("auction.events", e))
}

type brokerStub bool

func (b brokerStub) Connected() bool { return bool(b) }

func TestHealthChecker(t *testing.T) {
	counters := NewCounters()
	r := NewRelay(&fakePublisher{}, DefaultConfig(), clockwork.NewFakeClock(), counters)

	status := NewHealthChecker(r, counters, nil).Check()
	assert.False(t, status.Healthy)
	assert.Contains(t, status.Errors, "relay not running")
	assert.Nil(t, status.NATSConnected)

	startRelay(t, r)

	status = NewHealthChecker(r, counters, brokerStub(true)).Check()
	assert.True(t, status.Healthy)
	require.NotNil(t, status.NATSConnected)
	assert.True(t, *status.NATSConnected)

	rec := httptest.NewRecorder()
	NewHealthChecker(r, counters, brokerStub(false)).HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health/outbox", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body.Errors, "NATS disconnected")
}
