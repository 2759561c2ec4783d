package auction

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// TimerState is the state of a room's countdown driver.
type TimerState int

const (
	TimerIdle TimerState = iota
	TimerRunning
	TimerPaused
)

func (s TimerState) String() string {
	switch s {
	case TimerRunning:
		return "running"
	case TimerPaused:
		return "paused"
	default:
		return "idle"
	}
}

// Timer is the per-room countdown driver. It owns at most one tick sequence.
// Each sequence carries a generation; onTick receives it so the room can
// discard ticks from a sequence that was cancelled or replaced while the tick
// was in flight.
//
// The countdown value itself lives in the room's DraftState.
type Timer struct {
	clock    clockwork.Clock
	interval time.Duration
	onTick   func(gen uint64)

	mu     sync.Mutex
	state  TimerState
	gen    uint64
	stop   chan struct{}
	closed bool
}

// NewTimer creates an idle timer.
func NewTimer(clock clockwork.Clock, interval time.Duration, onTick func(gen uint64)) *Timer {
	return &Timer{
		clock:    clock,
		interval: interval,
		onTick:   onTick,
	}
}

// Arm cancels any running sequence and starts a fresh one.
func (t *Timer) Arm() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return t.gen
	}

	t.cancelLocked()
	t.gen++
	stop := make(chan struct{})
	t.stop = stop
	t.state = TimerRunning

	ticker := t.clock.NewTicker(t.interval)
	go t.run(t.gen, ticker, stop)
	return t.gen
}

// Cancel stops the running sequence and returns to idle.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
	t.state = TimerIdle
}

// Pause stops a running sequence. A timer that is not running is unchanged.
func (t *Timer) Pause() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.state != TimerRunning {
		return
	}
	t.cancelLocked()
	t.state = TimerPaused
}

// Resume arms a fresh sequence unless one is already running.
func (t *Timer) Resume() {
	if t.State() == TimerRunning {
		return
	}
	t.Arm()
}

// Close cancels the timer for good. Arm becomes a no-op.
func (t *Timer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
	t.state = TimerIdle
	t.closed = true
}

// Current reports whether gen belongs to the live sequence.
func (t *Timer) Current(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.closed && t.state == TimerRunning && gen == t.gen
}

func (t *Timer) State() TimerState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Generation returns the generation of the most recently armed sequence.
func (t *Timer) Generation() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.gen
}

func (t *Timer) cancelLocked() {
	if t.stop != nil {
		close(t.stop)
		t.stop = nil
	}
}

func (t *Timer) run(gen uint64, ticker clockwork.Ticker, stop <-chan struct{}) {
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
			select {
			case <-stop:
				return
			default:
			}
			t.onTick(gen)
		}
	}
}
