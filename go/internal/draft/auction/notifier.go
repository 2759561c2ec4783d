package auction

import "github.com/mcdev12/dynasty-auction/go/internal/draft/events"

// Notifier receives every outbound notification of a room, in order.
// Notify is called with the room locked and must not block.
type Notifier interface {
	Notify(roomID string, payload events.Payload)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(roomID string, payload events.Payload)

func (f NotifierFunc) Notify(roomID string, payload events.Payload) { f(roomID, payload) }

// Fanout delivers each notification to every member in order.
type Fanout []Notifier

func (f Fanout) Notify(roomID string, payload events.Payload) {
	for _, n := range f {
		n.Notify(roomID, payload)
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, events.Payload) {}
