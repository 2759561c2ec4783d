package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcdev12/dynasty-auction/go/internal/draft/events"
)

func TestRoomEvent_Envelope(t *testing.T) {
	event, err := NewRoomEvent("main", events.TimerWarningPayload{TimeRemaining: 5, Message: "5 seconds remaining!"})
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, "main", event.RoomID)
	assert.Equal(t, events.EventTypeTimerWarning, event.Type)
	assert.False(t, event.Timestamp.IsZero())

	payload, err := ParseEventPayload(event)
	require.NoError(t, err)
	warning, ok := payload.(*events.TimerWarningPayload)
	require.True(t, ok)
	assert.Equal(t, 5, warning.TimeRemaining)
}
