package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatEventLine(t *testing.T) {
	ev := BookingEvent{
		Type:       EventBookingCreated,
		BookingID:  "4f9c1a2e-0000-0000-0000-000000000000",
		UserID:     7,
		RoomID:     3,
		RoomName:   "Standard Double",
		StartDate:  "2024-06-01",
		EndDate:    "2024-06-03",
		Status:     "ACTIVE",
		OccurredAt: "2024-05-15T10:30:00Z",
	}
	line := formatEventLine(ev)
	assert.Contains(t, line, "booking.created")
	assert.Contains(t, line, "booking_id=4f9c1a2e")
	assert.Contains(t, line, "dates=2024-06-01..2024-06-03")
	assert.Contains(t, line, `room="Standard Double"`)
	assert.Equal(t, uint8('\n'), line[len(line)-1], "one line per event")
}

func TestBookingEventJSON(t *testing.T) {
	ev := BookingEvent{Type: EventBookingCancelled, BookingID: "abc", UserID: 1, RoomID: 2, Status: "CANCELLED"}
	body, err := json.Marshal(ev)
	require.NoError(t, err)

	var got BookingEvent
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, ev, got)
}
