// Package queue defines message payloads exchanged over the message
// broker and the background consumer that records them.
package queue

// Event types carried in BookingEvent.Type.
const (
	EventBookingCreated   = "booking.created"
	EventBookingCancelled = "booking.cancelled"
)

// BookingEvent is published whenever a booking is created or
// cancelled. It contains enough information for downstream consumers
// to log, notify, or feed analytics without querying the primary
// database. Dates are formatted as YYYY-MM-DD, timestamps as RFC3339.
type BookingEvent struct {
	Type       string `json:"type"`
	BookingID  string `json:"booking_id"` // public UUID, never the internal key
	UserID     uint64 `json:"user_id"`
	RoomID     uint64 `json:"room_id"`
	RoomName   string `json:"room_name,omitempty"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Status     string `json:"status"`
	OccurredAt string `json:"occurred_at"`
}
