package model

import "time"

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	// StatusActive is the initial status of every booking.
	StatusActive BookingStatus = "ACTIVE"
	// StatusCancelled is terminal; a cancelled booking never becomes
	// active again and is excluded from availability checks.
	StatusCancelled BookingStatus = "CANCELLED"
)

// validTransitions defines the state machine for booking statuses.
// The only transition is ACTIVE -> CANCELLED.
var validTransitions = map[BookingStatus][]BookingStatus{
	StatusActive:    {StatusCancelled},
	StatusCancelled: {},
}

// IsValid returns true if the status is a recognized booking status.
func (s BookingStatus) IsValid() bool {
	_, ok := validTransitions[s]
	return ok
}

// CanTransitionTo returns true if a transition from this status to the
// target is allowed.
func (s BookingStatus) CanTransitionTo(target BookingStatus) bool {
	for _, t := range validTransitions[s] {
		if t == target {
			return true
		}
	}
	return false
}

// Booking records a user's reservation of a room for a range of
// calendar dates.  The internal numeric ID never leaves the service;
// clients only ever see the PublicID, an unguessable UUID, so booking
// URLs cannot be enumerated.
//
// Fields:
//  ID        – internal primary key, never exposed to clients.
//  PublicID  – opaque UUID identifying the booking externally.
//  UserID    – user who owns the booking.
//  RoomID    – room being booked.
//  StartDate – first night of the stay (inclusive, UTC midnight).
//  EndDate   – checkout date (exclusive, UTC midnight).
//  Status    – ACTIVE or CANCELLED.
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type Booking struct {
	ID        uint64        // bookings.id
	PublicID  string        // bookings.public_id
	UserID    uint64        // bookings.user_id
	RoomID    uint64        // bookings.room_id
	StartDate time.Time     // bookings.start_date
	EndDate   time.Time     // bookings.end_date
	Status    BookingStatus // bookings.status
	CreatedAt time.Time     // bookings.created_at
	UpdatedAt time.Time     // bookings.updated_at
}

// Overlaps reports whether the half-open date ranges [s1, e1) and
// [s2, e2) intersect.  A booking ending on day D and another starting
// on day D do not overlap.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}
