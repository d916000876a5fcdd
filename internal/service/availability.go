package service

import (
	"context"
	"time"
)

// OverlapCounter is the slice of the booking store the availability
// engine needs: counting committed active bookings of a room that
// intersect a half-open date range.
type OverlapCounter interface {
	CountActiveOverlapping(ctx context.Context, roomID uint64, start, end time.Time) (int, error)
}

// AvailabilityEngine answers whether a room is free for a date range.
// It is stateless and read-only; two ranges conflict iff
// start_a < end_b AND start_b < end_a (end dates exclusive), so a
// booking ending on day D never blocks one starting on day D.
// Cancelled bookings are excluded entirely: cancelling reopens the
// room for those dates.
//
// The engine checks committed state at the instant of the call. It is
// advisory on the create path; the store's locking insert is what
// makes check-then-act race-free.
type AvailabilityEngine struct {
	bookings OverlapCounter
}

// NewAvailabilityEngine returns an engine reading from the given store.
func NewAvailabilityEngine(bookings OverlapCounter) *AvailabilityEngine {
	return &AvailabilityEngine{bookings: bookings}
}

// IsAvailable reports whether no active booking of the room overlaps
// [start, end). It does not validate the ordering of start and end;
// the creation rules own that check.
func (e *AvailabilityEngine) IsAvailable(ctx context.Context, roomID uint64, start, end time.Time) (bool, error) {
	n, err := e.bookings.CountActiveOverlapping(ctx, roomID, start, end)
	if err != nil {
		return false, err
	}
	return n == 0, nil
}
