// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as the
// booking service to distinguish between different failure scenarios.
// For example, ErrOverlap indicates that a conflicting active booking
// already exists for the requested room and dates, while
// ErrRoomNotFound signals that a referenced room does not exist.
package repository

import "errors"

// ErrRoomNotFound is returned when a room lookup matches no row.
var ErrRoomNotFound = errors.New("room not found")

// ErrBookingNotFound is returned when a booking lookup matches no row.
var ErrBookingNotFound = errors.New("booking not found")

// ErrOverlap is returned when an insert would violate the invariant
// that active bookings of one room never overlap. It is the store-level
// safety net against double booking; the service layer translates it
// into its RoomUnavailable error.
var ErrOverlap = errors.New("overlapping active booking exists")

// ErrEmailExists is returned when registering with an email address
// that is already taken.
var ErrEmailExists = errors.New("email already exists")
