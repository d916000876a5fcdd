// Package service implements the booking domain logic on top of the
// repository layer: the availability engine, the booking lifecycle
// rules and room listing. Handlers call into this package and map its
// sentinel errors onto HTTP status codes.
package service

import "errors"

// ErrRoomNotFound is returned when the referenced room id does not exist.
var ErrRoomNotFound = errors.New("room not found")

// ErrInvalidDateRange is returned when the end date is not strictly
// after the start date. Zero-night bookings are rejected.
var ErrInvalidDateRange = errors.New("end date must be after start date")

// ErrPastDateRange is returned when the start date precedes today.
var ErrPastDateRange = errors.New("start date is in the past")

// ErrRoomUnavailable is returned when an overlapping active booking
// exists for the requested room and dates, whether detected by the
// availability check or by the store's atomic conflict rejection.
var ErrRoomUnavailable = errors.New("room is not available for the selected dates")

// ErrBookingNotFound is returned when a booking does not exist OR the
// requester is not allowed to see it. The two cases are deliberately
// indistinguishable so the API never leaks whether someone else's
// booking id is real.
var ErrBookingNotFound = errors.New("booking not found")
