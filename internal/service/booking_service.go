package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/room-booking-api/internal/model"
	"github.com/iliyamo/room-booking-api/internal/repository"
)

// RoomStore is the room persistence surface the service depends on.
// *repository.RoomRepo satisfies it; tests substitute mocks.
type RoomStore interface {
	GetByID(ctx context.Context, id uint64) (model.Room, error)
	List(ctx context.Context, f model.RoomFilter) ([]model.Room, error)
}

// BookingStore is the booking persistence surface the service depends
// on. Create must be atomic with respect to the overlap invariant and
// return repository.ErrOverlap when a conflicting active booking
// exists. *repository.BookingRepo satisfies it.
type BookingStore interface {
	OverlapCounter
	Create(ctx context.Context, b *model.Booking) error
	FindByPublicID(ctx context.Context, publicID string) (model.Booking, error)
	UpdateStatus(ctx context.Context, id uint64, from, to model.BookingStatus) (bool, error)
	ListByUser(ctx context.Context, userID uint64, status *model.BookingStatus) ([]repository.BookingDetail, error)
	ListAll(ctx context.Context) ([]repository.BookingDetail, error)
}

// Actor identifies the authenticated caller of a service operation,
// as extracted from the JWT by the middleware.
type Actor struct {
	UserID uint64
	Role   string
}

// IsAdmin reports whether the actor holds the administrator role.
func (a Actor) IsAdmin() bool { return a.Role == model.RoleAdmin }

// BookingService orchestrates the availability engine, the booking
// lifecycle rules and the entity store. All validation failures come
// back as the sentinel errors of this package; anything else is a
// store failure to be surfaced as a server-side error.
type BookingService struct {
	rooms    RoomStore
	bookings BookingStore
	avail    *AvailabilityEngine

	// now supplies the current time for the past-date rule; tests
	// pin it to a fixed clock.
	now func() time.Time
	// newPublicID mints opaque booking identifiers.
	newPublicID func() string
}

// NewBookingService wires a service over the given stores.
func NewBookingService(rooms RoomStore, bookings BookingStore) *BookingService {
	return &BookingService{
		rooms:       rooms,
		bookings:    bookings,
		avail:       NewAvailabilityEngine(bookings),
		now:         time.Now,
		newPublicID: uuid.NewString,
	}
}

// today returns the current UTC calendar date at midnight.
func (s *BookingService) today() time.Time {
	return s.now().UTC().Truncate(24 * time.Hour)
}

// CreateBooking validates and creates an active booking for the actor.
// Preconditions are checked in order, first failure wins: room exists,
// start < end, start >= today, room available. The final insert is the
// authoritative overlap check; if a concurrent request wins the race
// between the advisory availability check and the insert, the store's
// conflict rejection is translated into ErrRoomUnavailable so callers
// cannot tell the two cases apart.
func (s *BookingService) CreateBooking(ctx context.Context, actor Actor, roomID uint64, start, end time.Time) (model.Booking, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, repository.ErrRoomNotFound) {
			return model.Booking{}, ErrRoomNotFound
		}
		return model.Booking{}, err
	}

	if !start.Before(end) {
		return model.Booking{}, ErrInvalidDateRange
	}
	if start.Before(s.today()) {
		return model.Booking{}, ErrPastDateRange
	}

	free, err := s.avail.IsAvailable(ctx, room.ID, start, end)
	if err != nil {
		return model.Booking{}, err
	}
	if !free {
		return model.Booking{}, ErrRoomUnavailable
	}

	b := model.Booking{
		PublicID:  s.newPublicID(),
		UserID:    actor.UserID,
		RoomID:    room.ID,
		StartDate: start,
		EndDate:   end,
		Status:    model.StatusActive,
	}
	if err := s.bookings.Create(ctx, &b); err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			return model.Booking{}, ErrRoomUnavailable
		}
		return model.Booking{}, err
	}
	return b, nil
}

// CancelBooking transitions a booking to CANCELLED on behalf of its
// owner or an administrator. Anyone else gets ErrBookingNotFound, the
// same answer as for an id that never existed. Cancelling an already
// cancelled booking succeeds without modifying the row (idempotent);
// the terminal state is simply re-confirmed.
func (s *BookingService) CancelBooking(ctx context.Context, actor Actor, publicID string) (model.Booking, error) {
	b, err := s.bookings.FindByPublicID(ctx, publicID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return model.Booking{}, ErrBookingNotFound
		}
		return model.Booking{}, err
	}
	if b.UserID != actor.UserID && !actor.IsAdmin() {
		return model.Booking{}, ErrBookingNotFound
	}

	if b.Status == model.StatusCancelled {
		return b, nil
	}
	if !b.Status.CanTransitionTo(model.StatusCancelled) {
		return model.Booking{}, ErrBookingNotFound
	}

	changed, err := s.bookings.UpdateStatus(ctx, b.ID, b.Status, model.StatusCancelled)
	if err != nil {
		return model.Booking{}, err
	}
	if !changed {
		// Lost a race against another cancel; the outcome is the
		// same terminal state either way.
		return s.bookings.FindByPublicID(ctx, publicID)
	}
	b.Status = model.StatusCancelled
	return b, nil
}

// ListBookings returns what the actor is allowed to see: customers get
// their own ACTIVE bookings only, administrators get every booking of
// every user regardless of status.
func (s *BookingService) ListBookings(ctx context.Context, actor Actor) ([]repository.BookingDetail, error) {
	if actor.IsAdmin() {
		return s.bookings.ListAll(ctx)
	}
	active := model.StatusActive
	return s.bookings.ListByUser(ctx, actor.UserID, &active)
}

// ListRooms returns rooms matching the filter. Availability filtering
// (when the filter carries a date range) is pushed down to the store,
// which applies the same half-open overlap predicate as the
// availability engine.
func (s *BookingService) ListRooms(ctx context.Context, f model.RoomFilter) ([]model.Room, error) {
	return s.rooms.List(ctx, f)
}
