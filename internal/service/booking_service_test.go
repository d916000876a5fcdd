package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/room-booking-api/internal/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// testNow is the pinned clock for every test: 2024-05-15 10:30 UTC,
// so "today" is 2024-05-15.
var testNow = time.Date(2024, 5, 15, 10, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) (*BookingService, *memStore) {
	t.Helper()
	store := newMemStore()
	svc := NewBookingService(store, store)
	svc.now = func() time.Time { return testNow }
	n := 0
	svc.newPublicID = func() string {
		n++
		return fmt.Sprintf("test-public-id-%d", n)
	}
	return svc, store
}

func TestCreateBookingSuccess(t *testing.T) {
	svc, store := newTestService(t)
	room := store.addRoom(model.Room{Name: "Standard Double", PriceCents: 10000, Capacity: 2})
	alice := Actor{UserID: 1, Role: model.RoleCustomer}

	b, err := svc.CreateBooking(context.Background(), alice, room.ID, date(2024, 6, 1), date(2024, 6, 3))
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, b.Status)
	assert.Equal(t, alice.UserID, b.UserID)
	assert.Equal(t, room.ID, b.RoomID)
	assert.NotEmpty(t, b.PublicID)
	assert.NotZero(t, b.ID)
}

func TestCreateBookingOverlapRejected(t *testing.T) {
	svc, store := newTestService(t)
	room := store.addRoom(model.Room{Name: "Standard Double", PriceCents: 10000, Capacity: 2})
	alice := Actor{UserID: 1, Role: model.RoleCustomer}
	bob := Actor{UserID: 2, Role: model.RoleCustomer}

	_, err := svc.CreateBooking(context.Background(), alice, room.ID, date(2024, 6, 1), date(2024, 6, 3))
	require.NoError(t, err)

	_, err = svc.CreateBooking(context.Background(), bob, room.ID, date(2024, 6, 2), date(2024, 6, 4))
	assert.ErrorIs(t, err, ErrRoomUnavailable)
}

func TestCreateBookingBackToBackAllowed(t *testing.T) {
	svc, store := newTestService(t)
	room := store.addRoom(model.Room{Name: "Suite", PriceCents: 25000, Capacity: 4})
	alice := Actor{UserID: 1, Role: model.RoleCustomer}
	bob := Actor{UserID: 2, Role: model.RoleCustomer}

	_, err := svc.CreateBooking(context.Background(), alice, room.ID, date(2024, 6, 8), date(2024, 6, 10))
	require.NoError(t, err)

	// End date is exclusive: a stay ending on the 10th does not block
	// one starting on the 10th.
	b, err := svc.CreateBooking(context.Background(), bob, room.ID, date(2024, 6, 10), date(2024, 6, 12))
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, b.Status)
}

func TestCreateBookingValidationOrder(t *testing.T) {
	svc, store := newTestService(t)
	room := store.addRoom(model.Room{Name: "Single", PriceCents: 7000, Capacity: 1})
	alice := Actor{UserID: 1, Role: model.RoleCustomer}
	ctx := context.Background()

	t.Run("unknown room wins over bad dates", func(t *testing.T) {
		_, err := svc.CreateBooking(ctx, alice, 9999, date(2024, 6, 5), date(2024, 6, 5))
		assert.ErrorIs(t, err, ErrRoomNotFound)
	})
	t.Run("equal dates rejected", func(t *testing.T) {
		_, err := svc.CreateBooking(ctx, alice, room.ID, date(2024, 6, 5), date(2024, 6, 5))
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})
	t.Run("inverted dates rejected", func(t *testing.T) {
		_, err := svc.CreateBooking(ctx, alice, room.ID, date(2024, 6, 5), date(2024, 6, 3))
		assert.ErrorIs(t, err, ErrInvalidDateRange)
	})
	t.Run("past start rejected", func(t *testing.T) {
		_, err := svc.CreateBooking(ctx, alice, room.ID, date(2024, 5, 14), date(2024, 5, 16))
		assert.ErrorIs(t, err, ErrPastDateRange)
	})
	t.Run("start today accepted", func(t *testing.T) {
		_, err := svc.CreateBooking(ctx, alice, room.ID, date(2024, 5, 15), date(2024, 5, 16))
		assert.NoError(t, err)
	})
}

func TestCreateBookingTranslatesStoreConflict(t *testing.T) {
	// Simulates losing the race between the advisory availability
	// check and the insert: the store rejects atomically and the
	// service reports plain unavailability.
	svc, store := newTestService(t)
	room := store.addRoom(model.Room{Name: "Double", PriceCents: 12000, Capacity: 2})
	alice := Actor{UserID: 1, Role: model.RoleCustomer}

	raced := false
	svc.avail = NewAvailabilityEngine(overlapCounterFunc(func(ctx context.Context, roomID uint64, start, end time.Time) (int, error) {
		if !raced {
			raced = true
			// Another request commits an identical booking after this
			// check and before our insert.
			_ = store.Create(ctx, &model.Booking{
				PublicID: "racer", UserID: 2, RoomID: roomID,
				StartDate: start, EndDate: end, Status: model.StatusActive,
			})
		}
		return 0, nil // stale answer: looked free
	}))

	_, err := svc.CreateBooking(context.Background(), alice, room.ID, date(2024, 6, 1), date(2024, 6, 3))
	assert.ErrorIs(t, err, ErrRoomUnavailable)
}

// overlapCounterFunc adapts a function to the OverlapCounter interface.
type overlapCounterFunc func(ctx context.Context, roomID uint64, start, end time.Time) (int, error)

func (f overlapCounterFunc) CountActiveOverlapping(ctx context.Context, roomID uint64, start, end time.Time) (int, error) {
	return f(ctx, roomID, start, end)
}

func TestConcurrentCreateNeverDoubleBooks(t *testing.T) {
	svc, store := newTestService(t)
	room := store.addRoom(model.Room{Name: "Contested", PriceCents: 9000, Capacity: 2})
	svc.newPublicID = func() string { return fmt.Sprintf("pid-%d", time.Now().UnixNano()) }

	const attempts = 32
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			actor := Actor{UserID: uint64(i + 1), Role: model.RoleCustomer}
			_, errs[i] = svc.CreateBooking(context.Background(), actor, room.ID, date(2024, 7, 1), date(2024, 7, 5))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, ErrRoomUnavailable)
		}
	}
	assert.Equal(t, 1, wins, "exactly one concurrent create must win")

	n, err := store.CountActiveOverlapping(context.Background(), room.ID, date(2024, 7, 1), date(2024, 7, 5))
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestCancelBookingByOwner(t *testing.T) {
	svc, store := newTestService(t)
	room := store.addRoom(model.Room{Name: "Double", PriceCents: 12000, Capacity: 2})
	alice := Actor{UserID: 1, Role: model.RoleCustomer}

	b, err := svc.CreateBooking(context.Background(), alice, room.ID, date(2024, 6, 1), date(2024, 6, 3))
	require.NoError(t, err)

	cancelled, err := svc.CancelBooking(context.Background(), alice, b.PublicID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
	assert.Equal(t, b.StartDate, cancelled.StartDate)
	assert.Equal(t, b.EndDate, cancelled.EndDate)
	assert.Equal(t, b.RoomID, cancelled.RoomID)
}

func TestCancelBookingHidesOtherUsers(t *testing.T) {
	svc, store := newTestService(t)
	room := store.addRoom(model.Room{Name: "Double", PriceCents: 12000, Capacity: 2})
	alice := Actor{UserID: 1, Role: model.RoleCustomer}
	bob := Actor{UserID: 2, Role: model.RoleCustomer}

	b, err := svc.CreateBooking(context.Background(), alice, room.ID, date(2024, 6, 1), date(2024, 6, 3))
	require.NoError(t, err)

	// Bob gets the same answer as for an id that never existed.
	_, err = svc.CancelBooking(context.Background(), bob, b.PublicID)
	assert.ErrorIs(t, err, ErrBookingNotFound)
	_, err = svc.CancelBooking(context.Background(), bob, "no-such-booking")
	assert.ErrorIs(t, err, ErrBookingNotFound)

	// The booking is untouched.
	got, err := store.FindByPublicID(context.Background(), b.PublicID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, got.Status)
}

func TestCancelBookingByAdmin(t *testing.T) {
	svc, store := newTestService(t)
	room := store.addRoom(model.Room{Name: "Double", PriceCents: 12000, Capacity: 2})
	alice := Actor{UserID: 1, Role: model.RoleCustomer}
	admin := Actor{UserID: 42, Role: model.RoleAdmin}

	b, err := svc.CreateBooking(context.Background(), alice, room.ID, date(2024, 6, 1), date(2024, 6, 3))
	require.NoError(t, err)

	cancelled, err := svc.CancelBooking(context.Background(), admin, b.PublicID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
}

func TestCancelBookingIdempotent(t *testing.T) {
	svc, store := newTestService(t)
	room := store.addRoom(model.Room{Name: "Double", PriceCents: 12000, Capacity: 2})
	alice := Actor{UserID: 1, Role: model.RoleCustomer}

	b, err := svc.CreateBooking(context.Background(), alice, room.ID, date(2024, 6, 1), date(2024, 6, 3))
	require.NoError(t, err)

	first, err := svc.CancelBooking(context.Background(), alice, b.PublicID)
	require.NoError(t, err)
	second, err := svc.CancelBooking(context.Background(), alice, b.PublicID)
	require.NoError(t, err)

	assert.Equal(t, model.StatusCancelled, second.Status)
	assert.Equal(t, first.StartDate, second.StartDate)
	assert.Equal(t, first.EndDate, second.EndDate)
	assert.Equal(t, first.RoomID, second.RoomID)
	assert.Equal(t, first.UserID, second.UserID)
}

func TestCancelReopensDates(t *testing.T) {
	svc, store := newTestService(t)
	room := store.addRoom(model.Room{Name: "Double", PriceCents: 12000, Capacity: 2})
	alice := Actor{UserID: 1, Role: model.RoleCustomer}
	bob := Actor{UserID: 2, Role: model.RoleCustomer}
	ctx := context.Background()

	b, err := svc.CreateBooking(ctx, alice, room.ID, date(2024, 6, 1), date(2024, 6, 3))
	require.NoError(t, err)

	_, err = svc.CreateBooking(ctx, bob, room.ID, date(2024, 6, 1), date(2024, 6, 3))
	require.ErrorIs(t, err, ErrRoomUnavailable)

	_, err = svc.CancelBooking(ctx, alice, b.PublicID)
	require.NoError(t, err)

	// The exact same range is bookable again.
	rebooked, err := svc.CreateBooking(ctx, bob, room.ID, date(2024, 6, 1), date(2024, 6, 3))
	require.NoError(t, err)
	assert.Equal(t, model.StatusActive, rebooked.Status)
}

func TestListBookingsVisibility(t *testing.T) {
	svc, store := newTestService(t)
	room := store.addRoom(model.Room{Name: "Double", PriceCents: 12000, Capacity: 2})
	alice := Actor{UserID: 1, Role: model.RoleCustomer}
	bob := Actor{UserID: 2, Role: model.RoleCustomer}
	admin := Actor{UserID: 42, Role: model.RoleAdmin}
	ctx := context.Background()

	aliceBooking, err := svc.CreateBooking(ctx, alice, room.ID, date(2024, 6, 1), date(2024, 6, 3))
	require.NoError(t, err)
	_, err = svc.CreateBooking(ctx, bob, room.ID, date(2024, 6, 3), date(2024, 6, 5))
	require.NoError(t, err)

	// Customers never see each other's bookings.
	aliceList, err := svc.ListBookings(ctx, alice)
	require.NoError(t, err)
	require.Len(t, aliceList, 1)
	assert.Equal(t, aliceBooking.PublicID, aliceList[0].PublicID)
	for _, d := range aliceList {
		assert.Equal(t, alice.UserID, d.UserID)
	}

	// Cancelled bookings drop out of the owner's (active-only) list
	// but stay visible to administrators.
	_, err = svc.CancelBooking(ctx, alice, aliceBooking.PublicID)
	require.NoError(t, err)

	aliceList, err = svc.ListBookings(ctx, alice)
	require.NoError(t, err)
	assert.Empty(t, aliceList)

	adminList, err := svc.ListBookings(ctx, admin)
	require.NoError(t, err)
	require.Len(t, adminList, 2)
	statuses := map[string]model.BookingStatus{}
	for _, d := range adminList {
		statuses[d.PublicID] = d.Status
	}
	assert.Equal(t, model.StatusCancelled, statuses[aliceBooking.PublicID])
}

func TestListRoomsFilters(t *testing.T) {
	svc, store := newTestService(t)
	cheap := store.addRoom(model.Room{Name: "Cheap Single", PriceCents: 5000, Capacity: 1})
	mid := store.addRoom(model.Room{Name: "Standard Double", PriceCents: 10000, Capacity: 2})
	big := store.addRoom(model.Room{Name: "Family Suite", PriceCents: 20000, Capacity: 5})
	alice := Actor{UserID: 1, Role: model.RoleCustomer}
	ctx := context.Background()

	uint32p := func(v uint32) *uint32 { return &v }
	timep := func(v time.Time) *time.Time { return &v }

	rooms, err := svc.ListRooms(ctx, model.RoomFilter{})
	require.NoError(t, err)
	assert.Len(t, rooms, 3)

	rooms, err = svc.ListRooms(ctx, model.RoomFilter{MinPriceCents: uint32p(8000), MaxPriceCents: uint32p(15000)})
	require.NoError(t, err)
	require.Len(t, rooms, 1)
	assert.Equal(t, mid.ID, rooms[0].ID)

	rooms, err = svc.ListRooms(ctx, model.RoomFilter{MinCapacity: uint32p(2)})
	require.NoError(t, err)
	assert.Len(t, rooms, 2)

	// A booking on the mid room hides it from availability-filtered
	// listings for those dates only.
	_, err = svc.CreateBooking(ctx, alice, mid.ID, date(2024, 6, 1), date(2024, 6, 3))
	require.NoError(t, err)

	rooms, err = svc.ListRooms(ctx, model.RoomFilter{
		StartDate: timep(date(2024, 6, 2)), EndDate: timep(date(2024, 6, 4)),
	})
	require.NoError(t, err)
	ids := []uint64{}
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []uint64{cheap.ID, big.ID}, ids)

	rooms, err = svc.ListRooms(ctx, model.RoomFilter{
		StartDate: timep(date(2024, 6, 3)), EndDate: timep(date(2024, 6, 5)),
	})
	require.NoError(t, err)
	assert.Len(t, rooms, 3, "half-open ranges: checkout day is free")
}
