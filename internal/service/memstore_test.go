package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iliyamo/room-booking-api/internal/model"
	"github.com/iliyamo/room-booking-api/internal/repository"
)

// memStore is an in-memory stand-in for the room and booking
// repositories. It honours the same contract as the SQL
// implementation: Create refuses a booking that would overlap an
// active one of the same room, returning repository.ErrOverlap, and
// all mutations are serialized by a mutex.
type memStore struct {
	mu       sync.Mutex
	rooms    map[uint64]model.Room
	bookings []model.Booking
	nextID   uint64
}

func newMemStore() *memStore {
	return &memStore{rooms: make(map[uint64]model.Room)}
}

func (m *memStore) addRoom(r model.Room) model.Room {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r.ID == 0 {
		r.ID = uint64(len(m.rooms) + 1)
	}
	m.rooms[r.ID] = r
	return r
}

// --- RoomStore ---

func (m *memStore) GetByID(_ context.Context, id uint64) (model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.rooms[id]
	if !ok {
		return model.Room{}, repository.ErrRoomNotFound
	}
	return r, nil
}

func (m *memStore) List(_ context.Context, f model.RoomFilter) ([]model.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Room, 0)
	for id := uint64(1); id <= uint64(len(m.rooms)); id++ {
		r, ok := m.rooms[id]
		if !ok {
			continue
		}
		if f.MinPriceCents != nil && r.PriceCents < *f.MinPriceCents {
			continue
		}
		if f.MaxPriceCents != nil && r.PriceCents > *f.MaxPriceCents {
			continue
		}
		if f.MinCapacity != nil && r.Capacity < *f.MinCapacity {
			continue
		}
		if f.StartDate != nil && f.EndDate != nil && m.overlapCountLocked(r.ID, *f.StartDate, *f.EndDate) > 0 {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// --- BookingStore ---

func (m *memStore) overlapCountLocked(roomID uint64, start, end time.Time) int {
	n := 0
	for _, b := range m.bookings {
		if b.RoomID == roomID && b.Status == model.StatusActive &&
			model.Overlaps(b.StartDate, b.EndDate, start, end) {
			n++
		}
	}
	return n
}

func (m *memStore) CountActiveOverlapping(_ context.Context, roomID uint64, start, end time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.overlapCountLocked(roomID, start, end), nil
}

func (m *memStore) Create(_ context.Context, b *model.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.overlapCountLocked(b.RoomID, b.StartDate, b.EndDate) > 0 {
		return repository.ErrOverlap
	}
	m.nextID++
	b.ID = m.nextID
	b.CreatedAt = time.Now().UTC()
	b.UpdatedAt = b.CreatedAt
	m.bookings = append(m.bookings, *b)
	return nil
}

func (m *memStore) FindByPublicID(_ context.Context, publicID string) (model.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.PublicID == publicID {
			return b, nil
		}
	}
	return model.Booking{}, repository.ErrBookingNotFound
}

func (m *memStore) UpdateStatus(_ context.Context, id uint64, from, to model.BookingStatus) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.bookings {
		if m.bookings[i].ID == id && m.bookings[i].Status == from {
			m.bookings[i].Status = to
			m.bookings[i].UpdatedAt = time.Now().UTC()
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) detailLocked(b model.Booking) repository.BookingDetail {
	r := m.rooms[b.RoomID]
	return repository.BookingDetail{
		PublicID:   b.PublicID,
		RoomID:     b.RoomID,
		RoomName:   r.Name,
		UserID:     b.UserID,
		UserEmail:  fmt.Sprintf("user-%d@example.com", b.UserID),
		StartDate:  b.StartDate.Format("2006-01-02"),
		EndDate:    b.EndDate.Format("2006-01-02"),
		Status:     b.Status,
		PriceCents: r.PriceCents,
		CreatedAt:  b.CreatedAt,
	}
}

func (m *memStore) ListByUser(_ context.Context, userID uint64, status *model.BookingStatus) ([]repository.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]repository.BookingDetail, 0)
	for _, b := range m.bookings {
		if b.UserID != userID {
			continue
		}
		if status != nil && b.Status != *status {
			continue
		}
		out = append(out, m.detailLocked(b))
	}
	return out, nil
}

func (m *memStore) ListAll(_ context.Context) ([]repository.BookingDetail, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]repository.BookingDetail, 0, len(m.bookings))
	for _, b := range m.bookings {
		out = append(out, m.detailLocked(b))
	}
	return out, nil
}
