// Package repository contains data access logic for the booking domain.
// This file covers the 'rooms' table: lookups, filtered listings and
// administrative creation. Rooms are immutable once created except for
// administrative edits; they are never deleted while referenced by a
// booking.
package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/room-booking-api/internal/model"
)

// RoomRepo manages persistence for rooms.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a new RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

// DB exposes the underlying sql.DB. It allows callers to begin
// transactions spanning multiple repositories.
func (r *RoomRepo) DB() *sql.DB { return r.db }

const roomColumns = "id, name, price_cents, capacity, created_at, updated_at"

func scanRoom(row interface{ Scan(...any) error }) (model.Room, error) {
	var rm model.Room
	err := row.Scan(&rm.ID, &rm.Name, &rm.PriceCents, &rm.Capacity, &rm.CreatedAt, &rm.UpdatedAt)
	return rm, err
}

// GetByID fetches a single room. It returns ErrRoomNotFound when the
// id matches no row.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (model.Room, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+roomColumns+" FROM rooms WHERE id=? LIMIT 1", id)
	rm, err := scanRoom(row)
	if err == sql.ErrNoRows {
		return model.Room{}, ErrRoomNotFound
	}
	return rm, err
}

// Create inserts a room and populates its generated ID. Capacity and
// price validity (capacity > 0, price >= 0) are enforced by the
// handler before reaching the store; the schema additionally carries
// CHECK constraints.
func (r *RoomRepo) Create(ctx context.Context, rm *model.Room) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO rooms (name, price_cents, capacity) VALUES (?,?,?)",
		rm.Name, rm.PriceCents, rm.Capacity)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	rm.ID = uint64(id)
	row := r.db.QueryRowContext(ctx,
		"SELECT "+roomColumns+" FROM rooms WHERE id=? LIMIT 1", rm.ID)
	*rm, err = scanRoom(row)
	return err
}

// List returns rooms matching the given filter, ordered by id. Price
// and capacity filters become simple comparisons. When the filter
// carries a date range, rooms with an active booking overlapping
// [StartDate, EndDate) are excluded via a NOT EXISTS subquery using
// the half-open overlap predicate, so availability filtering happens
// in one round trip against the committed state.
func (r *RoomRepo) List(ctx context.Context, f model.RoomFilter) ([]model.Room, error) {
	where := []string{}
	args := []any{}

	if f.MinPriceCents != nil {
		where = append(where, "r.price_cents >= ?")
		args = append(args, *f.MinPriceCents)
	}
	if f.MaxPriceCents != nil {
		where = append(where, "r.price_cents <= ?")
		args = append(args, *f.MaxPriceCents)
	}
	if f.MinCapacity != nil {
		where = append(where, "r.capacity >= ?")
		args = append(args, *f.MinCapacity)
	}
	if f.StartDate != nil && f.EndDate != nil {
		where = append(where, `NOT EXISTS (
			SELECT 1 FROM bookings b
			WHERE b.room_id = r.id
			  AND b.status = 'ACTIVE'
			  AND b.start_date < ?
			  AND b.end_date > ?
		)`)
		args = append(args, *f.EndDate, *f.StartDate)
	}

	cond := "1=1"
	if len(where) > 0 {
		cond = strings.Join(where, " AND ")
	}

	q := `SELECT r.id, r.name, r.price_cents, r.capacity, r.created_at, r.updated_at
		FROM rooms r
		WHERE ` + cond + `
		ORDER BY r.id`
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Room, 0)
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rm)
	}
	return out, rows.Err()
}
