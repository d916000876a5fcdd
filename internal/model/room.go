package model

import "time"

// Room represents a bookable room as stored in the `rooms` table.
// Prices are stored in cents to avoid floating point drift; the
// handler layer converts to and from decimal representations when
// talking to clients.
//
// Fields:
//  ID         – primary key identifier of the room.
//  Name       – display name of the room.
//  PriceCents – nightly price in cents (>= 0).
//  Capacity   – maximum number of guests (> 0).
//  CreatedAt  – timestamp of creation.
//  UpdatedAt  – timestamp of last update.
type Room struct {
	ID         uint64    // rooms.id
	Name       string    // rooms.name
	PriceCents uint32    // rooms.price_cents
	Capacity   uint32    // rooms.capacity
	CreatedAt  time.Time // rooms.created_at
	UpdatedAt  time.Time // rooms.updated_at
}

// RoomFilter carries the optional query filters for listing rooms.
// Nil pointers mean the corresponding filter is not applied.  When
// both StartDate and EndDate are set, the listing is restricted to
// rooms with no overlapping active booking in [StartDate, EndDate).
type RoomFilter struct {
	MinPriceCents *uint32    // price_cents >= MinPriceCents
	MaxPriceCents *uint32    // price_cents <= MaxPriceCents
	MinCapacity   *uint32    // capacity >= MinCapacity
	StartDate     *time.Time // availability window start (inclusive)
	EndDate       *time.Time // availability window end (exclusive)
}
