package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/room-booking-api/internal/model"
)

// BookingRepo provides CRUD operations for bookings. Bookings are
// never physically deleted; cancellation flips the status column and
// the row is retained for history. Date columns hold calendar dates
// (no time component) and are read back as UTC midnight thanks to the
// parseTime/loc DSN options.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying sql.DB for callers that need transaction
// control spanning repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

const bookingColumns = "id, public_id, user_id, room_id, start_date, end_date, status, created_at, updated_at"

func scanBooking(row interface{ Scan(...any) error }) (model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.PublicID, &b.UserID, &b.RoomID,
		&b.StartDate, &b.EndDate, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// Create inserts a booking, guaranteeing the overlap invariant for its
// room. The check and the insert run inside one serializable
// transaction: the locking SELECT takes next-key locks on the
// (room_id, status, start_date, end_date) index range it scans, so a
// concurrent conflicting insert blocks until this transaction commits
// and then observes the new row. If a conflicting active booking is
// found, ErrOverlap is returned and nothing is written.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	const overlapQ = `SELECT id FROM bookings
		WHERE room_id = ? AND status = 'ACTIVE'
		  AND start_date < ? AND end_date > ?
		LIMIT 1 FOR UPDATE`
	var conflict uint64
	err = tx.QueryRowContext(ctx, overlapQ, b.RoomID, b.EndDate, b.StartDate).Scan(&conflict)
	switch {
	case err == nil:
		return ErrOverlap
	case err != sql.ErrNoRows:
		return err
	}

	const ins = `INSERT INTO bookings (public_id, user_id, room_id, start_date, end_date, status)
		VALUES (?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, ins,
		b.PublicID, b.UserID, b.RoomID, b.StartDate, b.EndDate, b.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	b.ID = uint64(id)

	// Query back the full row to populate timestamps and defaults.
	row := tx.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id = ?", b.ID)
	if *b, err = scanBooking(row); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// CountActiveOverlapping returns how many active bookings of the room
// intersect the half-open range [start, end). It reads committed state
// only; the authoritative race-free check lives in Create.
func (r *BookingRepo) CountActiveOverlapping(ctx context.Context, roomID uint64, start, end time.Time) (int, error) {
	const q = `SELECT COUNT(*) FROM bookings
		WHERE room_id = ? AND status = 'ACTIVE'
		  AND start_date < ? AND end_date > ?`
	var n int
	err := r.db.QueryRowContext(ctx, q, roomID, end, start).Scan(&n)
	return n, err
}

// FindByPublicID fetches a booking by its opaque public identifier.
// It returns ErrBookingNotFound when no row matches.
func (r *BookingRepo) FindByPublicID(ctx context.Context, publicID string) (model.Booking, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE public_id = ? LIMIT 1", publicID)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return model.Booking{}, ErrBookingNotFound
	}
	return b, err
}

// UpdateStatus performs a compare-and-set on the status column. It
// returns true when the row was transitioned, false when the booking
// was no longer in the expected `from` status (e.g. two cancel
// requests racing); the loser of such a race simply observes zero
// affected rows instead of overwriting the other's update.
func (r *BookingRepo) UpdateStatus(ctx context.Context, id uint64, from, to model.BookingStatus) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE bookings SET status = ? WHERE id = ? AND status = ?",
		to, id, from)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// BookingDetail joins a booking with its room name and owner email for
// display. Customers receive their own bookings in this shape; admins
// receive every user's.
type BookingDetail struct {
	PublicID   string              `json:"booking_id"`
	RoomID     uint64              `json:"room_id"`
	RoomName   string              `json:"room_name"`
	UserID     uint64              `json:"user_id"`
	UserEmail  string              `json:"user_email"`
	StartDate  string              `json:"start_date"`
	EndDate    string              `json:"end_date"`
	Status     model.BookingStatus `json:"status"`
	PriceCents uint32              `json:"price_per_night_cents"`
	CreatedAt  time.Time           `json:"created_at"`
}

const detailQ = `SELECT b.public_id, b.room_id, r.name, b.user_id, u.email,
		DATE_FORMAT(b.start_date, '%Y-%m-%d'), DATE_FORMAT(b.end_date, '%Y-%m-%d'),
		b.status, r.price_cents, b.created_at
	FROM bookings b
	JOIN rooms r ON r.id = b.room_id
	JOIN users u ON u.id = b.user_id`

func collectDetails(rows *sql.Rows) ([]BookingDetail, error) {
	defer rows.Close()
	out := make([]BookingDetail, 0)
	for rows.Next() {
		var d BookingDetail
		if err := rows.Scan(&d.PublicID, &d.RoomID, &d.RoomName, &d.UserID, &d.UserEmail,
			&d.StartDate, &d.EndDate, &d.Status, &d.PriceCents, &d.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListByUser returns a user's bookings, newest first. When status is
// non-nil only bookings in that status are returned.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64, status *model.BookingStatus) ([]BookingDetail, error) {
	q := detailQ + " WHERE b.user_id = ?"
	args := []any{userID}
	if status != nil {
		q += " AND b.status = ?"
		args = append(args, *status)
	}
	q += " ORDER BY b.created_at DESC, b.id DESC"
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return collectDetails(rows)
}

// ListAll returns every booking of every user regardless of status,
// newest first. Reserved for administrators.
func (r *BookingRepo) ListAll(ctx context.Context) ([]BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx, detailQ+" ORDER BY b.created_at DESC, b.id DESC")
	if err != nil {
		return nil, err
	}
	return collectDetails(rows)
}
