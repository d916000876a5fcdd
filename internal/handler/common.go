package handler // handler defines http handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-booking-api/internal/model"
	"github.com/iliyamo/room-booking-api/internal/service"
)

// dateLayout is the wire format for calendar dates. Bookings carry
// dates only, no time component.
const dateLayout = "2006-01-02"

// getUserID extracts the user_id from echo.Context and converts it to
// uint64. JWT numeric claims arrive as float64; string subjects are
// parsed for compatibility.
func getUserID(c echo.Context) (uint64, error) {
	v := c.Get("user_id")
	switch t := v.(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// getActor builds the service-layer caller identity from the claims
// the JWT middleware stored in the context.
func getActor(c echo.Context) (service.Actor, error) {
	uid, err := getUserID(c)
	if err != nil {
		return service.Actor{}, err
	}
	role, _ := c.Get("role").(string)
	return service.Actor{UserID: uid, Role: role}, nil
}

// parseDate parses a YYYY-MM-DD string into a UTC midnight time.Time.
func parseDate(s string) (time.Time, error) {
	return time.ParseInLocation(dateLayout, s, time.UTC)
}

// parsePriceCents converts a decimal price string such as "100" or
// "99.50" into cents.
func parsePriceCents(s string) (uint32, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f < 0 || f > math.MaxUint32/100 {
		return 0, errors.New("price out of range")
	}
	return uint32(math.Round(f * 100)), nil
}

// domainStatus maps booking service errors onto HTTP status codes.
// Unknown errors fall through to 500 so store failures surface as a
// generic server-side error without leaking internals.
func domainStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrBookingNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrPastDateRange),
		errors.Is(err, service.ErrRoomUnavailable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// domainError writes the standard error payload for a service failure.
func domainError(c echo.Context, err error) error {
	status := domainStatus(err)
	if status == http.StatusInternalServerError {
		return c.JSON(status, echo.Map{"error": "internal error"})
	}
	return c.JSON(status, echo.Map{"error": err.Error()})
}

// bookingView is the external representation of a booking. Only the
// opaque public UUID identifies it; the internal key stays private.
type bookingView struct {
	BookingID string `json:"booking_id"`
	RoomID    uint64 `json:"room_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Status    string `json:"status"`
}

func newBookingView(b model.Booking) bookingView {
	return bookingView{
		BookingID: b.PublicID,
		RoomID:    b.RoomID,
		StartDate: b.StartDate.Format(dateLayout),
		EndDate:   b.EndDate.Format(dateLayout),
		Status:    string(b.Status),
	}
}

// roomView is the external representation of a room. The price is
// exposed both in cents and as a decimal per-night amount.
type roomView struct {
	ID            uint64  `json:"id"`
	Name          string  `json:"name"`
	PriceCents    uint32  `json:"price_cents"`
	PricePerNight float64 `json:"price_per_night"`
	Capacity      uint32  `json:"capacity"`
}

func newRoomView(r model.Room) roomView {
	return roomView{
		ID:            r.ID,
		Name:          r.Name,
		PriceCents:    r.PriceCents,
		PricePerNight: float64(r.PriceCents) / 100,
		Capacity:      r.Capacity,
	}
}
