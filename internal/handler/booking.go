package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-booking-api/internal/queue"
	"github.com/iliyamo/room-booking-api/internal/service"
)

// BookingHandler exposes the booking service operations over HTTP.
// All routes assume the JWT middleware already ran, so the actor can
// be reconstructed from the context claims. Event publishing is best
// effort: a broker outage never fails a request that already
// committed.
type BookingHandler struct {
	Svc *service.BookingService
}

// NewBookingHandler constructs a BookingHandler. The service must be
// non-nil.
func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{Svc: svc}
}

type createBookingReq struct {
	RoomID    uint64 `json:"room_id"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// Create handles POST /v1/bookings. The body carries a room id and a
// half-open date range; on success the new booking is returned with
// status 201. Dates that fail to parse are rejected exactly like an
// inverted range, per the validation order of the booking rules.
func (h *BookingHandler) Create(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if req.RoomID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "room_id is required"})
	}
	start, err := parseDate(req.StartDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": service.ErrInvalidDateRange.Error()})
	}
	end, err := parseDate(req.EndDate)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": service.ErrInvalidDateRange.Error()})
	}

	b, err := h.Svc.CreateBooking(c.Request().Context(), actor, req.RoomID, start, end)
	if err != nil {
		return domainError(c, err)
	}

	go publishEvent(queue.EventBookingCreated, b.PublicID, b.UserID, b.RoomID,
		b.StartDate.Format(dateLayout), b.EndDate.Format(dateLayout), string(b.Status))

	return c.JSON(http.StatusCreated, newBookingView(b))
}

// List handles GET /v1/bookings. Customers see their own active
// bookings; administrators see every booking of every user.
func (h *BookingHandler) List(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	items, err := h.Svc.ListBookings(c.Request().Context(), actor)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// Cancel handles DELETE /v1/bookings/:id where :id is the booking's
// public UUID. Owners and administrators may cancel; everyone else
// receives 404 indistinguishable from a nonexistent id. Re-cancelling
// an already cancelled booking succeeds and re-confirms the terminal
// status.
func (h *BookingHandler) Cancel(c echo.Context) error {
	actor, err := getActor(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	publicID := c.Param("id")
	if publicID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	b, err := h.Svc.CancelBooking(c.Request().Context(), actor, publicID)
	if err != nil {
		return domainError(c, err)
	}

	go publishEvent(queue.EventBookingCancelled, b.PublicID, b.UserID, b.RoomID,
		b.StartDate.Format(dateLayout), b.EndDate.Format(dateLayout), string(b.Status))

	return c.JSON(http.StatusOK, newBookingView(b))
}

// contextWithPublishTimeout bounds event publishing independently of
// the request, which has usually completed by the time the publish
// goroutine runs.
func contextWithPublishTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

// publishEvent fires a booking event with a short standalone timeout;
// errors are already logged by the publisher and intentionally
// dropped here.
func publishEvent(eventType, bookingID string, userID, roomID uint64, start, end, status string) {
	ctx, cancel := contextWithPublishTimeout()
	defer cancel()
	_ = queue.PublishBookingEvent(ctx, queue.BookingEvent{
		Type:       eventType,
		BookingID:  bookingID,
		UserID:     userID,
		RoomID:     roomID,
		StartDate:  start,
		EndDate:    end,
		Status:     status,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})
}
