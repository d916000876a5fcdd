package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-booking-api/internal/model"
	"github.com/iliyamo/room-booking-api/internal/repository"
	"github.com/iliyamo/room-booking-api/internal/service"
)

// RoomHandler exposes room browsing and administrative room creation.
// Browsing goes through the booking service; creation talks to the
// room repository directly since no domain rules beyond field
// validation apply.
type RoomHandler struct {
	Svc   *service.BookingService
	Rooms *repository.RoomRepo
}

// NewRoomHandler constructs a RoomHandler. Both dependencies must be
// non-nil.
func NewRoomHandler(svc *service.BookingService, rooms *repository.RoomRepo) *RoomHandler {
	if svc == nil || rooms == nil {
		panic("nil dependency passed to NewRoomHandler")
	}
	return &RoomHandler{Svc: svc, Rooms: rooms}
}

// List handles GET /v1/rooms. Optional query parameters:
//
//	min_price, max_price – decimal nightly price bounds
//	min_capacity         – minimum guest capacity
//	start_date, end_date – restrict to rooms available for [start, end)
//
// Price and capacity values that fail to parse are rejected with 400.
// Date values that fail to parse (or an inverted pair) make the date
// filter a no-op instead of an error; room browsing stays permissive
// while booking creation stays strict.
func (h *RoomHandler) List(c echo.Context) error {
	var f model.RoomFilter

	if s := strings.TrimSpace(c.QueryParam("min_price")); s != "" {
		cents, err := parsePriceCents(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_price"})
		}
		f.MinPriceCents = &cents
	}
	if s := strings.TrimSpace(c.QueryParam("max_price")); s != "" {
		cents, err := parsePriceCents(s)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid max_price"})
		}
		f.MaxPriceCents = &cents
	}
	if s := strings.TrimSpace(c.QueryParam("min_capacity")); s != "" {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid min_capacity"})
		}
		cap32 := uint32(n)
		f.MinCapacity = &cap32
	}
	if startStr, endStr := c.QueryParam("start_date"), c.QueryParam("end_date"); startStr != "" && endStr != "" {
		start, errS := parseDate(startStr)
		end, errE := parseDate(endStr)
		if errS == nil && errE == nil && start.Before(end) {
			f.StartDate = &start
			f.EndDate = &end
		}
	}

	rooms, err := h.Svc.ListRooms(c.Request().Context(), f)
	if err != nil {
		return domainError(c, err)
	}
	items := make([]roomView, 0, len(rooms))
	for _, r := range rooms {
		items = append(items, newRoomView(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

type createRoomReq struct {
	Name     string `json:"name"`
	Price    string `json:"price_per_night"`
	Capacity uint32 `json:"capacity"`
}

// AdminCreate handles POST /v1/admin/rooms. Only administrators reach
// this handler (enforced by the role middleware). Capacity must be
// positive and the nightly price non-negative; the price is accepted
// as a decimal string to avoid float round-tripping in clients.
func (h *RoomHandler) AdminCreate(c echo.Context) error {
	var req createRoomReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}
	cents, err := parsePriceCents(req.Price)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price_per_night"})
	}

	room := model.Room{Name: req.Name, PriceCents: cents, Capacity: req.Capacity}
	if err := h.Rooms.Create(c.Request().Context(), &room); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create room failed"})
	}
	return c.JSON(http.StatusCreated, newRoomView(room))
}
