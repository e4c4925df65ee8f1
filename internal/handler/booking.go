package handler

import (
	"context"      // bounds DB work per request
	"database/sql" // sql.ErrNoRows for missing rows
	"errors"       // errors.Is for sentinel mapping
	"net/http"     // HTTP status codes
	"time"         // request timeouts

	"github.com/labstack/echo/v4" // web framework

	"github.com/iliyamo/event-booking-waitlist/internal/booking"
	"github.com/iliyamo/event-booking-waitlist/internal/model"
	"github.com/iliyamo/event-booking-waitlist/internal/repository"
)

// BookingHandler exposes the booking lifecycle over HTTP: create,
// cancel, manual promote, plus the caller's own bookings and
// notifications.  All admission and promotion rules live in the
// booking.Controller; this layer only translates transport.
type BookingHandler struct {
	Engine        *booking.Controller
	Bookings      *repository.BookingRepo
	Notifications *repository.NotificationRepo
}

func NewBookingHandler(engine *booking.Controller, bookings *repository.BookingRepo, notifications *repository.NotificationRepo) *BookingHandler {
	if engine == nil || bookings == nil || notifications == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Engine: engine, Bookings: bookings, Notifications: notifications}
}

type createBookingReq struct {
	EventID uint64 `json:"event_id"`
}

type bookingResp struct {
	ID        uint64    `json:"id"`
	EventID   uint64    `json:"event_id"`
	UserID    uint64    `json:"user_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toBookingResp(b *model.Booking) bookingResp {
	return bookingResp{
		ID:        b.ID,
		EventID:   b.EventID,
		UserID:    b.UserID,
		Status:    string(b.Status),
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// engineError maps engine and repository sentinels onto HTTP responses.
// Unknown errors fall through to a 500.
func engineError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, booking.ErrMissingReference):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, repository.ErrEventNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, booking.ErrNotOwner), errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	case errors.Is(err, booking.ErrConcurrencyConflict),
		errors.Is(err, booking.ErrEventFull),
		errors.Is(err, booking.ErrTerminalStatus):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

// Create books the caller onto an event.  The response status field
// tells the client whether they were confirmed or waitlisted; both
// outcomes are a 201 since a booking row was created either way.
func (h *BookingHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tenantID, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Engine.Create(ctx, req.EventID, uid, tenantID)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusCreated, toBookingResp(b))
}

// Cancel cancels the caller's booking.  Canceling an already canceled
// booking is a no-op and still returns 200 with the current state.
func (h *BookingHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Engine.Cancel(ctx, id, uid)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// Promote is the organizer override that confirms a waitlisted booking
// out of FIFO order, provided a seat is open.  Route middleware limits
// this to ORGANIZER and ADMIN roles.
func (h *BookingHandler) Promote(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	b, err := h.Engine.Promote(ctx, id)
	if err != nil {
		return engineError(c, err)
	}
	return c.JSON(http.StatusOK, toBookingResp(b))
}

// MyBookings lists the caller's bookings with event titles, newest first.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Bookings.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"bookings": items})
}

// MyNotifications lists the caller's notifications, newest first.
func (h *BookingHandler) MyNotifications(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Notifications.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	type notifResp struct {
		ID        uint64    `json:"id"`
		BookingID uint64    `json:"booking_id"`
		Type      string    `json:"type"`
		Title     string    `json:"title"`
		Message   string    `json:"message"`
		Read      bool      `json:"read"`
		CreatedAt time.Time `json:"created_at"`
	}
	out := make([]notifResp, 0, len(items))
	for _, n := range items {
		out = append(out, notifResp{
			ID:        n.ID,
			BookingID: n.BookingID,
			Type:      string(n.Type),
			Title:     n.Title,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"notifications": out})
}

// MarkNotificationRead marks one of the caller's notifications as read.
// Marking an already-read notification succeeds without change.
func (h *BookingHandler) MarkNotificationRead(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid notification id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Notifications.MarkRead(ctx, id, uid); err != nil {
		switch {
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, sql.ErrNoRows):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "notification not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
