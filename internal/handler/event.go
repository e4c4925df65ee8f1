package handler

import (
	"context"  // bounds DB work per request
	"net/http" // HTTP status codes
	"strings"  // input trimming
	"time"     // request timeouts and starts_at parsing

	"github.com/labstack/echo/v4" // web framework

	"github.com/iliyamo/event-booking-waitlist/internal/model"
	"github.com/iliyamo/event-booking-waitlist/internal/repository"
)

// EventHandler exposes event management and read endpoints.  Writes are
// restricted to organizers by route middleware; reads are tenant-scoped.
type EventHandler struct {
	Events   *repository.EventRepo
	Bookings *repository.BookingRepo
	Logs     *repository.BookingLogRepo
}

func NewEventHandler(events *repository.EventRepo, bookings *repository.BookingRepo, logs *repository.BookingLogRepo) *EventHandler {
	if events == nil || bookings == nil || logs == nil {
		panic("nil repository passed to NewEventHandler")
	}
	return &EventHandler{Events: events, Bookings: bookings, Logs: logs}
}

type createEventReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Capacity    int    `json:"capacity"`
	StartsAt    string `json:"starts_at"` // RFC 3339
}

type eventResp struct {
	ID          uint64    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Capacity    int       `json:"capacity"`
	StartsAt    time.Time `json:"starts_at"`
	OrganizerID uint64    `json:"organizer_id"`
	TenantID    uint64    `json:"tenant_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func toEventResp(ev *model.Event) eventResp {
	return eventResp{
		ID:          ev.ID,
		Title:       ev.Title,
		Description: ev.Description,
		Capacity:    ev.Capacity,
		StartsAt:    ev.StartsAt,
		OrganizerID: ev.OrganizerID,
		TenantID:    ev.TenantID,
		CreatedAt:   ev.CreatedAt,
	}
}

// Create registers a new event owned by the calling organizer.  Capacity
// must be at least 1; a zero-capacity event could never confirm anyone
// and is rejected up front.
func (h *EventHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	tenantID, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req createEventReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title required"})
	}
	if req.Capacity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be >= 1"})
	}
	startsAt, err := time.Parse(time.RFC3339, strings.TrimSpace(req.StartsAt))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC 3339"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ev := &model.Event{
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		Capacity:    req.Capacity,
		StartsAt:    startsAt.UTC(),
		OrganizerID: uid,
		TenantID:    tenantID,
	}
	if err := h.Events.Create(ctx, ev); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create event failed"})
	}
	return c.JSON(http.StatusCreated, toEventResp(ev))
}

// List returns all events belonging to the caller's tenant.
func (h *EventHandler) List(c echo.Context) error {
	tenantID, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	events, err := h.Events.ListByTenant(ctx, tenantID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]eventResp, 0, len(events))
	for i := range events {
		out = append(out, toEventResp(&events[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"events": out})
}

// Get returns a single event.  Events outside the caller's tenant are
// reported as not found rather than forbidden, so the endpoint does not
// leak which IDs exist in other tenants.
func (h *EventHandler) Get(c echo.Context) error {
	tenantID, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if ev.TenantID != tenantID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	return c.JSON(http.StatusOK, toEventResp(ev))
}

// Dashboard returns per-status booking counts for an event plus the
// number of seats still open.  Organizers use this to monitor demand.
func (h *EventHandler) Dashboard(c echo.Context) error {
	tenantID, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if ev.TenantID != tenantID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}

	confirmed, err := h.Bookings.CountByStatus(ctx, id, model.StatusConfirmed)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	waitlisted, err := h.Bookings.CountByStatus(ctx, id, model.StatusWaitlisted)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	canceled, err := h.Bookings.CountByStatus(ctx, id, model.StatusCanceled)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	remaining := ev.Capacity - confirmed
	if remaining < 0 {
		remaining = 0
	}
	return c.JSON(http.StatusOK, echo.Map{
		"event_id":        ev.ID,
		"capacity":        ev.Capacity,
		"confirmed":       confirmed,
		"waitlisted":      waitlisted,
		"canceled":        canceled,
		"seats_remaining": remaining,
	})
}

// ListLogs returns the audit trail for an event, oldest entry first.
func (h *EventHandler) ListLogs(c echo.Context) error {
	tenantID, err := getTenantID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid event id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ev, err := h.Events.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrEventNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if ev.TenantID != tenantID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}

	logs, err := h.Logs.ListByEvent(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	type logResp struct {
		ID        uint64    `json:"id"`
		BookingID uint64    `json:"booking_id"`
		UserID    uint64    `json:"user_id"`
		Action    string    `json:"action"`
		Note      string    `json:"note,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}
	out := make([]logResp, 0, len(logs))
	for _, l := range logs {
		out = append(out, logResp{
			ID:        l.ID,
			BookingID: l.BookingID,
			UserID:    l.UserID,
			Action:    string(l.Action),
			Note:      l.Note,
			CreatedAt: l.CreatedAt,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"logs": out})
}
