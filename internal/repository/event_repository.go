package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/event-booking-waitlist/internal/model"
)

// EventRepo provides persistence for events.  Events are read-only
// from the booking engine's perspective; only organizer endpoints
// create them.  All timestamp fields are assumed to be stored in UTC.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns a new EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions
// spanning multiple repositories.
func (r *EventRepo) DB() *sql.DB { return r.db }

// Create inserts a new event and populates the generated ID and
// timestamps on the provided record.  Capacity must already be
// validated (>= 1) by the caller.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
	const q = `INSERT INTO events (title, description, capacity, starts_at, organizer_id, tenant_id)
	           VALUES (?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, ev.Title, ev.Description, ev.Capacity, ev.StartsAt.UTC(), ev.OrganizerID, ev.TenantID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = uint64(id)
	const sel = `SELECT created_at, updated_at FROM events WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, ev.ID).Scan(&ev.CreatedAt, &ev.UpdatedAt)
}

// GetByID returns a single event or ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	const q = `SELECT id, title, description, capacity, starts_at, organizer_id, tenant_id, created_at, updated_at
	           FROM events WHERE id = ?`
	var ev model.Event
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&ev.ID, &ev.Title, &ev.Description, &ev.Capacity, &ev.StartsAt,
		&ev.OrganizerID, &ev.TenantID, &ev.CreatedAt, &ev.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &ev, nil
}

// ListByTenant returns all events for a tenant ordered by start time
// ascending.  When none exist an empty slice is returned.
func (r *EventRepo) ListByTenant(ctx context.Context, tenantID uint64) ([]model.Event, error) {
	const q = `SELECT id, title, description, capacity, starts_at, organizer_id, tenant_id, created_at, updated_at
	           FROM events WHERE tenant_id = ? ORDER BY starts_at ASC`
	rows, err := r.db.QueryContext(ctx, q, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	events := make([]model.Event, 0)
	for rows.Next() {
		var ev model.Event
		if err := rows.Scan(
			&ev.ID, &ev.Title, &ev.Description, &ev.Capacity, &ev.StartsAt,
			&ev.OrganizerID, &ev.TenantID, &ev.CreatedAt, &ev.UpdatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
