// Package booking implements the admission-control and waitlist
// engine: the rules that decide a new booking's status, the FIFO
// promotion of waitlisted bookings when a confirmed seat is freed,
// and the side effects (audit log entry + user notification) that
// accompany every status transition.
package booking

import "errors"

// ErrMissingReference is returned when a creation request lacks the
// event or user reference. Handlers should translate this into an
// HTTP 400 response.
var ErrMissingReference = errors.New("event and user references are required")

// ErrNotOwner is returned when a caller attempts to cancel a booking
// they do not own. Nothing is mutated. Maps to HTTP 403.
var ErrNotOwner = errors.New("booking belongs to another user")

// ErrConcurrencyConflict is returned after the bounded retry around a
// serialized section is exhausted without the conflict clearing. The
// request failed but nothing was overbooked. Maps to HTTP 409.
var ErrConcurrencyConflict = errors.New("conflicting concurrent update, try again")

// ErrEventFull is returned by the manual promote override when the
// event has no free seat for the promotion. Maps to HTTP 409.
var ErrEventFull = errors.New("event is at capacity")

// ErrTerminalStatus is returned when an operation targets a canceled
// booking; canceled is terminal and retained for history only.
var ErrTerminalStatus = errors.New("booking is canceled and cannot change")
