// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and the booking engine to distinguish between different
// failure scenarios. For example, ErrEventNotFound maps to an HTTP 404
// while ErrCapacityTaken signals that a conditional insert lost a race
// for the last seat and should be retried.
package repository

import (
	"errors"
	"strings"
)

// ErrEventNotFound is returned when a referenced event does not exist.
var ErrEventNotFound = errors.New("event not found")

// ErrBookingNotFound is returned when a referenced booking does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrForbidden is returned when the caller attempts an operation
// on a resource they do not own. Handlers should translate this
// into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrCapacityTaken is returned by the conditional booking insert when
// the event's confirmed count reached capacity between the caller's
// admission read and the write. The caller should re-run the
// admission decision.
var ErrCapacityTaken = errors.New("event capacity already taken")

// ErrStatusChanged is returned by the compare-and-set status update
// when the booking's status no longer matches the expected value,
// e.g. two cancellations racing to promote the same waitlisted entry.
var ErrStatusChanged = errors.New("booking status changed concurrently")

// IsRetryable reports whether err is a transient conflict worth
// re-running the serialized section for: our own conditional-write
// sentinels, or MySQL deadlock (1213) / lock wait timeout (1205).
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrCapacityTaken) || errors.Is(err, ErrStatusChanged) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Error 1213") || strings.Contains(msg, "Error 1205")
}
