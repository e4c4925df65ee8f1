package booking

import (
	"testing"

	"github.com/iliyamo/event-booking-waitlist/internal/model"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name      string
		capacity  int
		confirmed int
		want      model.BookingStatus
	}{
		{"empty event", 5, 0, model.StatusConfirmed},
		{"last seat", 5, 4, model.StatusConfirmed},
		{"exactly full", 5, 5, model.StatusWaitlisted},
		{"overfull", 5, 6, model.StatusWaitlisted},
		{"capacity one free", 1, 0, model.StatusConfirmed},
		{"capacity one taken", 1, 1, model.StatusWaitlisted},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Decide(tc.capacity, tc.confirmed)
			if got != tc.want {
				t.Fatalf("Decide(%d, %d) = %q, want %q", tc.capacity, tc.confirmed, got, tc.want)
			}
		})
	}
}
