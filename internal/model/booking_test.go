package model

import "testing"

func TestBookingStatusValid(t *testing.T) {
	for _, s := range []BookingStatus{StatusConfirmed, StatusWaitlisted, StatusCanceled} {
		if !s.Valid() {
			t.Fatalf("%q should be valid", s)
		}
	}
	for _, s := range []BookingStatus{"", "pending", "CONFIRMED"} {
		if s.Valid() {
			t.Fatalf("%q should be invalid", s)
		}
	}
}

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		from, to BookingStatus
		want     bool
	}{
		{StatusConfirmed, StatusCanceled, true},
		{StatusWaitlisted, StatusCanceled, true},
		{StatusWaitlisted, StatusConfirmed, true},
		{StatusConfirmed, StatusWaitlisted, false},
		{StatusCanceled, StatusConfirmed, false},
		{StatusCanceled, StatusWaitlisted, false},
		{StatusCanceled, StatusCanceled, false},
	}
	for _, tc := range tests {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("CanTransitionTo(%q -> %q) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
	if !StatusCanceled.Terminal() {
		t.Fatal("canceled must be terminal")
	}
	if StatusConfirmed.Terminal() || StatusWaitlisted.Terminal() {
		t.Fatal("only canceled is terminal")
	}
}

func TestEnumStringValues(t *testing.T) {
	// Wire values are part of the schema and the broker contract.
	if StatusConfirmed != "confirmed" || StatusWaitlisted != "waitlisted" || StatusCanceled != "canceled" {
		t.Fatal("booking status wire values changed")
	}
	if ActionPromote != "promote_from_waitlist" || ActionCancelConfirmed != "cancel_confirmed" {
		t.Fatal("log action wire values changed")
	}
	if NotifyPromoted != "waitlist_promoted" || NotifyCanceled != "booking_canceled" {
		t.Fatal("notification type wire values changed")
	}
}
