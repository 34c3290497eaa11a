package model

import (
	"testing"
	"time"
)

func TestCanTransitionBooking(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		// natural order
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusConfirmed, BookingStatusInProgress, true},
		{BookingStatusInProgress, BookingStatusCompleted, true},
		// staff overrides may jump forward
		{BookingStatusPending, BookingStatusInProgress, true},
		{BookingStatusPending, BookingStatusCompleted, true},
		{BookingStatusConfirmed, BookingStatusCompleted, true},
		// but never backwards
		{BookingStatusConfirmed, BookingStatusPending, false},
		{BookingStatusInProgress, BookingStatusConfirmed, false},
		// cancellation only before the session starts
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusCancelled, true},
		{BookingStatusInProgress, BookingStatusCancelled, false},
		{BookingStatusCompleted, BookingStatusCancelled, false},
		// terminal states are final
		{BookingStatusCancelled, BookingStatusPending, false},
		{BookingStatusCancelled, BookingStatusConfirmed, false},
		{BookingStatusCompleted, BookingStatusInProgress, false},
		// no-op and unknown values
		{BookingStatusPending, BookingStatusPending, false},
		{BookingStatusPending, "archived", false},
		{"archived", BookingStatusConfirmed, false},
	}
	for _, tc := range cases {
		if got := CanTransitionBooking(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransitionBooking(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestCanTransitionEvent(t *testing.T) {
	cases := []struct {
		from, to string
		want     bool
	}{
		{EventStatusUpcoming, EventStatusOngoing, true},
		{EventStatusOngoing, EventStatusCompleted, true},
		{EventStatusUpcoming, EventStatusCompleted, true},
		{EventStatusUpcoming, EventStatusCancelled, true},
		{EventStatusOngoing, EventStatusCancelled, true},
		{EventStatusCompleted, EventStatusCancelled, false},
		{EventStatusCancelled, EventStatusUpcoming, false},
		{EventStatusCompleted, EventStatusOngoing, false},
		{EventStatusOngoing, EventStatusUpcoming, false},
		{EventStatusUpcoming, EventStatusUpcoming, false},
	}
	for _, tc := range cases {
		if got := CanTransitionEvent(tc.from, tc.to); got != tc.want {
			t.Errorf("CanTransitionEvent(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestBookingTerminal(t *testing.T) {
	for s, want := range map[string]bool{
		BookingStatusPending:    false,
		BookingStatusConfirmed:  false,
		BookingStatusInProgress: false,
		BookingStatusCompleted:  true,
		BookingStatusCancelled:  true,
	} {
		if got := BookingTerminal(s); got != want {
			t.Errorf("BookingTerminal(%s) = %v, want %v", s, got, want)
		}
	}
}

func TestEventAnchoring(t *testing.T) {
	loc := time.UTC
	e := Event{
		EventDate:    time.Date(2025, 6, 1, 0, 0, 0, 0, loc),
		StartMinutes: 18 * 60,
		EndMinutes:   21 * 60,
	}
	if got := e.StartsAt(loc); !got.Equal(time.Date(2025, 6, 1, 18, 0, 0, 0, loc)) {
		t.Errorf("StartsAt = %v", got)
	}
	if got := e.EndsAt(loc); !got.Equal(time.Date(2025, 6, 1, 21, 0, 0, 0, loc)) {
		t.Errorf("EndsAt = %v", got)
	}
	// a past-midnight end offset lands on the following day
	e.EndMinutes = 25 * 60
	if got := e.EndsAt(loc); !got.Equal(time.Date(2025, 6, 2, 1, 0, 0, 0, loc)) {
		t.Errorf("EndsAt past midnight = %v", got)
	}
}
