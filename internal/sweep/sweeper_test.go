package sweep

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hafizalkariem/rental-ps-server/internal/model"
)

type fakeEvents struct {
	events  map[uint64]*model.Event
	listErr error
	failIDs map[uint64]bool
}

func (f *fakeEvents) SweepDue(_ context.Context, now time.Time) ([]model.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []model.Event{}
	for _, e := range f.events {
		if (e.Status == model.EventStatusUpcoming || e.Status == model.EventStatusOngoing) &&
			!e.EventDate.After(now) {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEvents) AdvanceStatus(_ context.Context, id uint64, from, to string) error {
	if f.failIDs[id] {
		return errors.New("boom")
	}
	if e, ok := f.events[id]; ok && e.Status == from {
		e.Status = to
	}
	return nil
}

type fakeBookings struct {
	bookings map[uint64]*model.Booking
}

func (f *fakeBookings) SweepDue(_ context.Context, now time.Time) ([]model.Booking, error) {
	out := []model.Booking{}
	for _, b := range f.bookings {
		if (b.Status == model.BookingStatusConfirmed || b.Status == model.BookingStatusInProgress) &&
			!b.BookingDate.After(now) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (f *fakeBookings) AdvanceStatus(_ context.Context, id uint64, from, to string) error {
	if b, ok := f.bookings[id]; ok && b.Status == from {
		b.Status = to
	}
	return nil
}

var day = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func newSweeper(ev *fakeEvents, bk *fakeBookings) *Sweeper {
	if ev == nil {
		ev = &fakeEvents{events: map[uint64]*model.Event{}}
	}
	if bk == nil {
		bk = &fakeBookings{bookings: map[uint64]*model.Booking{}}
	}
	return New(bk, ev, nil, time.UTC)
}

func TestEventTransitions(t *testing.T) {
	ev := &fakeEvents{events: map[uint64]*model.Event{
		// started an hour ago, ends in an hour: upcoming -> ongoing
		1: {ID: 1, Status: model.EventStatusUpcoming, EventDate: day, StartMinutes: 11 * 60, EndMinutes: 13 * 60},
		// ended already: ongoing -> completed
		2: {ID: 2, Status: model.EventStatusOngoing, EventDate: day, StartMinutes: 8 * 60, EndMinutes: 10 * 60},
		// not started yet: untouched
		3: {ID: 3, Status: model.EventStatusUpcoming, EventDate: day, StartMinutes: 15 * 60, EndMinutes: 17 * 60},
		// cancelled: never auto-advanced
		4: {ID: 4, Status: model.EventStatusCancelled, EventDate: day, StartMinutes: 8 * 60, EndMinutes: 10 * 60},
	}}
	s := newSweeper(ev, nil)
	now := day.Add(12 * time.Hour) // 2025-06-01 12:00 UTC
	s.Tick(context.Background(), now)

	if got := ev.events[1].Status; got != model.EventStatusOngoing {
		t.Errorf("event 1 = %s, want ongoing", got)
	}
	if got := ev.events[2].Status; got != model.EventStatusCompleted {
		t.Errorf("event 2 = %s, want completed", got)
	}
	if got := ev.events[3].Status; got != model.EventStatusUpcoming {
		t.Errorf("event 3 = %s, want upcoming", got)
	}
	if got := ev.events[4].Status; got != model.EventStatusCancelled {
		t.Errorf("event 4 = %s, want cancelled", got)
	}
}

func TestEventCatchUpAfterDowntime(t *testing.T) {
	// whole window was missed; a single pass lands the event in completed
	ev := &fakeEvents{events: map[uint64]*model.Event{
		1: {ID: 1, Status: model.EventStatusUpcoming, EventDate: day, StartMinutes: 9 * 60, EndMinutes: 10 * 60},
	}}
	s := newSweeper(ev, nil)
	s.Tick(context.Background(), day.Add(20*time.Hour))
	if got := ev.events[1].Status; got != model.EventStatusCompleted {
		t.Errorf("event 1 = %s, want completed after catch-up", got)
	}
}

func TestTickIdempotent(t *testing.T) {
	ev := &fakeEvents{events: map[uint64]*model.Event{
		1: {ID: 1, Status: model.EventStatusUpcoming, EventDate: day, StartMinutes: 11 * 60, EndMinutes: 13 * 60},
	}}
	bk := &fakeBookings{bookings: map[uint64]*model.Booking{
		1: {ID: 1, Status: model.BookingStatusConfirmed, BookingDate: day, StartMinutes: 11 * 60, DurationHours: 2},
	}}
	s := newSweeper(ev, bk)
	now := day.Add(12 * time.Hour)

	s.Tick(context.Background(), now)
	first := []string{ev.events[1].Status, bk.bookings[1].Status}
	s.Tick(context.Background(), now)
	second := []string{ev.events[1].Status, bk.bookings[1].Status}

	if first[0] != second[0] || first[1] != second[1] {
		t.Errorf("second tick changed state: %v -> %v", first, second)
	}
	if first[0] != model.EventStatusOngoing || first[1] != model.BookingStatusInProgress {
		t.Errorf("unexpected states after tick: %v", first)
	}
}

func TestBookingTransitions(t *testing.T) {
	bk := &fakeBookings{bookings: map[uint64]*model.Booking{
		// session window covers now: confirmed -> in_progress
		1: {ID: 1, Status: model.BookingStatusConfirmed, BookingDate: day, StartMinutes: 11 * 60, DurationHours: 2},
		// session over: in_progress -> completed
		2: {ID: 2, Status: model.BookingStatusInProgress, BookingDate: day, StartMinutes: 9 * 60, DurationHours: 1},
		// pending is never advanced by time; confirmation is a staff act
		3: {ID: 3, Status: model.BookingStatusPending, BookingDate: day, StartMinutes: 11 * 60, DurationHours: 1},
		// confirmed but window fully missed: straight to completed
		4: {ID: 4, Status: model.BookingStatusConfirmed, BookingDate: day, StartMinutes: 8 * 60, DurationHours: 1},
	}}
	s := newSweeper(nil, bk)
	s.Tick(context.Background(), day.Add(12*time.Hour))

	if got := bk.bookings[1].Status; got != model.BookingStatusInProgress {
		t.Errorf("booking 1 = %s, want in_progress", got)
	}
	if got := bk.bookings[2].Status; got != model.BookingStatusCompleted {
		t.Errorf("booking 2 = %s, want completed", got)
	}
	if got := bk.bookings[3].Status; got != model.BookingStatusPending {
		t.Errorf("booking 3 = %s, want pending", got)
	}
	if got := bk.bookings[4].Status; got != model.BookingStatusCompleted {
		t.Errorf("booking 4 = %s, want completed", got)
	}
}

func TestPerRecordErrorIsolation(t *testing.T) {
	ev := &fakeEvents{
		events: map[uint64]*model.Event{
			1: {ID: 1, Status: model.EventStatusOngoing, EventDate: day, StartMinutes: 8 * 60, EndMinutes: 9 * 60},
			2: {ID: 2, Status: model.EventStatusOngoing, EventDate: day, StartMinutes: 8 * 60, EndMinutes: 9 * 60},
		},
		failIDs: map[uint64]bool{1: true},
	}
	s := newSweeper(ev, nil)
	s.Tick(context.Background(), day.Add(12*time.Hour))

	if got := ev.events[2].Status; got != model.EventStatusCompleted {
		t.Errorf("event 2 = %s, want completed despite event 1 failing", got)
	}
	if got := ev.events[1].Status; got != model.EventStatusOngoing {
		t.Errorf("event 1 = %s, want unchanged after failed advance", got)
	}
}

func TestListFailureDoesNotPanic(t *testing.T) {
	ev := &fakeEvents{events: map[uint64]*model.Event{}, listErr: errors.New("db down")}
	bk := &fakeBookings{bookings: map[uint64]*model.Booking{
		1: {ID: 1, Status: model.BookingStatusInProgress, BookingDate: day, StartMinutes: 8 * 60, DurationHours: 1},
	}}
	s := newSweeper(ev, bk)
	// events listing fails; bookings are still swept
	s.Tick(context.Background(), day.Add(12*time.Hour))
	if got := bk.bookings[1].Status; got != model.BookingStatusCompleted {
		t.Errorf("booking 1 = %s, want completed", got)
	}
}
