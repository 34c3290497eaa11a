// Package sweep advances booking and event records through their lifecycle
// as wall-clock time passes.  A single pass reads "now" once, so no record
// can straddle the boundary mid-pass, and each record is advanced with a
// guarded status update, so running a pass twice is a no-op.  Per-record
// failures are logged and skipped; one bad row never aborts the rest of the
// pass.
package sweep

import (
	"context"
	"log"
	"time"

	"github.com/hafizalkariem/rental-ps-server/internal/clock"
	"github.com/hafizalkariem/rental-ps-server/internal/model"
)

// BookingStore is the slice of the booking repository the sweeper needs.
type BookingStore interface {
	SweepDue(ctx context.Context, now time.Time) ([]model.Booking, error)
	AdvanceStatus(ctx context.Context, id uint64, from, to string) error
}

// EventStore is the slice of the event repository the sweeper needs.
type EventStore interface {
	SweepDue(ctx context.Context, now time.Time) ([]model.Event, error)
	AdvanceStatus(ctx context.Context, id uint64, from, to string) error
}

// Invalidator drops cached availability after the sweep mutates booking
// state.  Optional.
type Invalidator interface {
	InvalidateDate(ctx context.Context, date time.Time)
}

// Sweeper runs the time-driven status transitions.
type Sweeper struct {
	Bookings BookingStore
	Events   EventStore
	Clock    clock.Clock
	Loc      *time.Location
	Cache    Invalidator // may be nil
}

// New constructs a Sweeper.  loc is the operating timezone used to anchor
// date+minutes fields onto instants.
func New(bookings BookingStore, events EventStore, clk clock.Clock, loc *time.Location) *Sweeper {
	if loc == nil {
		loc = time.UTC
	}
	return &Sweeper{Bookings: bookings, Events: events, Clock: clk, Loc: loc}
}

// Run ticks the sweeper at the given interval until ctx is cancelled.
// Sweeps are time-driven, not edge-triggered: a missed interval simply
// catches up in full on the next pass.
func (s *Sweeper) Run(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.Tick(ctx, s.Clock.Now())
		}
	}
}

// Tick performs one sweep pass against the single given "now".  It is the
// entry point for both the internal ticker and an external scheduler.
func (s *Sweeper) Tick(ctx context.Context, now time.Time) {
	s.sweepEvents(ctx, now)
	s.sweepBookings(ctx, now)
}

func (s *Sweeper) sweepEvents(ctx context.Context, now time.Time) {
	due, err := s.Events.SweepDue(ctx, now)
	if err != nil {
		log.Printf("sweeper: list events failed: %v", err)
		return
	}
	for _, e := range due {
		from, to := e.Status, ""
		switch e.Status {
		case model.EventStatusUpcoming:
			switch {
			case !now.Before(e.EndsAt(s.Loc)):
				// never started its ongoing phase while we were down; jump
				// straight to completed so state fully catches up in one pass
				to = model.EventStatusCompleted
			case !now.Before(e.StartsAt(s.Loc)):
				to = model.EventStatusOngoing
			}
		case model.EventStatusOngoing:
			if !now.Before(e.EndsAt(s.Loc)) {
				to = model.EventStatusCompleted
			}
		}
		if to == "" {
			continue
		}
		if err := s.Events.AdvanceStatus(ctx, e.ID, from, to); err != nil {
			log.Printf("sweeper: event %d %s->%s failed: %v", e.ID, from, to, err)
		}
	}
}

func (s *Sweeper) sweepBookings(ctx context.Context, now time.Time) {
	due, err := s.Bookings.SweepDue(ctx, now)
	if err != nil {
		log.Printf("sweeper: list bookings failed: %v", err)
		return
	}
	for _, b := range due {
		from, to := b.Status, ""
		switch b.Status {
		case model.BookingStatusConfirmed:
			switch {
			case !now.Before(b.EndsAt(s.Loc)):
				to = model.BookingStatusCompleted
			case !now.Before(b.StartsAt(s.Loc)):
				to = model.BookingStatusInProgress
			}
		case model.BookingStatusInProgress:
			if !now.Before(b.EndsAt(s.Loc)) {
				to = model.BookingStatusCompleted
			}
		}
		if to == "" {
			continue
		}
		if err := s.Bookings.AdvanceStatus(ctx, b.ID, from, to); err != nil {
			log.Printf("sweeper: booking %d %s->%s failed: %v", b.ID, from, to, err)
			continue
		}
		if s.Cache != nil {
			s.Cache.InvalidateDate(ctx, b.BookingDate)
		}
	}
}
