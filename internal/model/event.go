package model

import "time"

// Event lifecycle states as stored in events.status.  upcoming→ongoing→
// completed transitions are driven purely by wall-clock time; cancelled is
// only ever set by explicit staff action.
const (
	EventStatusUpcoming  = "upcoming"
	EventStatusOngoing   = "ongoing"
	EventStatusCompleted = "completed"
	EventStatusCancelled = "cancelled"
)

// Event is a calendar item (tournament, launch night, ...) with its own
// time-driven state machine.  Events do not occupy a console resource and
// carry no overlap invariant; any number may share a window.
//
// Fields:
//  ID              – primary key identifier.
//  Title           – event title.
//  Description     – longer description for listings.
//  Type            – free-form category (tournament, promo, ...).
//  EventDate       – calendar date of the event.
//  StartMinutes    – start time, minutes from midnight.
//  EndMinutes      – end time, minutes from midnight.
//  MaxParticipants – participant cap (0 = unlimited).
//  EntryFeeCents   – entry fee in the smallest currency unit.
//  PrizePoolCents  – advertised prize pool.
//  Status          – lifecycle state.
//  IsFeatured      – pinned on the landing page.
//  CreatedAt       – timestamp of creation.
//  UpdatedAt       – timestamp of last update.
type Event struct {
	ID              uint64    // events.id
	Title           string    // events.title
	Description     string    // events.description
	Type            string    // events.type
	EventDate       time.Time // events.event_date
	StartMinutes    int       // events.start_minutes
	EndMinutes      int       // events.end_minutes
	MaxParticipants uint32    // events.max_participants
	EntryFeeCents   uint32    // events.entry_fee_cents
	PrizePoolCents  uint32    // events.prize_pool_cents
	Status          string    // events.status
	IsFeatured      bool      // events.is_featured
	CreatedAt       time.Time // events.created_at
	UpdatedAt       time.Time // events.updated_at
}

// StartsAt anchors the event's start time onto its date in the given
// location.  The sweep compares these instants against its single per-pass
// "now".
func (e Event) StartsAt(loc *time.Location) time.Time {
	return anchor(e.EventDate, e.StartMinutes, loc)
}

// EndsAt anchors the event's end time onto its date.
func (e Event) EndsAt(loc *time.Location) time.Time {
	return anchor(e.EventDate, e.EndMinutes, loc)
}

func anchor(date time.Time, minutes int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(date.Year(), date.Month(), date.Day(), 0, minutes, 0, 0, loc)
}

// CanTransitionEvent reports whether an explicit status change between
// event states is legal.  Time only ever moves an event forward
// (upcoming→ongoing→completed); staff may cancel from upcoming or ongoing
// and may also move an event forward by hand, but terminal states are
// final.
func CanTransitionEvent(from, to string) bool {
	if from == to {
		return false
	}
	switch from {
	case EventStatusUpcoming:
		return to == EventStatusOngoing || to == EventStatusCompleted || to == EventStatusCancelled
	case EventStatusOngoing:
		return to == EventStatusCompleted || to == EventStatusCancelled
	}
	return false
}

// ValidEventStatus reports whether s names a known event state.
func ValidEventStatus(s string) bool {
	switch s {
	case EventStatusUpcoming, EventStatusOngoing, EventStatusCompleted, EventStatusCancelled:
		return true
	}
	return false
}
