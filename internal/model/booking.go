package model

import "time"

// Booking lifecycle states as stored in bookings.status.
const (
	BookingStatusPending    = "pending"
	BookingStatusConfirmed  = "confirmed"
	BookingStatusInProgress = "in_progress"
	BookingStatusCompleted  = "completed"
	BookingStatusCancelled  = "cancelled"
)

// Payment labels as stored in bookings.payment_status.  Payment status is a
// label, not a state machine: any value may follow any value.
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// MinDurationHours and MaxDurationHours bound a single reservation.
const (
	MinDurationHours = 1
	MaxDurationHours = 12
)

// Booking records a reservation of a console-station resource for a
// contiguous block of hours on a single date.  Exactly one of UserID or the
// walk-in customer fields is set; this is enforced at creation, not by the
// schema.  EndMinutes is derived from StartMinutes + DurationHours on every
// save and is never trusted as independently authoritative.
//
// Fields:
//  ID               – primary key identifier.
//  Code             – opaque reference code handed to the customer.
//  ConsoleStationID – resource being reserved.
//  UserID           – registered customer (nil for walk-ins).
//  CustomerName     – walk-in name (empty for registered users).
//  CustomerPhone    – walk-in phone.
//  CustomerEmail    – walk-in email.
//  BookingDate      – calendar date of the session (00:00 operating TZ).
//  StartMinutes     – start of the interval, minutes from midnight.
//  EndMinutes       – derived end of the interval.
//  DurationHours    – whole hours reserved, 1..12.
//  TotalAmountCents – price quote: hourly rate × duration.
//  Status           – lifecycle state (see constants above).
//  PaymentStatus    – payment label.
//  Notes            – free-text staff notes.
//  CreatedAt        – timestamp of creation.
//  UpdatedAt        – timestamp of last update.
type Booking struct {
	ID               uint64    // bookings.id
	Code             string    // bookings.code
	ConsoleStationID uint64    // bookings.console_station_id
	UserID           *uint64   // bookings.user_id (nullable)
	CustomerName     string    // bookings.customer_name
	CustomerPhone    string    // bookings.customer_phone
	CustomerEmail    string    // bookings.customer_email
	BookingDate      time.Time // bookings.booking_date
	StartMinutes     int       // bookings.start_minutes
	EndMinutes       int       // bookings.end_minutes (derived)
	DurationHours    int       // bookings.duration_hours
	TotalAmountCents uint32    // bookings.total_amount_cents
	Status           string    // bookings.status
	PaymentStatus    string    // bookings.payment_status
	Notes            string    // bookings.notes
	CreatedAt        time.Time // bookings.created_at
	UpdatedAt        time.Time // bookings.updated_at
}

// StartsAt anchors the booked interval's start onto the booking date in
// the operating timezone.
func (b Booking) StartsAt(loc *time.Location) time.Time {
	return anchor(b.BookingDate, b.StartMinutes, loc)
}

// EndsAt anchors the derived end of the interval onto the booking date.
// Always computed from start + duration, never from a stored end column.
func (b Booking) EndsAt(loc *time.Location) time.Time {
	return anchor(b.BookingDate, b.StartMinutes+b.DurationHours*60, loc)
}

// bookingRank orders the natural lifecycle so explicit staff overrides may
// jump forward (pending straight to completed is allowed) but never back.
var bookingRank = map[string]int{
	BookingStatusPending:    0,
	BookingStatusConfirmed:  1,
	BookingStatusInProgress: 2,
	BookingStatusCompleted:  3,
}

// CanTransitionBooking reports whether an explicit status change from one
// booking state to another is legal.  Cancellation is only reachable from
// pending or confirmed; a session that has started or finished can no
// longer be cancelled.  Terminal states accept no further changes.
func CanTransitionBooking(from, to string) bool {
	if from == to {
		return false
	}
	switch from {
	case BookingStatusCancelled, BookingStatusCompleted:
		return false
	}
	if to == BookingStatusCancelled {
		return from == BookingStatusPending || from == BookingStatusConfirmed
	}
	fromRank, okF := bookingRank[from]
	toRank, okT := bookingRank[to]
	if !okF || !okT {
		return false
	}
	return toRank > fromRank
}

// ValidBookingStatus reports whether s names a known booking state.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusInProgress,
		BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// ValidPaymentStatus reports whether s names a known payment label.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// BookingTerminal reports whether a state excludes the booking from the
// overlap invariant.  Slots held by cancelled or completed bookings are
// free to be reserved again.
func BookingTerminal(s string) bool {
	return s == BookingStatusCancelled || s == BookingStatusCompleted
}
