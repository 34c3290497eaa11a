// Package repository defines the error taxonomy shared by all data access
// code. Sentinel values let handlers map failure scenarios onto HTTP
// responses without inspecting SQL details, and ConflictError carries the
// colliding interval so a booking conflict can be rendered to the caller
// without a second availability round trip.
package repository

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"

	"github.com/hafizalkariem/rental-ps-server/internal/timeslot"
)

// ErrNotFound is returned when a booking, event, console, station or
// resource id does not exist. Handlers translate it into HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// record they do not own. Handlers translate it into HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a delete or update cannot proceed because of
// dependent state, such as removing a console-station pairing that still
// has live bookings. Handlers translate it into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrInvalidTransition is returned when a status change is forbidden by the
// booking or event state machine.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrResourceUnavailable is returned when a booking targets an inactive
// pairing or a console flagged for maintenance. The ledger rejects these at
// write time rather than leaving the filtering to the UI.
var ErrResourceUnavailable = errors.New("resource not bookable")

// ErrEmailExists is returned by UserRepo.Create when the email is taken.
var ErrEmailExists = errors.New("email already exists")

// ConflictError reports that a requested interval overlaps an existing
// non-terminal booking on the same resource and date. Retrying the same
// request can never succeed; the caller must pick a different slot.
type ConflictError struct {
	ConsoleStationID uint64
	BookingDate      string // YYYY-MM-DD
	Requested        timeslot.Interval
	Existing         timeslot.Interval
	ExistingID       uint64
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("booking conflict on resource %d (%s): requested %s collides with %s (booking %d)",
		e.ConsoleStationID, e.BookingDate, e.Requested, e.Existing, e.ExistingID)
}

// isDuplicateKey reports a MySQL unique-key violation (error 1062).
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

// Retryable reports whether err is MySQL lock contention (deadlock or lock
// wait timeout) that is safe to retry with the same arguments. Each attempt
// is a fresh transaction, so a retry re-reads a consistent view.
func Retryable(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1213 || me.Number == 1205
	}
	return false
}
