// Package timeslot provides the pure time arithmetic used by the booking
// engine.  An interval is expressed as minutes from midnight on a single
// operating day, with the end always derived from start + duration so a stale
// stored end time can never disagree with the duration.
package timeslot

import (
	"errors"
	"fmt"
)

// MinutesPerHour is the slot granularity used throughout the rental floor.
// Bookings are requested in whole hours even though intervals are stored
// with minute precision.
const MinutesPerHour = 60

// ErrBadClock is returned when a clock string cannot be parsed as HH:MM.
var ErrBadClock = errors.New("invalid clock value, want HH:MM")

// Interval is a half-open [Start, End) span on a single day, in minutes
// from midnight.  A booking that ends at 12:00 does not collide with one
// starting at 12:00.
type Interval struct {
	Start int // minutes from midnight, inclusive
	End   int // minutes from midnight, exclusive
}

// New builds an Interval from a start offset and a duration in hours.
// The end offset is computed here and nowhere else.
func New(startMin, durationHours int) Interval {
	return Interval{Start: startMin, End: startMin + durationHours*MinutesPerHour}
}

// Overlaps reports whether two intervals on the same resource and date
// collide under half-open semantics.
func (i Interval) Overlaps(other Interval) bool {
	return i.Start < other.End && other.Start < i.End
}

// Contains reports whether the given offset falls inside the interval.
func (i Interval) Contains(min int) bool {
	return min >= i.Start && min < i.End
}

// Duration returns the interval length in minutes.
func (i Interval) Duration() int { return i.End - i.Start }

func (i Interval) String() string {
	return Clock(i.Start) + "-" + Clock(i.End)
}

// ParseClock converts an "HH:MM" string into minutes from midnight.
// Seconds are not accepted; the booking UI only ever submits HH:MM.
func ParseClock(s string) (int, error) {
	if len(s) != 5 || s[2] != ':' {
		return 0, ErrBadClock
	}
	h, okH := twoDigits(s[0], s[1])
	m, okM := twoDigits(s[3], s[4])
	if !okH || !okM || h > 23 || m > 59 {
		return 0, ErrBadClock
	}
	return h*MinutesPerHour + m, nil
}

// Clock renders minutes from midnight back as "HH:MM".  Offsets at or past
// 24:00 (a booking running to close of day) render as 24:00 style values so
// that interval ends stay monotonic.
func Clock(min int) string {
	if min < 0 {
		min = 0
	}
	return fmt.Sprintf("%02d:%02d", min/MinutesPerHour, min%MinutesPerHour)
}

func twoDigits(a, b byte) (int, bool) {
	if a < '0' || a > '9' || b < '0' || b > '9' {
		return 0, false
	}
	return int(a-'0')*10 + int(b-'0'), true
}

// Slots returns the hourly slot starts between open and close, as minutes
// from midnight.  open and close are hours of day; a 10..22 window yields
// twelve one-hour slots, the last starting at 21:00.
func Slots(openHour, closeHour int) []Interval {
	if closeHour <= openHour {
		return nil
	}
	out := make([]Interval, 0, closeHour-openHour)
	for h := openHour; h < closeHour; h++ {
		out = append(out, New(h*MinutesPerHour, 1))
	}
	return out
}
