// Package clock abstracts wall-clock access so the sweep and availability
// logic can be driven by a deterministic time source in tests.  The rental
// floor operates in a single fixed timezone; every caller reads time through
// a Clock rather than calling time.Now directly.
package clock

import "time"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// System reads the real wall clock in the given location.
type System struct {
	Loc *time.Location
}

// NewSystem returns a system clock pinned to the named IANA timezone.
// An unknown name falls back to UTC.
func NewSystem(tz string) System {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	return System{Loc: loc}
}

// Now returns the current time in the operating timezone.
func (s System) Now() time.Time {
	loc := s.Loc
	if loc == nil {
		loc = time.UTC
	}
	return time.Now().In(loc)
}

// Fixed always reports the same instant.  Test helper.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }
