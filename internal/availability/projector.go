// Package availability derives the per-hour occupancy grid shown by
// booking UIs.  The projection is a pure, stateless function of the
// resource catalog and the ledger's occupied intervals; it is recomputed on
// every query and holds no state of its own.  Any caching happens above
// this package and is invalidated by the booking write path.
package availability

import (
	"github.com/hafizalkariem/rental-ps-server/internal/model"
	"github.com/hafizalkariem/rental-ps-server/internal/repository"
	"github.com/hafizalkariem/rental-ps-server/internal/timeslot"
)

// Slot states in the rendered grid.
const (
	SlotFree        = "free"
	SlotBooked      = "booked"
	SlotUnavailable = "unavailable"
)

// Slot is one hour of one resource's day.
type Slot struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	Status    string `json:"status"`
	BookingID uint64 `json:"booking_id,omitempty"`
}

// ResourceGrid is the full day row for one console-station pairing.
type ResourceGrid struct {
	ResourceID      uint64 `json:"resource_id"`
	ConsoleName     string `json:"console_name"`
	ConsoleType     string `json:"console_type"`
	ConsoleStatus   string `json:"console_status"`
	StationName     string `json:"station_name"`
	HourlyRateCents uint32 `json:"hourly_rate_cents"`
	Bookable        bool   `json:"bookable"`
	Slots           []Slot `json:"slots"`
}

// Project renders the grid for one date.  Slots covered by a non-terminal
// booking are "booked"; remaining slots of a resource that is inactive or
// whose console is not operational are "unavailable"; everything else is
// "free".  Booked takes display precedence over unavailable, but the
// resource-level Bookable flag still tells the caller the pairing cannot
// take new reservations.  The slot grid is the operating window sliced
// into one-hour steps.
func Project(resources []model.Resource, occupied []repository.OccupiedInterval, openHour, closeHour int) []ResourceGrid {
	grid := timeslot.Slots(openHour, closeHour)

	byResource := make(map[uint64][]repository.OccupiedInterval, len(resources))
	for _, oi := range occupied {
		byResource[oi.ConsoleStationID] = append(byResource[oi.ConsoleStationID], oi)
	}

	out := make([]ResourceGrid, 0, len(resources))
	for _, res := range resources {
		// a console flagged occupied is still schedulable for later hours;
		// only maintenance and inactive flags suppress the whole row
		operational := res.IsActive && res.ConsoleStatus != model.ConsoleStatusMaintenance
		row := ResourceGrid{
			ResourceID:      res.ID,
			ConsoleName:     res.ConsoleName,
			ConsoleType:     res.ConsoleType,
			ConsoleStatus:   res.ConsoleStatus,
			StationName:     res.StationName,
			HourlyRateCents: res.HourlyRateCents,
			Bookable:        res.Bookable(),
			Slots:           make([]Slot, 0, len(grid)),
		}
		for _, slot := range grid {
			s := Slot{
				Start:  timeslot.Clock(slot.Start),
				End:    timeslot.Clock(slot.End),
				Status: SlotFree,
			}
			if !operational {
				s.Status = SlotUnavailable
			}
			for _, oi := range byResource[res.ID] {
				if slot.Overlaps(oi.Interval) {
					s.Status = SlotBooked
					s.BookingID = oi.BookingID
					break
				}
			}
			row.Slots = append(row.Slots, s)
		}
		out = append(out, row)
	}
	return out
}
