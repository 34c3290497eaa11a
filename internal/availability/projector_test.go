package availability

import (
	"testing"

	"github.com/hafizalkariem/rental-ps-server/internal/model"
	"github.com/hafizalkariem/rental-ps-server/internal/repository"
	"github.com/hafizalkariem/rental-ps-server/internal/timeslot"
)

func healthyResource(id uint64) model.Resource {
	return model.Resource{
		ID:            id,
		ConsoleName:   "PS5 #1",
		ConsoleType:   model.ConsoleTypePS5,
		ConsoleStatus: model.ConsoleStatusAvailable,
		StationName:   "Station 1",
		IsActive:      true,
	}
}

func slotStatus(t *testing.T, rows []ResourceGrid, resourceID uint64, start string) string {
	t.Helper()
	for _, row := range rows {
		if row.ResourceID != resourceID {
			continue
		}
		for _, s := range row.Slots {
			if s.Start == start {
				return s.Status
			}
		}
	}
	t.Fatalf("slot %s for resource %d not found", start, resourceID)
	return ""
}

func TestProjectFreeAndBooked(t *testing.T) {
	res := []model.Resource{healthyResource(1)}
	occ := []repository.OccupiedInterval{
		{ConsoleStationID: 1, BookingID: 42, Interval: timeslot.New(600, 2)}, // [10:00,12:00)
	}
	rows := Project(res, occ, 10, 22)
	if len(rows) != 1 || len(rows[0].Slots) != 12 {
		t.Fatalf("unexpected grid shape: %d rows", len(rows))
	}
	if got := slotStatus(t, rows, 1, "10:00"); got != SlotBooked {
		t.Errorf("10:00 = %s, want booked", got)
	}
	if got := slotStatus(t, rows, 1, "11:00"); got != SlotBooked {
		t.Errorf("11:00 = %s, want booked", got)
	}
	// half-open: the 12:00 slot is free
	if got := slotStatus(t, rows, 1, "12:00"); got != SlotFree {
		t.Errorf("12:00 = %s, want free", got)
	}
	if got := slotStatus(t, rows, 1, "21:00"); got != SlotFree {
		t.Errorf("21:00 = %s, want free", got)
	}
	if !rows[0].Bookable {
		t.Error("healthy resource should be bookable")
	}
}

func TestProjectMaintenanceSuppression(t *testing.T) {
	broken := healthyResource(2)
	broken.ConsoleStatus = model.ConsoleStatusMaintenance
	rows := Project([]model.Resource{broken}, nil, 10, 22)
	for _, s := range rows[0].Slots {
		if s.Status != SlotUnavailable {
			t.Fatalf("slot %s = %s, want unavailable", s.Start, s.Status)
		}
	}
	if rows[0].Bookable {
		t.Error("maintenance resource must not be bookable")
	}
}

func TestProjectInactiveSuppression(t *testing.T) {
	off := healthyResource(3)
	off.IsActive = false
	rows := Project([]model.Resource{off}, nil, 10, 22)
	if got := rows[0].Slots[0].Status; got != SlotUnavailable {
		t.Errorf("inactive resource slot = %s, want unavailable", got)
	}
}

func TestProjectBookedWinsOverUnavailable(t *testing.T) {
	// a booking taken before the console went to maintenance still renders
	// as booked; the row-level flag carries the unavailable signal
	broken := healthyResource(4)
	broken.ConsoleStatus = model.ConsoleStatusMaintenance
	occ := []repository.OccupiedInterval{
		{ConsoleStationID: 4, BookingID: 7, Interval: timeslot.New(780, 1)}, // [13:00,14:00)
	}
	rows := Project([]model.Resource{broken}, occ, 10, 22)
	if got := slotStatus(t, rows, 4, "13:00"); got != SlotBooked {
		t.Errorf("13:00 = %s, want booked", got)
	}
	if got := slotStatus(t, rows, 4, "14:00"); got != SlotUnavailable {
		t.Errorf("14:00 = %s, want unavailable", got)
	}
	if rows[0].Bookable {
		t.Error("row must remain not bookable")
	}
}

func TestProjectOccupiedStatusAdvisoryOnly(t *testing.T) {
	// operational status "occupied" does not blank the calendar
	busy := healthyResource(5)
	busy.ConsoleStatus = model.ConsoleStatusOccupied
	rows := Project([]model.Resource{busy}, nil, 10, 22)
	if got := rows[0].Slots[0].Status; got != SlotFree {
		t.Errorf("occupied console slot = %s, want free", got)
	}
	if !rows[0].Bookable {
		t.Error("occupied console should still accept reservations")
	}
}

func TestProjectIsolatesResources(t *testing.T) {
	res := []model.Resource{healthyResource(1), healthyResource(2)}
	occ := []repository.OccupiedInterval{
		{ConsoleStationID: 1, BookingID: 9, Interval: timeslot.New(600, 2)},
	}
	rows := Project(res, occ, 10, 22)
	if got := slotStatus(t, rows, 2, "10:00"); got != SlotFree {
		t.Errorf("resource 2 10:00 = %s, want free (booking on resource 1)", got)
	}
}
