package model

import "time"

// ConsoleStation assigns a console to a station and is the unit the
// reservation ledger books against.  Booking console C at station S1 never
// blocks console C at station S2; each pairing has its own calendar.
// Rows are created by admins and must not be silently removed while
// non-terminal bookings reference them.
//
// Fields:
//  ID        – primary key identifier; the opaque "resource id" used by the ledger.
//  ConsoleID – console mounted at the station.
//  StationID – station the console is mounted at.
//  IsActive  – whether the pairing is currently bookable.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type ConsoleStation struct {
	ID        uint64    // console_stations.id
	ConsoleID uint64    // console_stations.console_id
	StationID uint64    // console_stations.station_id
	IsActive  bool      // console_stations.is_active
	CreatedAt time.Time // console_stations.created_at
	UpdatedAt time.Time // console_stations.updated_at
}

// Resource joins a console-station pairing with the catalog details the
// availability projector needs to decide whether the pairing is bookable at
// all.  It is a read model produced by ResourceRepo.
type Resource struct {
	ID              uint64 // console_stations.id
	ConsoleID       uint64
	ConsoleName     string
	ConsoleType     string
	ConsoleStatus   string
	HourlyRateCents uint32
	StationID       uint64
	StationName     string
	StationLocation string
	IsActive        bool // pairing, console and station are all active
}

// Bookable reports whether the resource may accept new reservations:
// the pairing and both catalog rows are active and the console is not
// flagged for maintenance.
func (r Resource) Bookable() bool {
	return r.IsActive && r.ConsoleStatus != ConsoleStatusMaintenance
}
