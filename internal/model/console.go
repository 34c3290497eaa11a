package model

import "time"

// Console hardware tiers as stored in consoles.type.
const (
	ConsoleTypePS5 = "ps5"
	ConsoleTypePS4 = "ps4"
	ConsoleTypePS3 = "ps3"
)

// Operational status values for a console.  The status is advisory for
// display; the reservation ledger never consults it directly.  Suppression
// of maintenance units from bookable slots happens in the availability
// projector and at booking validation.
const (
	ConsoleStatusAvailable   = "available"
	ConsoleStatusOccupied    = "occupied"
	ConsoleStatusMaintenance = "maintenance"
)

// Console represents a physical gaming unit as stored in the `consoles`
// table.  A console can be mounted at any number of stations; each
// (console, station) pair is the actual reservable resource.
//
// Fields:
//  ID             – primary key identifier.
//  Name           – display name shown in booking UIs.
//  Type           – hardware tier (ps5, ps4, ps3).
//  HourlyRateCents – rental price per hour in the smallest currency unit.
//  Status         – operational status (available, occupied, maintenance).
//  IsActive       – whether the console is offered at all.
//  CreatedAt      – timestamp of creation.
//  UpdatedAt      – timestamp of last update.
type Console struct {
	ID              uint64    // consoles.id
	Name            string    // consoles.name
	Type            string    // consoles.type
	HourlyRateCents uint32    // consoles.hourly_rate_cents
	Status          string    // consoles.status
	IsActive        bool      // consoles.is_active
	CreatedAt       time.Time // consoles.created_at
	UpdatedAt       time.Time // consoles.updated_at
}

// ValidConsoleType reports whether t is a known hardware tier.
func ValidConsoleType(t string) bool {
	switch t {
	case ConsoleTypePS5, ConsoleTypePS4, ConsoleTypePS3:
		return true
	}
	return false
}

// ValidConsoleStatus reports whether s is a known operational status.
func ValidConsoleStatus(s string) bool {
	switch s {
	case ConsoleStatusAvailable, ConsoleStatusOccupied, ConsoleStatusMaintenance:
		return true
	}
	return false
}
