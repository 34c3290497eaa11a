package model

import "time"

// Station is a physical play position on the rental floor, as stored in
// the `stations` table.  Stations carry no scheduling state of their own;
// they exist to locate and group consoles.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – station label (e.g. "Station 3").
//  Location  – free-text floor location.
//  IsActive  – whether the station is in service.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Station struct {
	ID        uint64    // stations.id
	Name      string    // stations.name
	Location  string    // stations.location
	IsActive  bool      // stations.is_active
	CreatedAt time.Time // stations.created_at
	UpdatedAt time.Time // stations.updated_at
}
