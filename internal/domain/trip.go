package domain

import "time"

// UnloadStatus represents the lifecycle state of a trip's cargo.
type UnloadStatus string

const (
	UnloadStatusWaiting   UnloadStatus = "WAITING"
	UnloadStatusUnloading UnloadStatus = "UNLOADING"
	UnloadStatusUnloaded  UnloadStatus = "UNLOADED"
)

// DefaultUnloadStatus is assigned when a trip is created without a status.
const DefaultUnloadStatus = UnloadStatusWaiting

// ValidUnloadStatus reports whether s is a known unload status.
func ValidUnloadStatus(s UnloadStatus) bool {
	switch s {
	case UnloadStatusWaiting, UnloadStatusUnloading, UnloadStatusUnloaded:
		return true
	}
	return false
}

// Trip is the append-only record of a single loading/unloading event.
type Trip struct {
	ID                      string
	DriverID                string
	CompanyID               string
	VehicleID               string
	DepartureTime           *time.Time
	ArrivalTime             time.Time
	UnloadStatus            UnloadStatus
	HasGPSTracking          bool
	IsInTemporaryParkingLot bool
	IsTripCanceled          bool
	Notes                   string
	Deleted                 bool
	CreatedAt               time.Time
	UpdatedAt               time.Time

	// Populated on read paths that join the referenced entities.
	Driver  *Driver
	Company *Company
	Vehicle *Vehicle
}

// Active reports whether the trip still represents an in-progress delivery:
// not canceled and cargo not yet unloaded.
func (t *Trip) Active() bool {
	return !t.IsTripCanceled && t.UnloadStatus != UnloadStatusUnloaded
}
