package domain

import "time"

// VehicleType represents the category of a vehicle.
type VehicleType string

const (
	VehicleTypeTruck  VehicleType = "TRUCK"
	VehicleTypeVan    VehicleType = "VAN"
	VehicleTypeLorry  VehicleType = "LORRY"
	VehicleTypePickup VehicleType = "PICKUP"
)

// DefaultVehicleType is assigned when a vehicle is created without a type.
const DefaultVehicleType = VehicleTypeTruck

// ValidVehicleType reports whether t is a known vehicle type.
func ValidVehicleType(t VehicleType) bool {
	switch t {
	case VehicleTypeTruck, VehicleTypeVan, VehicleTypeLorry, VehicleTypePickup:
		return true
	}
	return false
}

// Vehicle represents a vehicle identified by its normalized licence plate.
type Vehicle struct {
	ID           string
	LicencePlate string // normalized: uppercase, whitespace stripped
	VehicleType  VehicleType
	Deleted      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
