package service

import (
	"errors"
	"fmt"

	"fleet/internal/domain"
)

var (
	// ErrInvalidCompanyName is returned when a company name is empty.
	ErrInvalidCompanyName = errors.New("company name is required")

	// ErrInvalidDriverName is returned when a driver full name is empty.
	ErrInvalidDriverName = errors.New("driver full name is required")

	// ErrInvalidDriverPhone is returned when a driver phone number is empty.
	ErrInvalidDriverPhone = errors.New("driver phone number is required")

	// ErrNewDriverNameRequired is returned when a trip names an unknown driver
	// phone number without supplying the driver's full name.
	ErrNewDriverNameRequired = errors.New("new driver requires a name")

	// ErrInvalidLicencePlate is returned when a licence plate is missing or too short.
	ErrInvalidLicencePlate = errors.New("licence plate must be at least 4 characters")

	// ErrInvalidVehicleType is returned when a vehicle type is not recognized.
	ErrInvalidVehicleType = errors.New("invalid vehicle type")

	// ErrInvalidUnloadStatus is returned when an unload status is not recognized.
	ErrInvalidUnloadStatus = errors.New("invalid unload status")

	// ErrInvalidCompanyID is returned when a company ID is missing or malformed.
	ErrInvalidCompanyID = errors.New("invalid company id")

	// ErrInvalidDriverID is returned when a driver ID is missing or malformed.
	ErrInvalidDriverID = errors.New("invalid driver id")

	// ErrInvalidVehicleID is returned when a vehicle ID is missing or malformed.
	ErrInvalidVehicleID = errors.New("invalid vehicle id")

	// ErrInvalidTripID is returned when a trip ID is missing or malformed.
	ErrInvalidTripID = errors.New("invalid trip id")

	// ErrInvalidUserID is returned when a user ID is missing or malformed.
	ErrInvalidUserID = errors.New("invalid user id")

	// ErrInvalidUserEmail is returned when a user email is empty.
	ErrInvalidUserEmail = errors.New("user email is required")

	// ErrInvalidUserPassword is returned when a user password is empty.
	ErrInvalidUserPassword = errors.New("user password is required")

	// ErrInvalidUserRole is returned when a user role is not recognized.
	ErrInvalidUserRole = errors.New("invalid user role")

	// ErrActiveTripExists is returned when the duplicate-trip guard finds an
	// unresolved trip for the same driver, company and vehicle.
	ErrActiveTripExists = errors.New("active trip already exists")
)

// ActiveTripError reports the existing in-progress trip that blocked a new
// trip from being recorded. It matches ErrActiveTripExists under errors.Is.
type ActiveTripError struct {
	TripID       string
	UnloadStatus domain.UnloadStatus
}

func (e *ActiveTripError) Error() string {
	return fmt.Sprintf("active trip %s already exists with unload status %s", e.TripID, e.UnloadStatus)
}

func (e *ActiveTripError) Is(target error) bool {
	return target == ErrActiveTripExists
}
