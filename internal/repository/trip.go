package repository

import (
	"context"
	"time"

	"fleet/internal/domain"
)

// TripFilter narrows trip listings. Zero values mean "no constraint".
type TripFilter struct {
	CompanyID    string
	DriverID     string
	VehicleID    string
	UnloadStatus domain.UnloadStatus

	// Search matches driver name/phone, company name, licence plate, or trip
	// notes case-insensitively as a substring.
	Search string
}

// TripRepository defines the persistence operations for trips.
type TripRepository interface {
	// Create persists a new trip.
	Create(ctx context.Context, trip *domain.Trip) error

	// GetByID retrieves a trip by ID with driver, company and vehicle
	// populated, deleted or not.
	GetByID(ctx context.Context, id string) (*domain.Trip, error)

	// List retrieves non-deleted trips matching the filter, newest arrival
	// first, with references populated.
	List(ctx context.Context, filter TripFilter, page Page) ([]*domain.Trip, error)

	// Count returns the number of non-deleted trips matching the filter.
	Count(ctx context.Context, filter TripFilter) (int64, error)

	// Update persists changes to an existing trip.
	Update(ctx context.Context, trip *domain.Trip) error

	// GetLatestByParticipants retrieves the most recent non-deleted trip for
	// the driver/company/vehicle combination whose arrival time is at or after
	// since, ordered by arrival time descending. Returns nil if none exists.
	GetLatestByParticipants(ctx context.Context, driverID, companyID, vehicleID string, since time.Time) (*domain.Trip, error)
}
