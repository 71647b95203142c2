package repository

import (
	"context"

	"fleet/internal/domain"
)

// VehicleRepository defines the persistence operations for vehicles.
type VehicleRepository interface {
	// Create persists a new vehicle.
	Create(ctx context.Context, vehicle *domain.Vehicle) error

	// GetByID retrieves a vehicle by ID, deleted or not.
	GetByID(ctx context.Context, id string) (*domain.Vehicle, error)

	// GetByPlate retrieves a non-deleted vehicle by its normalized licence plate.
	GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error)

	// List retrieves non-deleted vehicles.
	List(ctx context.Context, page Page) ([]*domain.Vehicle, error)

	// Count returns the number of non-deleted vehicles.
	Count(ctx context.Context) (int64, error)

	// Update persists changes to an existing vehicle.
	Update(ctx context.Context, vehicle *domain.Vehicle) error
}
