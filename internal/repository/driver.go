package repository

import (
	"context"

	"fleet/internal/domain"
)

// DriverFilter narrows driver listings.
type DriverFilter struct {
	CompanyID string

	// Search matches full name or phone number case-insensitively as a substring.
	Search string
}

// DriverRepository defines the persistence operations for drivers.
type DriverRepository interface {
	// Create persists a new driver.
	Create(ctx context.Context, driver *domain.Driver) error

	// GetByID retrieves a driver by ID, deleted or not.
	GetByID(ctx context.Context, id string) (*domain.Driver, error)

	// GetByPhone retrieves a driver by phone number with the owning company
	// populated. Deleted drivers are excluded unless includeDeleted is set.
	GetByPhone(ctx context.Context, phone string, includeDeleted bool) (*domain.Driver, error)

	// List retrieves non-deleted drivers matching the filter, companies populated.
	List(ctx context.Context, filter DriverFilter, page Page) ([]*domain.Driver, error)

	// Count returns the number of non-deleted drivers matching the filter.
	Count(ctx context.Context, filter DriverFilter) (int64, error)

	// Update persists changes to an existing driver.
	Update(ctx context.Context, driver *domain.Driver) error
}
