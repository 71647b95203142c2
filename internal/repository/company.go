package repository

import (
	"context"

	"fleet/internal/domain"
)

// CompanyFilter narrows company listings.
type CompanyFilter struct {
	// Search matches the company name case-insensitively as a substring.
	Search string
}

// CompanyRepository defines the persistence operations for companies.
type CompanyRepository interface {
	// Create persists a new company.
	Create(ctx context.Context, company *domain.Company) error

	// GetByID retrieves a company by ID, deleted or not.
	GetByID(ctx context.Context, id string) (*domain.Company, error)

	// GetByName retrieves a company by exact display name.
	// Deleted companies are excluded unless includeDeleted is set.
	GetByName(ctx context.Context, name string, includeDeleted bool) (*domain.Company, error)

	// List retrieves non-deleted companies matching the filter.
	List(ctx context.Context, filter CompanyFilter, page Page) ([]*domain.Company, error)

	// Count returns the number of non-deleted companies matching the filter.
	Count(ctx context.Context, filter CompanyFilter) (int64, error)

	// Update persists changes to an existing company.
	Update(ctx context.Context, company *domain.Company) error
}
