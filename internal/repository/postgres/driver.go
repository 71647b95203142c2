package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// DriverRepository is a PostgreSQL implementation of repository.DriverRepository.
type DriverRepository struct {
	q Querier
}

// NewDriverRepository creates a new PostgreSQL driver repository.
func NewDriverRepository(db *sql.DB) *DriverRepository {
	return &DriverRepository{q: db}
}

// Create persists a new driver.
func (r *DriverRepository) Create(ctx context.Context, driver *domain.Driver) error {
	query := `
		INSERT INTO drivers (id, company_id, full_name, phone_number, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.ExecContext(ctx, query,
		driver.ID,
		driver.CompanyID,
		driver.FullName,
		driver.PhoneNumber,
		driver.Deleted,
		driver.CreatedAt,
		driver.UpdatedAt,
	)

	return mapUniqueViolation(err, driver.PhoneNumber)
}

// GetByID retrieves a driver by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id string) (*domain.Driver, error) {
	query := `
		SELECT id, company_id, full_name, phone_number, deleted, created_at, updated_at
		FROM drivers WHERE id::text = $1
	`

	var driver domain.Driver
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&driver.ID,
		&driver.CompanyID,
		&driver.FullName,
		&driver.PhoneNumber,
		&driver.Deleted,
		&driver.CreatedAt,
		&driver.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &driver, nil
}

// GetByPhone retrieves a driver by phone number with the company populated.
func (r *DriverRepository) GetByPhone(ctx context.Context, phone string, includeDeleted bool) (*domain.Driver, error) {
	query := `
		SELECT d.id, d.company_id, d.full_name, d.phone_number, d.deleted, d.created_at, d.updated_at,
		       c.id, c.name, c.name_normalized, c.deleted, c.created_at, c.updated_at
		FROM drivers d
		JOIN companies c ON c.id = d.company_id
		WHERE d.phone_number = $1
	`
	if !includeDeleted {
		query += ` AND NOT d.deleted`
	}
	query += ` LIMIT 1`

	driver, err := scanDriverWithCompany(r.q.QueryRowContext(ctx, query, phone))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return driver, nil
}

// List retrieves non-deleted drivers matching the filter, companies populated.
func (r *DriverRepository) List(ctx context.Context, filter repository.DriverFilter, page repository.Page) ([]*domain.Driver, error) {
	page = page.Normalize()
	query := `
		SELECT d.id, d.company_id, d.full_name, d.phone_number, d.deleted, d.created_at, d.updated_at,
		       c.id, c.name, c.name_normalized, c.deleted, c.created_at, c.updated_at
		FROM drivers d
		JOIN companies c ON c.id = d.company_id
		WHERE NOT d.deleted
		  AND ($1 = '' OR d.company_id::text = $1)
		  AND ($2 = '' OR d.full_name ILIKE '%' || $2 || '%' OR d.phone_number ILIKE '%' || $2 || '%')
		ORDER BY d.full_name
		LIMIT $3 OFFSET $4
	`

	rows, err := r.q.QueryContext(ctx, query, filter.CompanyID, filter.Search, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drivers []*domain.Driver
	for rows.Next() {
		driver, err := scanDriverWithCompany(rows)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, driver)
	}

	return drivers, rows.Err()
}

// Count returns the number of non-deleted drivers matching the filter.
func (r *DriverRepository) Count(ctx context.Context, filter repository.DriverFilter) (int64, error) {
	query := `
		SELECT COUNT(*) FROM drivers
		WHERE NOT deleted
		  AND ($1 = '' OR company_id::text = $1)
		  AND ($2 = '' OR full_name ILIKE '%' || $2 || '%' OR phone_number ILIKE '%' || $2 || '%')
	`

	var count int64
	err := r.q.QueryRowContext(ctx, query, filter.CompanyID, filter.Search).Scan(&count)
	return count, err
}

// Update persists changes to an existing driver.
func (r *DriverRepository) Update(ctx context.Context, driver *domain.Driver) error {
	query := `
		UPDATE drivers
		SET company_id = $1, full_name = $2, phone_number = $3, deleted = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := r.q.ExecContext(ctx, query,
		driver.CompanyID,
		driver.FullName,
		driver.PhoneNumber,
		driver.Deleted,
		driver.UpdatedAt,
		driver.ID,
	)
	if err != nil {
		return mapUniqueViolation(err, driver.PhoneNumber)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDriverWithCompany(s scanner) (*domain.Driver, error) {
	var driver domain.Driver
	var company domain.Company

	err := s.Scan(
		&driver.ID,
		&driver.CompanyID,
		&driver.FullName,
		&driver.PhoneNumber,
		&driver.Deleted,
		&driver.CreatedAt,
		&driver.UpdatedAt,
		&company.ID,
		&company.Name,
		&company.NameNormalized,
		&company.Deleted,
		&company.CreatedAt,
		&company.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	driver.Company = &company
	return &driver, nil
}

// Ensure DriverRepository implements repository.DriverRepository.
var _ repository.DriverRepository = (*DriverRepository)(nil)
