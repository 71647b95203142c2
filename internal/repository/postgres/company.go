package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// CompanyRepository is a PostgreSQL implementation of repository.CompanyRepository.
type CompanyRepository struct {
	q Querier
}

// NewCompanyRepository creates a new PostgreSQL company repository.
func NewCompanyRepository(db *sql.DB) *CompanyRepository {
	return &CompanyRepository{q: db}
}

const companyColumns = `id, name, name_normalized, deleted, created_at, updated_at`

// Create persists a new company.
func (r *CompanyRepository) Create(ctx context.Context, company *domain.Company) error {
	query := `
		INSERT INTO companies (id, name, name_normalized, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		company.ID,
		company.Name,
		company.NameNormalized,
		company.Deleted,
		company.CreatedAt,
		company.UpdatedAt,
	)

	return mapUniqueViolation(err, company.Name)
}

// GetByID retrieves a company by ID.
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE id::text = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByName retrieves a company by exact display name.
func (r *CompanyRepository) GetByName(ctx context.Context, name string, includeDeleted bool) (*domain.Company, error) {
	query := `SELECT ` + companyColumns + ` FROM companies WHERE name = $1`
	if !includeDeleted {
		query += ` AND NOT deleted`
	}
	query += ` LIMIT 1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, name))
}

// List retrieves non-deleted companies matching the filter.
func (r *CompanyRepository) List(ctx context.Context, filter repository.CompanyFilter, page repository.Page) ([]*domain.Company, error) {
	page = page.Normalize()
	query := `
		SELECT ` + companyColumns + `
		FROM companies
		WHERE NOT deleted AND ($1 = '' OR name ILIKE '%' || $1 || '%')
		ORDER BY name
		LIMIT $2 OFFSET $3
	`

	rows, err := r.q.QueryContext(ctx, query, filter.Search, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var companies []*domain.Company
	for rows.Next() {
		var company domain.Company
		if err := rows.Scan(
			&company.ID,
			&company.Name,
			&company.NameNormalized,
			&company.Deleted,
			&company.CreatedAt,
			&company.UpdatedAt,
		); err != nil {
			return nil, err
		}
		companies = append(companies, &company)
	}

	return companies, rows.Err()
}

// Count returns the number of non-deleted companies matching the filter.
func (r *CompanyRepository) Count(ctx context.Context, filter repository.CompanyFilter) (int64, error) {
	query := `
		SELECT COUNT(*) FROM companies
		WHERE NOT deleted AND ($1 = '' OR name ILIKE '%' || $1 || '%')
	`

	var count int64
	err := r.q.QueryRowContext(ctx, query, filter.Search).Scan(&count)
	return count, err
}

// Update persists changes to an existing company.
func (r *CompanyRepository) Update(ctx context.Context, company *domain.Company) error {
	query := `
		UPDATE companies
		SET name = $1, name_normalized = $2, deleted = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.q.ExecContext(ctx, query,
		company.Name,
		company.NameNormalized,
		company.Deleted,
		company.UpdatedAt,
		company.ID,
	)
	if err != nil {
		return mapUniqueViolation(err, company.Name)
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

func (r *CompanyRepository) scanOne(row *sql.Row) (*domain.Company, error) {
	var company domain.Company
	err := row.Scan(
		&company.ID,
		&company.Name,
		&company.NameNormalized,
		&company.Deleted,
		&company.CreatedAt,
		&company.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

// Ensure CompanyRepository implements repository.CompanyRepository.
var _ repository.CompanyRepository = (*CompanyRepository)(nil)
