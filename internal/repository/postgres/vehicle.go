package postgres

import (
	"context"
	"database/sql"
	"errors"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// VehicleRepository is a PostgreSQL implementation of repository.VehicleRepository.
type VehicleRepository struct {
	q Querier
}

// NewVehicleRepository creates a new PostgreSQL vehicle repository.
func NewVehicleRepository(db *sql.DB) *VehicleRepository {
	return &VehicleRepository{q: db}
}

const vehicleColumns = `id, licence_plate, vehicle_type, deleted, created_at, updated_at`

// Create persists a new vehicle.
func (r *VehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		INSERT INTO vehicles (id, licence_plate, vehicle_type, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.ExecContext(ctx, query,
		vehicle.ID,
		vehicle.LicencePlate,
		vehicle.VehicleType,
		vehicle.Deleted,
		vehicle.CreatedAt,
		vehicle.UpdatedAt,
	)

	return mapUniqueViolation(err, vehicle.LicencePlate)
}

// GetByID retrieves a vehicle by ID.
func (r *VehicleRepository) GetByID(ctx context.Context, id string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE id::text = $1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, id))
}

// GetByPlate retrieves a non-deleted vehicle by its normalized licence plate.
func (r *VehicleRepository) GetByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE licence_plate = $1 AND NOT deleted LIMIT 1`
	return r.scanOne(r.q.QueryRowContext(ctx, query, plate))
}

// List retrieves non-deleted vehicles.
func (r *VehicleRepository) List(ctx context.Context, page repository.Page) ([]*domain.Vehicle, error) {
	page = page.Normalize()
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles
		WHERE NOT deleted
		ORDER BY licence_plate
		LIMIT $1 OFFSET $2
	`

	rows, err := r.q.QueryContext(ctx, query, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vehicles []*domain.Vehicle
	for rows.Next() {
		var vehicle domain.Vehicle
		if err := rows.Scan(
			&vehicle.ID,
			&vehicle.LicencePlate,
			&vehicle.VehicleType,
			&vehicle.Deleted,
			&vehicle.CreatedAt,
			&vehicle.UpdatedAt,
		); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, &vehicle)
	}

	return vehicles, rows.Err()
}

// Count returns the number of non-deleted vehicles.
func (r *VehicleRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.q.QueryRowContext(ctx, `SELECT COUNT(*) FROM vehicles WHERE NOT deleted`).Scan(&count)
	return count, err
}

// Update persists changes to an existing vehicle.
func (r *VehicleRepository) Update(ctx context.Context, vehicle *domain.Vehicle) error {
	query := `
		UPDATE vehicles
		SET licence_plate = $1, vehicle_type = $2, deleted = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.q.ExecContext(ctx, query,
		vehicle.LicencePlate,
		vehicle.VehicleType,
		vehicle.Deleted,
		vehicle.UpdatedAt,
		vehicle.ID,
	)
	if err != nil {
		return mapUniqueViolation(err, vehicle.LicencePlate)
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

func (r *VehicleRepository) scanOne(row *sql.Row) (*domain.Vehicle, error) {
	var vehicle domain.Vehicle
	err := row.Scan(
		&vehicle.ID,
		&vehicle.LicencePlate,
		&vehicle.VehicleType,
		&vehicle.Deleted,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &vehicle, nil
}

// Ensure VehicleRepository implements repository.VehicleRepository.
var _ repository.VehicleRepository = (*VehicleRepository)(nil)
