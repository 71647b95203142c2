package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// TripRepository is a PostgreSQL implementation of repository.TripRepository.
type TripRepository struct {
	q Querier
}

// NewTripRepository creates a new PostgreSQL trip repository.
func NewTripRepository(db *sql.DB) *TripRepository {
	return &TripRepository{q: db}
}

const tripJoinedColumns = `
	t.id, t.driver_id, t.company_id, t.vehicle_id,
	t.departure_time, t.arrival_time, t.unload_status,
	t.has_gps_tracking, t.is_in_temporary_parking_lot, t.is_trip_canceled,
	t.notes, t.deleted, t.created_at, t.updated_at,
	d.id, d.company_id, d.full_name, d.phone_number, d.deleted, d.created_at, d.updated_at,
	c.id, c.name, c.name_normalized, c.deleted, c.created_at, c.updated_at,
	v.id, v.licence_plate, v.vehicle_type, v.deleted, v.created_at, v.updated_at`

const tripJoins = `
	FROM trips t
	JOIN drivers d ON d.id = t.driver_id
	JOIN companies c ON c.id = t.company_id
	JOIN vehicles v ON v.id = t.vehicle_id`

// Create persists a new trip.
func (r *TripRepository) Create(ctx context.Context, trip *domain.Trip) error {
	query := `
		INSERT INTO trips (
			id, driver_id, company_id, vehicle_id,
			departure_time, arrival_time, unload_status,
			has_gps_tracking, is_in_temporary_parking_lot, is_trip_canceled,
			notes, deleted, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	var departure sql.NullTime
	if trip.DepartureTime != nil {
		departure = sql.NullTime{Time: *trip.DepartureTime, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		trip.ID,
		trip.DriverID,
		trip.CompanyID,
		trip.VehicleID,
		departure,
		trip.ArrivalTime,
		trip.UnloadStatus,
		trip.HasGPSTracking,
		trip.IsInTemporaryParkingLot,
		trip.IsTripCanceled,
		trip.Notes,
		trip.Deleted,
		trip.CreatedAt,
		trip.UpdatedAt,
	)

	return err
}

// GetByID retrieves a trip by ID with its references populated.
func (r *TripRepository) GetByID(ctx context.Context, id string) (*domain.Trip, error) {
	query := `SELECT` + tripJoinedColumns + tripJoins + ` WHERE t.id::text = $1`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return trip, nil
}

// List retrieves non-deleted trips matching the filter, newest arrival first.
func (r *TripRepository) List(ctx context.Context, filter repository.TripFilter, page repository.Page) ([]*domain.Trip, error) {
	page = page.Normalize()
	query := `SELECT` + tripJoinedColumns + tripJoins + tripFilterClause + `
		ORDER BY t.arrival_time DESC
		LIMIT $6 OFFSET $7
	`

	rows, err := r.q.QueryContext(ctx, query,
		filter.CompanyID,
		filter.DriverID,
		filter.VehicleID,
		string(filter.UnloadStatus),
		filter.Search,
		page.Limit,
		page.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trips []*domain.Trip
	for rows.Next() {
		trip, err := scanTrip(rows)
		if err != nil {
			return nil, err
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

// Count returns the number of non-deleted trips matching the filter.
func (r *TripRepository) Count(ctx context.Context, filter repository.TripFilter) (int64, error) {
	query := `SELECT COUNT(*)` + tripJoins + tripFilterClause

	var count int64
	err := r.q.QueryRowContext(ctx, query,
		filter.CompanyID,
		filter.DriverID,
		filter.VehicleID,
		string(filter.UnloadStatus),
		filter.Search,
	).Scan(&count)
	return count, err
}

const tripFilterClause = `
	WHERE NOT t.deleted
	  AND ($1 = '' OR t.company_id::text = $1)
	  AND ($2 = '' OR t.driver_id::text = $2)
	  AND ($3 = '' OR t.vehicle_id::text = $3)
	  AND ($4 = '' OR t.unload_status = $4)
	  AND ($5 = ''
	       OR d.full_name ILIKE '%' || $5 || '%'
	       OR d.phone_number ILIKE '%' || $5 || '%'
	       OR c.name ILIKE '%' || $5 || '%'
	       OR v.licence_plate ILIKE '%' || $5 || '%'
	       OR t.notes ILIKE '%' || $5 || '%')`

// Update persists changes to an existing trip.
func (r *TripRepository) Update(ctx context.Context, trip *domain.Trip) error {
	query := `
		UPDATE trips
		SET departure_time = $1, arrival_time = $2, unload_status = $3,
		    has_gps_tracking = $4, is_in_temporary_parking_lot = $5, is_trip_canceled = $6,
		    notes = $7, deleted = $8, updated_at = $9
		WHERE id = $10
	`

	var departure sql.NullTime
	if trip.DepartureTime != nil {
		departure = sql.NullTime{Time: *trip.DepartureTime, Valid: true}
	}

	result, err := r.q.ExecContext(ctx, query,
		departure,
		trip.ArrivalTime,
		trip.UnloadStatus,
		trip.HasGPSTracking,
		trip.IsInTemporaryParkingLot,
		trip.IsTripCanceled,
		trip.Notes,
		trip.Deleted,
		trip.UpdatedAt,
		trip.ID,
	)
	if err != nil {
		return err
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

// GetLatestByParticipants retrieves the most recent non-deleted trip for the
// driver/company/vehicle combination with arrival time at or after since.
// Returns nil if no such trip exists.
func (r *TripRepository) GetLatestByParticipants(ctx context.Context, driverID, companyID, vehicleID string, since time.Time) (*domain.Trip, error) {
	query := `SELECT` + tripJoinedColumns + tripJoins + `
		WHERE NOT t.deleted
		  AND t.driver_id = $1 AND t.company_id = $2 AND t.vehicle_id = $3
		  AND t.arrival_time >= $4
		ORDER BY t.arrival_time DESC
		LIMIT 1
	`

	trip, err := scanTrip(r.q.QueryRowContext(ctx, query, driverID, companyID, vehicleID, since))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return trip, nil
}

func scanTrip(s scanner) (*domain.Trip, error) {
	var trip domain.Trip
	var driver domain.Driver
	var company domain.Company
	var vehicle domain.Vehicle
	var departure sql.NullTime

	err := s.Scan(
		&trip.ID,
		&trip.DriverID,
		&trip.CompanyID,
		&trip.VehicleID,
		&departure,
		&trip.ArrivalTime,
		&trip.UnloadStatus,
		&trip.HasGPSTracking,
		&trip.IsInTemporaryParkingLot,
		&trip.IsTripCanceled,
		&trip.Notes,
		&trip.Deleted,
		&trip.CreatedAt,
		&trip.UpdatedAt,
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
		&vehicle.ID,
		&vehicle.LicencePlate,
		&vehicle.VehicleType,
		&vehicle.Deleted,
		&vehicle.CreatedAt,
		&vehicle.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if departure.Valid {
		trip.DepartureTime = &departure.Time
	}

	trip.Driver = &driver
	trip.Company = &company
	trip.Vehicle = &vehicle
	return &trip, nil
}

// Ensure TripRepository implements repository.TripRepository.
var _ repository.TripRepository = (*TripRepository)(nil)
