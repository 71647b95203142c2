package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// minPlateLength is the shortest normalized licence plate accepted.
const minPlateLength = 4

// VehicleService handles vehicle operations.
type VehicleService struct {
	vehicleRepo repository.VehicleRepository
}

// NewVehicleService creates a new VehicleService.
func NewVehicleService(vehicleRepo repository.VehicleRepository) *VehicleService {
	return &VehicleService{vehicleRepo: vehicleRepo}
}

// FindOrCreateByPlate returns the vehicle with the given licence plate,
// creating one if absent. The plate is normalized first, so equivalent raw
// spellings resolve to the same vehicle. A newly created vehicle gets the
// given type, or the default when none is given.
func (s *VehicleService) FindOrCreateByPlate(ctx context.Context, plate string, vehicleType domain.VehicleType) (*domain.Vehicle, error) {
	normalized := NormalizePlate(plate)
	if len(normalized) < minPlateLength {
		return nil, ErrInvalidLicencePlate
	}

	if vehicleType == "" {
		vehicleType = domain.DefaultVehicleType
	}
	if !domain.ValidVehicleType(vehicleType) {
		return nil, ErrInvalidVehicleType
	}

	return resolveOrCreate(ctx,
		func(ctx context.Context) (*domain.Vehicle, error) {
			return s.vehicleRepo.GetByPlate(ctx, normalized)
		},
		func(ctx context.Context) (*domain.Vehicle, error) {
			vehicle := newVehicle(normalized, vehicleType)
			if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
				return nil, err
			}
			return vehicle, nil
		},
	)
}

// CreateVehicleRequest contains the parameters for creating a vehicle.
type CreateVehicleRequest struct {
	LicencePlate string
	VehicleType  domain.VehicleType
}

// Create adds a new vehicle. A live duplicate plate is a conflict, surfaced by
// the store's uniqueness constraint.
func (s *VehicleService) Create(ctx context.Context, req CreateVehicleRequest) (*domain.Vehicle, error) {
	normalized := NormalizePlate(req.LicencePlate)
	if len(normalized) < minPlateLength {
		return nil, ErrInvalidLicencePlate
	}

	vehicleType := req.VehicleType
	if vehicleType == "" {
		vehicleType = domain.DefaultVehicleType
	}
	if !domain.ValidVehicleType(vehicleType) {
		return nil, ErrInvalidVehicleType
	}

	vehicle := newVehicle(normalized, vehicleType)
	if err := s.vehicleRepo.Create(ctx, vehicle); err != nil {
		return nil, err
	}

	return vehicle, nil
}

// List retrieves non-deleted vehicles along with the total count.
func (s *VehicleService) List(ctx context.Context, page repository.Page) ([]*domain.Vehicle, int64, error) {
	vehicles, err := s.vehicleRepo.List(ctx, page)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.vehicleRepo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	return vehicles, count, nil
}

// Get retrieves a non-deleted vehicle by ID. A malformed ID is rejected
// before it reaches the store.
func (s *VehicleService) Get(ctx context.Context, id string) (*domain.Vehicle, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrInvalidVehicleID
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if vehicle.Deleted {
		return nil, repository.ErrNotFound
	}

	return vehicle, nil
}

// UpdateVehicleRequest contains the fields that may be patched on a vehicle.
// Nil fields are left unchanged.
type UpdateVehicleRequest struct {
	LicencePlate *string
	VehicleType  *domain.VehicleType
	Deleted      *bool
}

// Update patches an existing vehicle. A new plate is normalized before storing.
func (s *VehicleService) Update(ctx context.Context, id string, req UpdateVehicleRequest) (*domain.Vehicle, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrInvalidVehicleID
	}

	vehicle, err := s.vehicleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.LicencePlate != nil {
		normalized := NormalizePlate(*req.LicencePlate)
		if len(normalized) < minPlateLength {
			return nil, ErrInvalidLicencePlate
		}
		vehicle.LicencePlate = normalized
	}
	if req.VehicleType != nil {
		if !domain.ValidVehicleType(*req.VehicleType) {
			return nil, ErrInvalidVehicleType
		}
		vehicle.VehicleType = *req.VehicleType
	}
	if req.Deleted != nil {
		vehicle.Deleted = *req.Deleted
	}
	vehicle.UpdatedAt = time.Now()

	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	return vehicle, nil
}

// Remove soft-deletes a vehicle.
func (s *VehicleService) Remove(ctx context.Context, id string) (*domain.Vehicle, error) {
	vehicle, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	vehicle.Deleted = true
	vehicle.UpdatedAt = time.Now()
	if err := s.vehicleRepo.Update(ctx, vehicle); err != nil {
		return nil, err
	}

	return vehicle, nil
}

func newVehicle(plate string, vehicleType domain.VehicleType) *domain.Vehicle {
	now := time.Now()
	return &domain.Vehicle{
		ID:           uuid.New().String(),
		LicencePlate: plate,
		VehicleType:  vehicleType,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
