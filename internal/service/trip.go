package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// tripConflictWindow is how far back the duplicate-trip guard looks for an
// unresolved trip with the same driver, company and vehicle.
const tripConflictWindow = 14 * 24 * time.Hour

// TripCache is the read-path cache for populated trips. A nil value disables
// caching.
type TripCache interface {
	GetTrip(ctx context.Context, tripID string) (*domain.Trip, error)
	SetTrip(ctx context.Context, trip *domain.Trip) error
	InvalidateTrip(ctx context.Context, tripID string) error
}

// TripService orchestrates trip recording: it resolves or creates the related
// company, driver and vehicle, applies the duplicate-trip guard, and persists
// the trip.
type TripService struct {
	tripRepo       repository.TripRepository
	companyService *CompanyService
	driverService  *DriverService
	vehicleService *VehicleService
	cacheStore     TripCache
}

// NewTripService creates a new TripService. cacheStore may be nil.
func NewTripService(
	tripRepo repository.TripRepository,
	companyService *CompanyService,
	driverService *DriverService,
	vehicleService *VehicleService,
	cacheStore TripCache,
) *TripService {
	return &TripService{
		tripRepo:       tripRepo,
		companyService: companyService,
		driverService:  driverService,
		vehicleService: vehicleService,
		cacheStore:     cacheStore,
	}
}

// CreateTripRequest contains the raw input for recording a trip.
type CreateTripRequest struct {
	DriverPhoneNumber string
	DriverFullName    string
	CompanyName       string
	LicencePlate      string
	VehicleType       domain.VehicleType

	DepartureTime           *time.Time
	ArrivalTime             *time.Time
	UnloadStatus            domain.UnloadStatus
	HasGPSTracking          bool
	IsInTemporaryParkingLot bool
	IsTripCanceled          bool
	Notes                   string
}

// Create records a new trip. Company, driver and vehicle are resolved or
// created from their natural keys; a new driver additionally requires the
// full name in the request. An unresolved trip for the same participants
// within the conflict window blocks the new record.
func (s *TripService) Create(ctx context.Context, req CreateTripRequest) (*domain.Trip, error) {
	if strings.TrimSpace(req.DriverPhoneNumber) == "" {
		return nil, ErrInvalidDriverPhone
	}
	unloadStatus := req.UnloadStatus
	if unloadStatus == "" {
		unloadStatus = domain.DefaultUnloadStatus
	}
	if !domain.ValidUnloadStatus(unloadStatus) {
		return nil, ErrInvalidUnloadStatus
	}

	company, err := s.companyService.FindOrCreateByName(ctx, req.CompanyName)
	if err != nil {
		return nil, err
	}

	driver, err := s.driverService.FindByPhone(ctx, req.DriverPhoneNumber)
	if err != nil {
		return nil, err
	}
	if driver == nil {
		if strings.TrimSpace(req.DriverFullName) == "" {
			return nil, ErrNewDriverNameRequired
		}
		driver, err = s.driverService.Create(ctx, CreateDriverRequest{
			CompanyID:   company.ID,
			FullName:    req.DriverFullName,
			PhoneNumber: req.DriverPhoneNumber,
		})
		if err != nil {
			return nil, err
		}
	}

	vehicle, err := s.vehicleService.FindOrCreateByPlate(ctx, req.LicencePlate, req.VehicleType)
	if err != nil {
		return nil, err
	}

	// Duplicate-trip guard: a trip for the same driver/company/vehicle that
	// arrived within the window and is still unresolved blocks a new record.
	// The read-then-write gap here is an accepted race at human request rates.
	since := time.Now().Add(-tripConflictWindow)
	latest, err := s.tripRepo.GetLatestByParticipants(ctx, driver.ID, company.ID, vehicle.ID, since)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.Active() {
		return nil, &ActiveTripError{TripID: latest.ID, UnloadStatus: latest.UnloadStatus}
	}

	now := time.Now()
	arrival := now
	if req.ArrivalTime != nil {
		arrival = *req.ArrivalTime
	}

	trip := &domain.Trip{
		ID:                      uuid.New().String(),
		DriverID:                driver.ID,
		CompanyID:               company.ID,
		VehicleID:               vehicle.ID,
		DepartureTime:           req.DepartureTime,
		ArrivalTime:             arrival,
		UnloadStatus:            unloadStatus,
		HasGPSTracking:          req.HasGPSTracking,
		IsInTemporaryParkingLot: req.IsInTemporaryParkingLot,
		IsTripCanceled:          req.IsTripCanceled,
		Notes:                   req.Notes,
		CreatedAt:               now,
		UpdatedAt:               now,
		Driver:                  driver,
		Company:                 company,
		Vehicle:                 vehicle,
	}

	if err := s.tripRepo.Create(ctx, trip); err != nil {
		return nil, err
	}

	return trip, nil
}

// List retrieves non-deleted trips matching the filter, references populated,
// along with the total match count.
func (s *TripService) List(ctx context.Context, filter repository.TripFilter, page repository.Page) ([]*domain.Trip, int64, error) {
	if filter.UnloadStatus != "" && !domain.ValidUnloadStatus(filter.UnloadStatus) {
		return nil, 0, ErrInvalidUnloadStatus
	}
	filter.Search = strings.TrimSpace(filter.Search)

	trips, err := s.tripRepo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.tripRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return trips, count, nil
}

// Get retrieves a non-deleted trip by ID with its references populated.
func (s *TripService) Get(ctx context.Context, id string) (*domain.Trip, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrInvalidTripID
	}

	if s.cacheStore != nil {
		if cached, err := s.cacheStore.GetTrip(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip.Deleted {
		return nil, repository.ErrNotFound
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.SetTrip(ctx, trip)
	}

	return trip, nil
}

// getFresh retrieves a non-deleted trip straight from the store, bypassing
// the cache. Writes must base their full-row update on store state.
func (s *TripService) getFresh(ctx context.Context, id string) (*domain.Trip, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrInvalidTripID
	}

	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trip.Deleted {
		return nil, repository.ErrNotFound
	}

	return trip, nil
}

// UpdateTripRequest contains the fields that may be patched on a trip.
// Nil fields are left unchanged.
type UpdateTripRequest struct {
	DepartureTime           *time.Time
	ArrivalTime             *time.Time
	UnloadStatus            *domain.UnloadStatus
	HasGPSTracking          *bool
	IsInTemporaryParkingLot *bool
	IsTripCanceled          *bool
	Notes                   *string
}

// Update patches an existing non-deleted trip. The patch base is always read
// from the store, never the cache.
func (s *TripService) Update(ctx context.Context, id string, req UpdateTripRequest) (*domain.Trip, error) {
	trip, err := s.getFresh(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DepartureTime != nil {
		trip.DepartureTime = req.DepartureTime
	}
	if req.ArrivalTime != nil {
		trip.ArrivalTime = *req.ArrivalTime
	}
	if req.UnloadStatus != nil {
		if !domain.ValidUnloadStatus(*req.UnloadStatus) {
			return nil, ErrInvalidUnloadStatus
		}
		trip.UnloadStatus = *req.UnloadStatus
	}
	if req.HasGPSTracking != nil {
		trip.HasGPSTracking = *req.HasGPSTracking
	}
	if req.IsInTemporaryParkingLot != nil {
		trip.IsInTemporaryParkingLot = *req.IsInTemporaryParkingLot
	}
	if req.IsTripCanceled != nil {
		trip.IsTripCanceled = *req.IsTripCanceled
	}
	if req.Notes != nil {
		trip.Notes = *req.Notes
	}
	trip.UpdatedAt = time.Now()

	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateTrip(ctx, trip.ID)
	}

	return trip, nil
}

// Remove soft-deletes a trip. The record stays queryable for the guard.
func (s *TripService) Remove(ctx context.Context, id string) (*domain.Trip, error) {
	trip, err := s.getFresh(ctx, id)
	if err != nil {
		return nil, err
	}

	trip.Deleted = true
	trip.UpdatedAt = time.Now()
	if err := s.tripRepo.Update(ctx, trip); err != nil {
		return nil, err
	}

	if s.cacheStore != nil {
		_ = s.cacheStore.InvalidateTrip(ctx, trip.ID)
	}

	return trip, nil
}
