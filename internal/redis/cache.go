package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"fleet/internal/domain"
)

// CacheStore handles read-path entity caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// TripCacheTTL is short because unload status changes while a trip is live.
const TripCacheTTL = 60 * time.Second

const tripCachePrefix = "cache:trip:"

// cachedTrip flattens a trip and its populated references for caching. It
// carries every field of the trip and its references so that a cache hit is
// indistinguishable from the joined read it stands in for.
type cachedTrip struct {
	ID                      string     `json:"id"`
	DepartureTime           *time.Time `json:"departure_time,omitempty"`
	ArrivalTime             time.Time  `json:"arrival_time"`
	UnloadStatus            string     `json:"unload_status"`
	HasGPSTracking          bool       `json:"has_gps_tracking"`
	IsInTemporaryParkingLot bool       `json:"is_in_temporary_parking_lot"`
	IsTripCanceled          bool       `json:"is_trip_canceled"`
	Notes                   string     `json:"notes"`
	Deleted                 bool       `json:"deleted"`
	CreatedAt               time.Time  `json:"created_at"`
	UpdatedAt               time.Time  `json:"updated_at"`

	DriverID          string    `json:"driver_id"`
	DriverFullName    string    `json:"driver_full_name"`
	DriverPhoneNumber string    `json:"driver_phone_number"`
	DriverDeleted     bool      `json:"driver_deleted"`
	DriverCreatedAt   time.Time `json:"driver_created_at"`
	DriverUpdatedAt   time.Time `json:"driver_updated_at"`

	CompanyID             string    `json:"company_id"`
	CompanyName           string    `json:"company_name"`
	CompanyNameNormalized string    `json:"company_name_normalized"`
	CompanyDeleted        bool      `json:"company_deleted"`
	CompanyCreatedAt      time.Time `json:"company_created_at"`
	CompanyUpdatedAt      time.Time `json:"company_updated_at"`

	VehicleID        string    `json:"vehicle_id"`
	LicencePlate     string    `json:"licence_plate"`
	VehicleType      string    `json:"vehicle_type"`
	VehicleDeleted   bool      `json:"vehicle_deleted"`
	VehicleCreatedAt time.Time `json:"vehicle_created_at"`
	VehicleUpdatedAt time.Time `json:"vehicle_updated_at"`
}

func newCachedTrip(trip *domain.Trip) cachedTrip {
	return cachedTrip{
		ID:                      trip.ID,
		DepartureTime:           trip.DepartureTime,
		ArrivalTime:             trip.ArrivalTime,
		UnloadStatus:            string(trip.UnloadStatus),
		HasGPSTracking:          trip.HasGPSTracking,
		IsInTemporaryParkingLot: trip.IsInTemporaryParkingLot,
		IsTripCanceled:          trip.IsTripCanceled,
		Notes:                   trip.Notes,
		Deleted:                 trip.Deleted,
		CreatedAt:               trip.CreatedAt,
		UpdatedAt:               trip.UpdatedAt,

		DriverID:          trip.Driver.ID,
		DriverFullName:    trip.Driver.FullName,
		DriverPhoneNumber: trip.Driver.PhoneNumber,
		DriverDeleted:     trip.Driver.Deleted,
		DriverCreatedAt:   trip.Driver.CreatedAt,
		DriverUpdatedAt:   trip.Driver.UpdatedAt,

		CompanyID:             trip.Company.ID,
		CompanyName:           trip.Company.Name,
		CompanyNameNormalized: trip.Company.NameNormalized,
		CompanyDeleted:        trip.Company.Deleted,
		CompanyCreatedAt:      trip.Company.CreatedAt,
		CompanyUpdatedAt:      trip.Company.UpdatedAt,

		VehicleID:        trip.Vehicle.ID,
		LicencePlate:     trip.Vehicle.LicencePlate,
		VehicleType:      string(trip.Vehicle.VehicleType),
		VehicleDeleted:   trip.Vehicle.Deleted,
		VehicleCreatedAt: trip.Vehicle.CreatedAt,
		VehicleUpdatedAt: trip.Vehicle.UpdatedAt,
	}
}

func (c *cachedTrip) toDomain() *domain.Trip {
	return &domain.Trip{
		ID:                      c.ID,
		DriverID:                c.DriverID,
		CompanyID:               c.CompanyID,
		VehicleID:               c.VehicleID,
		DepartureTime:           c.DepartureTime,
		ArrivalTime:             c.ArrivalTime,
		UnloadStatus:            domain.UnloadStatus(c.UnloadStatus),
		HasGPSTracking:          c.HasGPSTracking,
		IsInTemporaryParkingLot: c.IsInTemporaryParkingLot,
		IsTripCanceled:          c.IsTripCanceled,
		Notes:                   c.Notes,
		Deleted:                 c.Deleted,
		CreatedAt:               c.CreatedAt,
		UpdatedAt:               c.UpdatedAt,
		Driver: &domain.Driver{
			ID:          c.DriverID,
			CompanyID:   c.CompanyID,
			FullName:    c.DriverFullName,
			PhoneNumber: c.DriverPhoneNumber,
			Deleted:     c.DriverDeleted,
			CreatedAt:   c.DriverCreatedAt,
			UpdatedAt:   c.DriverUpdatedAt,
		},
		Company: &domain.Company{
			ID:             c.CompanyID,
			Name:           c.CompanyName,
			NameNormalized: c.CompanyNameNormalized,
			Deleted:        c.CompanyDeleted,
			CreatedAt:      c.CompanyCreatedAt,
			UpdatedAt:      c.CompanyUpdatedAt,
		},
		Vehicle: &domain.Vehicle{
			ID:           c.VehicleID,
			LicencePlate: c.LicencePlate,
			VehicleType:  domain.VehicleType(c.VehicleType),
			Deleted:      c.VehicleDeleted,
			CreatedAt:    c.VehicleCreatedAt,
			UpdatedAt:    c.VehicleUpdatedAt,
		},
	}
}

// GetTrip retrieves a trip from cache. Returns nil on a miss.
func (s *CacheStore) GetTrip(ctx context.Context, tripID string) (*domain.Trip, error) {
	data, err := s.client.Get(ctx, tripCachePrefix+tripID).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var cached cachedTrip
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}

	return cached.toDomain(), nil
}

// SetTrip stores a trip with its populated references in cache.
func (s *CacheStore) SetTrip(ctx context.Context, trip *domain.Trip) error {
	if trip.Driver == nil || trip.Company == nil || trip.Vehicle == nil {
		return nil // only fully populated trips are cacheable
	}

	data, err := json.Marshal(newCachedTrip(trip))
	if err != nil {
		return err
	}
	return s.client.Set(ctx, tripCachePrefix+trip.ID, data, TripCacheTTL).Err()
}

// InvalidateTrip removes a trip from cache.
func (s *CacheStore) InvalidateTrip(ctx context.Context, tripID string) error {
	return s.client.Del(ctx, tripCachePrefix+tripID).Err()
}
