package tests

import (
	"context"
	"errors"
	"testing"

	"fleet/internal/domain"
	"fleet/internal/repository"
	"fleet/internal/service"
)

// ──────────────────────────────────────────────
// 1. TRIP CREATION ORCHESTRATION
// ──────────────────────────────────────────────

type tripFixture struct {
	companyRepo *MockCompanyRepository
	driverRepo  *MockDriverRepository
	vehicleRepo *MockVehicleRepository
	tripRepo    *MockTripRepository
	trips       *service.TripService
}

func newTripFixture() *tripFixture {
	companyRepo := NewMockCompanyRepository()
	driverRepo := NewMockDriverRepository()
	driverRepo.Companies = companyRepo
	vehicleRepo := NewMockVehicleRepository()
	tripRepo := NewMockTripRepository()

	companyService := service.NewCompanyService(companyRepo)
	driverService := service.NewDriverService(driverRepo, companyRepo)
	vehicleService := service.NewVehicleService(vehicleRepo)

	return &tripFixture{
		companyRepo: companyRepo,
		driverRepo:  driverRepo,
		vehicleRepo: vehicleRepo,
		tripRepo:    tripRepo,
		trips:       service.NewTripService(tripRepo, companyService, driverService, vehicleService, nil),
	}
}

func TestTripCreate_AllNewEntities_CreatesEverything(t *testing.T) {
	t.Parallel()

	f := newTripFixture()

	// Empty store: one request should produce one company, one driver, one
	// vehicle and one trip, all linked together.
	trip, err := f.trips.Create(context.Background(), service.CreateTripRequest{
		DriverPhoneNumber: "+905551112233",
		DriverFullName:    "Ahmet Yilmaz",
		CompanyName:       "Acme Logistics",
		LicencePlate:      "34 ABC 123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.companyRepo.CountCompanies() != 1 {
		t.Errorf("expected 1 company, got %d", f.companyRepo.CountCompanies())
	}
	if f.driverRepo.CountDrivers() != 1 {
		t.Errorf("expected 1 driver, got %d", f.driverRepo.CountDrivers())
	}
	if f.vehicleRepo.CountVehicles() != 1 {
		t.Errorf("expected 1 vehicle, got %d", f.vehicleRepo.CountVehicles())
	}
	if f.tripRepo.CountTrips() != 1 {
		t.Errorf("expected 1 trip, got %d", f.tripRepo.CountTrips())
	}

	if trip.Company == nil || trip.Company.Name != "Acme Logistics" {
		t.Fatalf("expected trip company Acme Logistics, got %+v", trip.Company)
	}
	if trip.CompanyID != trip.Company.ID {
		t.Errorf("trip company id %s does not match company %s", trip.CompanyID, trip.Company.ID)
	}
	if trip.Driver == nil || trip.Driver.FullName != "Ahmet Yilmaz" {
		t.Fatalf("expected trip driver Ahmet Yilmaz, got %+v", trip.Driver)
	}
	if trip.Driver.CompanyID != trip.Company.ID {
		t.Errorf("driver belongs to company %s, want %s", trip.Driver.CompanyID, trip.Company.ID)
	}
	if trip.Vehicle == nil {
		t.Fatal("expected trip vehicle to be populated")
	}
	if trip.Vehicle.LicencePlate != "34ABC123" {
		t.Errorf("expected normalized plate 34ABC123, got %s", trip.Vehicle.LicencePlate)
	}
	if trip.Vehicle.VehicleType != domain.VehicleTypeTruck {
		t.Errorf("expected default vehicle type TRUCK, got %s", trip.Vehicle.VehicleType)
	}
	if trip.UnloadStatus != domain.UnloadStatusWaiting {
		t.Errorf("expected default unload status WAITING, got %s", trip.UnloadStatus)
	}
	if trip.ArrivalTime.IsZero() {
		t.Error("expected arrival time to default to now")
	}
}

func TestTripCreate_AllExistingEntities_AddsOnlyTrip(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	ctx := context.Background()

	first, err := f.trips.Create(ctx, service.CreateTripRequest{
		DriverPhoneNumber: "+905551112233",
		DriverFullName:    "Ahmet Yilmaz",
		CompanyName:       "Acme Logistics",
		LicencePlate:      "34ABC123",
	})
	if err != nil {
		t.Fatalf("unexpected error on first trip: %v", err)
	}

	// Resolve the first trip before recording a second with identical keys.
	unloaded := domain.UnloadStatusUnloaded
	if _, err := f.trips.Update(ctx, first.ID, service.UpdateTripRequest{UnloadStatus: &unloaded}); err != nil {
		t.Fatalf("failed to resolve first trip: %v", err)
	}

	second, err := f.trips.Create(ctx, service.CreateTripRequest{
		DriverPhoneNumber: "+905551112233",
		CompanyName:       "Acme Logistics",
		LicencePlate:      "34ABC123",
	})
	if err != nil {
		t.Fatalf("unexpected error on second trip: %v", err)
	}

	if f.companyRepo.CountCompanies() != 1 {
		t.Errorf("expected companies to be reused, got %d", f.companyRepo.CountCompanies())
	}
	if f.driverRepo.CountDrivers() != 1 {
		t.Errorf("expected drivers to be reused, got %d", f.driverRepo.CountDrivers())
	}
	if f.vehicleRepo.CountVehicles() != 1 {
		t.Errorf("expected vehicles to be reused, got %d", f.vehicleRepo.CountVehicles())
	}
	if f.tripRepo.CountTrips() != 2 {
		t.Errorf("expected 2 trips, got %d", f.tripRepo.CountTrips())
	}

	if second.CompanyID != first.CompanyID {
		t.Errorf("second trip company %s, want %s", second.CompanyID, first.CompanyID)
	}
	if second.DriverID != first.DriverID {
		t.Errorf("second trip driver %s, want %s", second.DriverID, first.DriverID)
	}
	if second.VehicleID != first.VehicleID {
		t.Errorf("second trip vehicle %s, want %s", second.VehicleID, first.VehicleID)
	}
}

func TestTripCreate_EquivalentPlateSpellings_ResolveSameVehicle(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	ctx := context.Background()

	first, err := f.trips.Create(ctx, service.CreateTripRequest{
		DriverPhoneNumber: "+905551112233",
		DriverFullName:    "Ahmet Yilmaz",
		CompanyName:       "Acme Logistics",
		LicencePlate:      "34 abc 123",
	})
	if err != nil {
		t.Fatalf("unexpected error on first trip: %v", err)
	}

	unloaded := domain.UnloadStatusUnloaded
	if _, err := f.trips.Update(ctx, first.ID, service.UpdateTripRequest{UnloadStatus: &unloaded}); err != nil {
		t.Fatalf("failed to resolve first trip: %v", err)
	}

	second, err := f.trips.Create(ctx, service.CreateTripRequest{
		DriverPhoneNumber: "+905551112233",
		CompanyName:       "Acme Logistics",
		LicencePlate:      "34ABC123",
	})
	if err != nil {
		t.Fatalf("unexpected error on second trip: %v", err)
	}

	if f.vehicleRepo.CountVehicles() != 1 {
		t.Fatalf("expected both spellings to resolve to one vehicle, got %d", f.vehicleRepo.CountVehicles())
	}
	if second.VehicleID != first.VehicleID {
		t.Errorf("second trip vehicle %s, want %s", second.VehicleID, first.VehicleID)
	}
}

func TestTripCreate_UnknownDriverWithoutName_RejectedAtomically(t *testing.T) {
	t.Parallel()

	f := newTripFixture()

	_, err := f.trips.Create(context.Background(), service.CreateTripRequest{
		DriverPhoneNumber: "+905551112233",
		CompanyName:       "Acme Logistics",
		LicencePlate:      "34ABC123",
	})
	if !errors.Is(err, service.ErrNewDriverNameRequired) {
		t.Fatalf("expected ErrNewDriverNameRequired, got %v", err)
	}

	// No driver or trip may be left behind. The company resolver runs first
	// and its side effect stands; that is the documented behavior.
	if f.driverRepo.CountDrivers() != 0 {
		t.Errorf("expected no drivers persisted, got %d", f.driverRepo.CountDrivers())
	}
	if f.vehicleRepo.CountVehicles() != 0 {
		t.Errorf("expected no vehicles persisted, got %d", f.vehicleRepo.CountVehicles())
	}
	if f.tripRepo.CountTrips() != 0 {
		t.Errorf("expected no trips persisted, got %d", f.tripRepo.CountTrips())
	}
}

func TestTripCreate_InputValidation(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		req     service.CreateTripRequest
		wantErr error
	}{
		{
			name: "missing phone number",
			req: service.CreateTripRequest{
				CompanyName:  "Acme Logistics",
				LicencePlate: "34ABC123",
			},
			wantErr: service.ErrInvalidDriverPhone,
		},
		{
			name: "missing company name",
			req: service.CreateTripRequest{
				DriverPhoneNumber: "+905551112233",
				DriverFullName:    "Ahmet Yilmaz",
				LicencePlate:      "34ABC123",
			},
			wantErr: service.ErrInvalidCompanyName,
		},
		{
			name: "plate too short after normalization",
			req: service.CreateTripRequest{
				DriverPhoneNumber: "+905551112233",
				DriverFullName:    "Ahmet Yilmaz",
				CompanyName:       "Acme Logistics",
				LicencePlate:      "3 4",
			},
			wantErr: service.ErrInvalidLicencePlate,
		},
		{
			name: "unknown unload status",
			req: service.CreateTripRequest{
				DriverPhoneNumber: "+905551112233",
				DriverFullName:    "Ahmet Yilmaz",
				CompanyName:       "Acme Logistics",
				LicencePlate:      "34ABC123",
				UnloadStatus:      domain.UnloadStatus("SHIPPED"),
			},
			wantErr: service.ErrInvalidUnloadStatus,
		},
		{
			name: "unknown vehicle type",
			req: service.CreateTripRequest{
				DriverPhoneNumber: "+905551112233",
				DriverFullName:    "Ahmet Yilmaz",
				CompanyName:       "Acme Logistics",
				LicencePlate:      "34ABC123",
				VehicleType:       domain.VehicleType("BICYCLE"),
			},
			wantErr: service.ErrInvalidVehicleType,
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newTripFixture()
			_, err := f.trips.Create(context.Background(), tc.req)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
			if f.tripRepo.CountTrips() != 0 {
				t.Errorf("expected no trips persisted, got %d", f.tripRepo.CountTrips())
			}
		})
	}
}

func TestTripCreate_SoftDeletedDriver_NotResolved(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	ctx := context.Background()

	company, err := service.NewCompanyService(f.companyRepo).Create(ctx, service.CreateCompanyRequest{Name: "Acme Logistics"})
	if err != nil {
		t.Fatalf("failed to create company: %v", err)
	}
	f.driverRepo.AddDriver(&domain.Driver{
		ID:          "driver-old",
		CompanyID:   company.ID,
		FullName:    "Ahmet Yilmaz",
		PhoneNumber: "+905551112233",
		Deleted:     true,
	})

	// The phone resolver must not see the deleted driver, so without a name
	// the request fails instead of quietly reusing the dead record.
	_, err = f.trips.Create(ctx, service.CreateTripRequest{
		DriverPhoneNumber: "+905551112233",
		CompanyName:       "Acme Logistics",
		LicencePlate:      "34ABC123",
	})
	if !errors.Is(err, service.ErrNewDriverNameRequired) {
		t.Fatalf("expected ErrNewDriverNameRequired, got %v", err)
	}
}

func TestTripCreate_RepositoryFailure_Propagates(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	injected := errors.New("connection reset")
	f.tripRepo.CreateError = injected

	_, err := f.trips.Create(context.Background(), service.CreateTripRequest{
		DriverPhoneNumber: "+905551112233",
		DriverFullName:    "Ahmet Yilmaz",
		CompanyName:       "Acme Logistics",
		LicencePlate:      "34ABC123",
	})
	if !errors.Is(err, injected) {
		t.Fatalf("expected injected repository error, got %v", err)
	}
}

func TestTripCreate_DuplicateKeyFromStore_Surfaces(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	f.vehicleRepo.CreateError = &repository.DuplicateKeyError{Field: "licence_plate", Value: "34ABC123"}

	_, err := f.trips.Create(context.Background(), service.CreateTripRequest{
		DriverPhoneNumber: "+905551112233",
		DriverFullName:    "Ahmet Yilmaz",
		CompanyName:       "Acme Logistics",
		LicencePlate:      "34ABC123",
	})
	if !errors.Is(err, repository.ErrDuplicateKey) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}

	var dup *repository.DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatal("expected a DuplicateKeyError")
	}
	if dup.Field != "licence_plate" || dup.Value != "34ABC123" {
		t.Errorf("unexpected duplicate detail: %+v", dup)
	}
}
