package tests

import (
	"context"
	"errors"
	"testing"
	"time"

	"fleet/internal/domain"
	"fleet/internal/service"
)

// ──────────────────────────────────────────────
// 2. DUPLICATE-TRIP GUARD
// ──────────────────────────────────────────────

// seedTripParticipants stores a company, driver and vehicle directly and
// returns a request that resolves to them.
func seedTripParticipants(f *tripFixture) service.CreateTripRequest {
	f.companyRepo.AddCompany(&domain.Company{
		ID:             "company-1",
		Name:           "Acme Logistics",
		NameNormalized: "acmelogistics",
	})
	f.driverRepo.AddDriver(&domain.Driver{
		ID:          "driver-1",
		CompanyID:   "company-1",
		FullName:    "Ahmet Yilmaz",
		PhoneNumber: "+905551112233",
	})
	f.vehicleRepo.AddVehicle(&domain.Vehicle{
		ID:           "vehicle-1",
		LicencePlate: "34ABC123",
		VehicleType:  domain.VehicleTypeTruck,
	})
	return service.CreateTripRequest{
		DriverPhoneNumber: "+905551112233",
		CompanyName:       "Acme Logistics",
		LicencePlate:      "34ABC123",
	}
}

func guardTrip(arrivedAgo time.Duration, status domain.UnloadStatus, canceled bool) *domain.Trip {
	return &domain.Trip{
		ID:             "trip-existing",
		DriverID:       "driver-1",
		CompanyID:      "company-1",
		VehicleID:      "vehicle-1",
		ArrivalTime:    time.Now().Add(-arrivedAgo),
		UnloadStatus:   status,
		IsTripCanceled: canceled,
	}
}

func TestTripGuard_RecentActiveTrip_Blocks(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	req := seedTripParticipants(f)

	// A trip from three days ago that is still waiting to unload.
	f.tripRepo.AddTrip(guardTrip(3*24*time.Hour, domain.UnloadStatusWaiting, false))

	_, err := f.trips.Create(context.Background(), req)
	if !errors.Is(err, service.ErrActiveTripExists) {
		t.Fatalf("expected ErrActiveTripExists, got %v", err)
	}

	var active *service.ActiveTripError
	if !errors.As(err, &active) {
		t.Fatal("expected an ActiveTripError")
	}
	if active.TripID != "trip-existing" {
		t.Errorf("expected conflict to name trip-existing, got %s", active.TripID)
	}
	if active.UnloadStatus != domain.UnloadStatusWaiting {
		t.Errorf("expected conflict status WAITING, got %s", active.UnloadStatus)
	}

	if f.tripRepo.CountTrips() != 1 {
		t.Errorf("expected no new trip persisted, got %d total", f.tripRepo.CountTrips())
	}
}

func TestTripGuard_UnloadingTrip_StillBlocks(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	req := seedTripParticipants(f)
	f.tripRepo.AddTrip(guardTrip(24*time.Hour, domain.UnloadStatusUnloading, false))

	_, err := f.trips.Create(context.Background(), req)
	if !errors.Is(err, service.ErrActiveTripExists) {
		t.Fatalf("expected ErrActiveTripExists, got %v", err)
	}
}

func TestTripGuard_UnloadedTrip_Allows(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	req := seedTripParticipants(f)
	f.tripRepo.AddTrip(guardTrip(3*24*time.Hour, domain.UnloadStatusUnloaded, false))

	if _, err := f.trips.Create(context.Background(), req); err != nil {
		t.Fatalf("expected unloaded trip to allow a new record, got %v", err)
	}
	if f.tripRepo.CountTrips() != 2 {
		t.Errorf("expected 2 trips, got %d", f.tripRepo.CountTrips())
	}
}

func TestTripGuard_CanceledTrip_Allows(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	req := seedTripParticipants(f)
	f.tripRepo.AddTrip(guardTrip(3*24*time.Hour, domain.UnloadStatusWaiting, true))

	if _, err := f.trips.Create(context.Background(), req); err != nil {
		t.Fatalf("expected canceled trip to allow a new record, got %v", err)
	}
}

func TestTripGuard_TripOutsideWindow_Allows(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	req := seedTripParticipants(f)

	// Fifteen days old: outside the fourteen-day lookback even though the
	// trip was never resolved.
	f.tripRepo.AddTrip(guardTrip(15*24*time.Hour, domain.UnloadStatusWaiting, false))

	if _, err := f.trips.Create(context.Background(), req); err != nil {
		t.Fatalf("expected stale trip to allow a new record, got %v", err)
	}
	if f.tripRepo.CountTrips() != 2 {
		t.Errorf("expected 2 trips, got %d", f.tripRepo.CountTrips())
	}
}

func TestTripGuard_MostRecentTripDecides(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	req := seedTripParticipants(f)

	// An older unresolved trip followed by a newer resolved one: only the
	// most recent trip is consulted, so the record goes through.
	older := guardTrip(10*24*time.Hour, domain.UnloadStatusWaiting, false)
	older.ID = "trip-older"
	f.tripRepo.AddTrip(older)
	f.tripRepo.AddTrip(guardTrip(2*24*time.Hour, domain.UnloadStatusUnloaded, false))

	if _, err := f.trips.Create(context.Background(), req); err != nil {
		t.Fatalf("expected most recent resolved trip to allow a new record, got %v", err)
	}
}

func TestTripGuard_DifferentParticipants_NotConsulted(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		mutate func(*domain.Trip)
	}{
		{
			name:   "different driver",
			mutate: func(tr *domain.Trip) { tr.DriverID = "driver-other" },
		},
		{
			name:   "different company",
			mutate: func(tr *domain.Trip) { tr.CompanyID = "company-other" },
		},
		{
			name:   "different vehicle",
			mutate: func(tr *domain.Trip) { tr.VehicleID = "vehicle-other" },
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := newTripFixture()
			req := seedTripParticipants(f)

			existing := guardTrip(2*24*time.Hour, domain.UnloadStatusWaiting, false)
			tc.mutate(existing)
			f.tripRepo.AddTrip(existing)

			if _, err := f.trips.Create(context.Background(), req); err != nil {
				t.Fatalf("expected trip with %s to be ignored, got %v", tc.name, err)
			}
		})
	}
}

func TestTripGuard_SoftDeletedTrip_NotConsulted(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	req := seedTripParticipants(f)

	deleted := guardTrip(2*24*time.Hour, domain.UnloadStatusWaiting, false)
	deleted.Deleted = true
	f.tripRepo.AddTrip(deleted)

	if _, err := f.trips.Create(context.Background(), req); err != nil {
		t.Fatalf("expected soft-deleted trip to be ignored, got %v", err)
	}
}
