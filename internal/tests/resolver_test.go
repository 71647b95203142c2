package tests

import (
	"context"
	"errors"
	"testing"

	"fleet/internal/domain"
	"fleet/internal/service"
)

// ──────────────────────────────────────────────
// 3. FIND-OR-CREATE RESOLVERS
// ──────────────────────────────────────────────

func TestCompanyResolver_ExistingName_ReturnedUnchanged(t *testing.T) {
	t.Parallel()

	companyRepo := NewMockCompanyRepository()
	companyRepo.AddCompany(&domain.Company{
		ID:             "company-1",
		Name:           "Acme Logistics",
		NameNormalized: "acmelogistics",
	})
	companyService := service.NewCompanyService(companyRepo)

	company, err := companyService.FindOrCreateByName(context.Background(), "Acme Logistics")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if company.ID != "company-1" {
		t.Errorf("expected existing company to be resolved, got %s", company.ID)
	}
	if companyRepo.CreateCallCount != 0 {
		t.Errorf("expected no create call, got %d", companyRepo.CreateCallCount)
	}
}

func TestCompanyResolver_UnknownName_Creates(t *testing.T) {
	t.Parallel()

	companyRepo := NewMockCompanyRepository()
	companyService := service.NewCompanyService(companyRepo)

	company, err := companyService.FindOrCreateByName(context.Background(), "  Acme Logistics  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if company.Name != "Acme Logistics" {
		t.Errorf("expected trimmed display name, got %q", company.Name)
	}
	if company.NameNormalized != "acmelogistics" {
		t.Errorf("expected normalized name acmelogistics, got %q", company.NameNormalized)
	}
	if companyRepo.CreateCallCount != 1 {
		t.Errorf("expected one create call, got %d", companyRepo.CreateCallCount)
	}
}

func TestCompanyResolver_SoftDeletedName_NotRevived(t *testing.T) {
	t.Parallel()

	companyRepo := NewMockCompanyRepository()
	companyRepo.AddCompany(&domain.Company{
		ID:             "company-dead",
		Name:           "Acme Logistics",
		NameNormalized: "acmelogistics",
		Deleted:        true,
	})
	companyService := service.NewCompanyService(companyRepo)

	// The resolver ignores the deleted record and creates a fresh company;
	// reviving is reserved for the explicit create endpoint.
	company, err := companyService.FindOrCreateByName(context.Background(), "Acme Logistics")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if company.ID == "company-dead" {
		t.Error("resolver must not revive a soft-deleted company")
	}
	if companyRepo.CountCompanies() != 2 {
		t.Errorf("expected dead and fresh companies to coexist, got %d", companyRepo.CountCompanies())
	}
}

func TestVehicleResolver_NormalizationIdempotent(t *testing.T) {
	t.Parallel()

	vehicleRepo := NewMockVehicleRepository()
	vehicleService := service.NewVehicleService(vehicleRepo)
	ctx := context.Background()

	spellings := []string{"34 ABC 123", "34 abc 123", "34ABC123", " 34aBc123 "}
	firstID := ""
	for _, plate := range spellings {
		vehicle, err := vehicleService.FindOrCreateByPlate(ctx, plate, "")
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", plate, err)
		}
		if vehicle.LicencePlate != "34ABC123" {
			t.Errorf("spelling %q normalized to %q, want 34ABC123", plate, vehicle.LicencePlate)
		}
		if firstID == "" {
			firstID = vehicle.ID
		} else if vehicle.ID != firstID {
			t.Errorf("spelling %q resolved to vehicle %s, want %s", plate, vehicle.ID, firstID)
		}
	}

	if vehicleRepo.CreateCallCount != 1 {
		t.Errorf("expected one create across all spellings, got %d", vehicleRepo.CreateCallCount)
	}
}

func TestVehicleResolver_TypeOnlyAppliesToNewVehicles(t *testing.T) {
	t.Parallel()

	vehicleRepo := NewMockVehicleRepository()
	vehicleRepo.AddVehicle(&domain.Vehicle{
		ID:           "vehicle-1",
		LicencePlate: "34ABC123",
		VehicleType:  domain.VehicleTypeTruck,
	})
	vehicleService := service.NewVehicleService(vehicleRepo)

	// Requesting a different type for an existing plate does not retype it.
	vehicle, err := vehicleService.FindOrCreateByPlate(context.Background(), "34ABC123", domain.VehicleTypeVan)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vehicle.VehicleType != domain.VehicleTypeTruck {
		t.Errorf("expected existing type TRUCK to stand, got %s", vehicle.VehicleType)
	}
}

func TestVehicleResolver_ShortPlate_Rejected(t *testing.T) {
	t.Parallel()

	vehicleService := service.NewVehicleService(NewMockVehicleRepository())

	_, err := vehicleService.FindOrCreateByPlate(context.Background(), " 3 4 ", "")
	if !errors.Is(err, service.ErrInvalidLicencePlate) {
		t.Fatalf("expected ErrInvalidLicencePlate, got %v", err)
	}
}

func TestDriverFindByPhone_Unknown_ReturnsNil(t *testing.T) {
	t.Parallel()

	driverRepo := NewMockDriverRepository()
	driverService := service.NewDriverService(driverRepo, NewMockCompanyRepository())

	driver, err := driverService.FindByPhone(context.Background(), "+905551112233")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if driver != nil {
		t.Fatalf("expected nil for unknown phone, got %+v", driver)
	}
}

func TestDriverFindByPhone_PopulatesCompany(t *testing.T) {
	t.Parallel()

	companyRepo := NewMockCompanyRepository()
	companyRepo.AddCompany(&domain.Company{
		ID:             "company-1",
		Name:           "Acme Logistics",
		NameNormalized: "acmelogistics",
	})
	driverRepo := NewMockDriverRepository()
	driverRepo.Companies = companyRepo
	driverRepo.AddDriver(&domain.Driver{
		ID:          "driver-1",
		CompanyID:   "company-1",
		FullName:    "Ahmet Yilmaz",
		PhoneNumber: "+905551112233",
	})
	driverService := service.NewDriverService(driverRepo, companyRepo)

	driver, err := driverService.FindByPhone(context.Background(), "+905551112233")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if driver == nil {
		t.Fatal("expected driver to be found")
	}
	if driver.Company == nil || driver.Company.Name != "Acme Logistics" {
		t.Errorf("expected owning company to be populated, got %+v", driver.Company)
	}
}
