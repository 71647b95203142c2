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
// 4. ENTITY LIFECYCLE: CREATE, REVIVE, SOFT DELETE
// ──────────────────────────────────────────────

func TestCompanyCreate_LiveDuplicate_Conflicts(t *testing.T) {
	t.Parallel()

	companyRepo := NewMockCompanyRepository()
	companyService := service.NewCompanyService(companyRepo)
	ctx := context.Background()

	if _, err := companyService.Create(ctx, service.CreateCompanyRequest{Name: "Acme Logistics"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := companyService.Create(ctx, service.CreateCompanyRequest{Name: "Acme Logistics"})
	if !errors.Is(err, repository.ErrDuplicateKey) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}

func TestCompanyCreate_SoftDeletedName_Revived(t *testing.T) {
	t.Parallel()

	companyRepo := NewMockCompanyRepository()
	companyRepo.AddCompany(&domain.Company{
		ID:             "company-dead",
		Name:           "Acme Logistics",
		NameNormalized: "acmelogistics",
		Deleted:        true,
	})
	companyService := service.NewCompanyService(companyRepo)

	company, err := companyService.Create(context.Background(), service.CreateCompanyRequest{Name: "Acme Logistics"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if company.ID != "company-dead" {
		t.Errorf("expected the dead record to be revived, got new company %s", company.ID)
	}
	if company.Deleted {
		t.Error("expected revived company to be live")
	}
	if companyRepo.CountCompanies() != 1 {
		t.Errorf("expected a single company record, got %d", companyRepo.CountCompanies())
	}
}

func TestCompanyRemove_SoftDeletes(t *testing.T) {
	t.Parallel()

	companyRepo := NewMockCompanyRepository()
	companyService := service.NewCompanyService(companyRepo)
	ctx := context.Background()

	company, err := companyService.Create(ctx, service.CreateCompanyRequest{Name: "Acme Logistics"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := companyService.Remove(ctx, company.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The record survives for history but is gone from reads and listings.
	if companyRepo.CountCompanies() != 1 {
		t.Errorf("expected record to survive soft delete, got %d", companyRepo.CountCompanies())
	}
	if _, err := companyService.Get(ctx, company.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after soft delete, got %v", err)
	}
	_, count, err := companyService.List(ctx, "", repository.Page{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Errorf("expected deleted company excluded from listing, count %d", count)
	}
}

func TestCompanyUpdate_Rename_RecomputesNormalizedName(t *testing.T) {
	t.Parallel()

	companyRepo := NewMockCompanyRepository()
	companyService := service.NewCompanyService(companyRepo)
	ctx := context.Background()

	company, err := companyService.Create(ctx, service.CreateCompanyRequest{Name: "Acme Logistics"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	newName := "Globex Shipping"
	updated, err := companyService.Update(ctx, company.ID, service.UpdateCompanyRequest{Name: &newName})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.NameNormalized != "globexshipping" {
		t.Errorf("expected normalized name globexshipping, got %q", updated.NameNormalized)
	}
}

func TestDriverCreate_RequiresLiveCompany(t *testing.T) {
	t.Parallel()

	companyRepo := NewMockCompanyRepository()
	companyRepo.AddCompany(&domain.Company{
		ID:             "company-dead",
		Name:           "Acme Logistics",
		NameNormalized: "acmelogistics",
		Deleted:        true,
	})
	driverService := service.NewDriverService(NewMockDriverRepository(), companyRepo)
	ctx := context.Background()

	testCases := []struct {
		name      string
		companyID string
	}{
		{name: "unknown company", companyID: "company-missing"},
		{name: "soft-deleted company", companyID: "company-dead"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := driverService.Create(ctx, service.CreateDriverRequest{
				CompanyID:   tc.companyID,
				FullName:    "Ahmet Yilmaz",
				PhoneNumber: "+905551112233",
			})
			if !errors.Is(err, repository.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestDriverCreate_LiveDuplicatePhone_Conflicts(t *testing.T) {
	t.Parallel()

	companyRepo := NewMockCompanyRepository()
	companyRepo.AddCompany(&domain.Company{
		ID:             "company-1",
		Name:           "Acme Logistics",
		NameNormalized: "acmelogistics",
	})
	driverRepo := NewMockDriverRepository()
	driverRepo.AddDriver(&domain.Driver{
		ID:          "driver-1",
		CompanyID:   "company-1",
		FullName:    "Ahmet Yilmaz",
		PhoneNumber: "+905551112233",
	})
	driverService := service.NewDriverService(driverRepo, companyRepo)

	_, err := driverService.Create(context.Background(), service.CreateDriverRequest{
		CompanyID:   "company-1",
		FullName:    "Mehmet Demir",
		PhoneNumber: "+905551112233",
	})
	if !errors.Is(err, repository.ErrDuplicateKey) {
		t.Fatalf("expected duplicate key error, got %v", err)
	}

	var dup *repository.DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatal("expected a DuplicateKeyError")
	}
	if dup.Field != "phone_number" {
		t.Errorf("expected conflict on phone_number, got %s", dup.Field)
	}
}

func TestDriverCreate_SoftDeletedPhone_Revived(t *testing.T) {
	t.Parallel()

	companyRepo := NewMockCompanyRepository()
	companyRepo.AddCompany(&domain.Company{
		ID:             "company-1",
		Name:           "Acme Logistics",
		NameNormalized: "acmelogistics",
	})
	driverRepo := NewMockDriverRepository()
	driverRepo.AddDriver(&domain.Driver{
		ID:          "driver-dead",
		CompanyID:   "company-1",
		FullName:    "Ahmet Yilmaz",
		PhoneNumber: "+905551112233",
		Deleted:     true,
	})
	driverService := service.NewDriverService(driverRepo, companyRepo)

	driver, err := driverService.Create(context.Background(), service.CreateDriverRequest{
		CompanyID:   "company-1",
		FullName:    "Ahmet Yilmaz",
		PhoneNumber: "+905551112233",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if driver.ID != "driver-dead" {
		t.Errorf("expected the dead record to be revived, got new driver %s", driver.ID)
	}
	if driver.Deleted {
		t.Error("expected revived driver to be live")
	}
}

func TestDriverList_FiltersByCompany(t *testing.T) {
	t.Parallel()

	driverRepo := NewMockDriverRepository()
	driverRepo.AddDriver(&domain.Driver{ID: "driver-1", CompanyID: "company-1", FullName: "Ahmet Yilmaz"})
	driverRepo.AddDriver(&domain.Driver{ID: "driver-2", CompanyID: "company-2", FullName: "Mehmet Demir"})
	driverService := service.NewDriverService(driverRepo, NewMockCompanyRepository())

	drivers, count, err := driverService.List(context.Background(), repository.DriverFilter{CompanyID: "company-1"}, repository.Page{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 || len(drivers) != 1 {
		t.Fatalf("expected one driver for company-1, got %d (count %d)", len(drivers), count)
	}
	if drivers[0].ID != "driver-1" {
		t.Errorf("expected driver-1, got %s", drivers[0].ID)
	}
}

func TestTripRemove_KeepsRecordForGuardHistory(t *testing.T) {
	t.Parallel()

	f := newTripFixture()
	ctx := context.Background()

	trip, err := f.trips.Create(ctx, service.CreateTripRequest{
		DriverPhoneNumber: "+905551112233",
		DriverFullName:    "Ahmet Yilmaz",
		CompanyName:       "Acme Logistics",
		LicencePlate:      "34ABC123",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := f.trips.Remove(ctx, trip.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.tripRepo.CountTrips() != 1 {
		t.Errorf("expected trip record to survive soft delete, got %d", f.tripRepo.CountTrips())
	}
	if _, err := f.trips.Get(ctx, trip.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after soft delete, got %v", err)
	}

	// A deleted trip no longer blocks a new record for the same participants.
	if _, err := f.trips.Create(ctx, service.CreateTripRequest{
		DriverPhoneNumber: "+905551112233",
		CompanyName:       "Acme Logistics",
		LicencePlate:      "34ABC123",
	}); err != nil {
		t.Fatalf("expected deleted trip to be ignored by the guard, got %v", err)
	}
}
