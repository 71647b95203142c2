package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// DriverService handles driver operations.
type DriverService struct {
	driverRepo  repository.DriverRepository
	companyRepo repository.CompanyRepository
}

// NewDriverService creates a new DriverService.
func NewDriverService(driverRepo repository.DriverRepository, companyRepo repository.CompanyRepository) *DriverService {
	return &DriverService{driverRepo: driverRepo, companyRepo: companyRepo}
}

// FindByPhone returns the non-deleted driver with the given phone number, the
// owning company populated, or nil if no such driver exists.
func (s *DriverService) FindByPhone(ctx context.Context, phone string) (*domain.Driver, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nil, ErrInvalidDriverPhone
	}

	driver, err := s.driverRepo.GetByPhone(ctx, phone, false)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return driver, nil
}

// CreateDriverRequest contains the parameters for creating a driver.
type CreateDriverRequest struct {
	CompanyID   string
	FullName    string
	PhoneNumber string
}

// Create adds a new driver scoped to an existing company. If a soft-deleted
// driver already holds the phone number it is revived instead; a live
// duplicate is a conflict.
func (s *DriverService) Create(ctx context.Context, req CreateDriverRequest) (*domain.Driver, error) {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, ErrInvalidDriverName
	}
	if req.CompanyID == "" {
		return nil, ErrInvalidCompanyID
	}
	phone := strings.TrimSpace(req.PhoneNumber)

	if phone != "" {
		existing, err := s.driverRepo.GetByPhone(ctx, phone, true)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			if !existing.Deleted {
				return nil, &repository.DuplicateKeyError{Field: "phone_number", Value: phone}
			}
			existing.Deleted = false
			existing.UpdatedAt = time.Now()
			if err := s.driverRepo.Update(ctx, existing); err != nil {
				return nil, err
			}
			return existing, nil
		}
	}

	// The owning company must exist and be live.
	company, err := s.companyRepo.GetByID(ctx, req.CompanyID)
	if err != nil {
		return nil, err
	}
	if company.Deleted {
		return nil, repository.ErrNotFound
	}

	now := time.Now()
	driver := &domain.Driver{
		ID:          uuid.New().String(),
		CompanyID:   company.ID,
		FullName:    fullName,
		PhoneNumber: phone,
		CreatedAt:   now,
		UpdatedAt:   now,
		Company:     company,
	}

	if err := s.driverRepo.Create(ctx, driver); err != nil {
		return nil, err
	}

	return driver, nil
}

// List retrieves non-deleted drivers, optionally filtered by company and by a
// case-insensitive search over name and phone, along with the match count.
func (s *DriverService) List(ctx context.Context, filter repository.DriverFilter, page repository.Page) ([]*domain.Driver, int64, error) {
	filter.Search = strings.TrimSpace(filter.Search)

	drivers, err := s.driverRepo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.driverRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return drivers, count, nil
}

// Get retrieves a non-deleted driver by ID. A malformed ID is rejected
// before it reaches the store.
func (s *DriverService) Get(ctx context.Context, id string) (*domain.Driver, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrInvalidDriverID
	}

	driver, err := s.driverRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if driver.Deleted {
		return nil, repository.ErrNotFound
	}

	return driver, nil
}

// UpdateDriverRequest contains the fields that may be patched on a driver.
// Nil fields are left unchanged.
type UpdateDriverRequest struct {
	CompanyID   *string
	FullName    *string
	PhoneNumber *string
	Deleted     *bool
}

// Update patches an existing driver.
func (s *DriverService) Update(ctx context.Context, id string, req UpdateDriverRequest) (*domain.Driver, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrInvalidDriverID
	}

	driver, err := s.driverRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CompanyID != nil {
		company, err := s.companyRepo.GetByID(ctx, *req.CompanyID)
		if err != nil {
			return nil, err
		}
		if company.Deleted {
			return nil, repository.ErrNotFound
		}
		driver.CompanyID = company.ID
	}
	if req.FullName != nil {
		fullName := strings.TrimSpace(*req.FullName)
		if fullName == "" {
			return nil, ErrInvalidDriverName
		}
		driver.FullName = fullName
	}
	if req.PhoneNumber != nil {
		driver.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.Deleted != nil {
		driver.Deleted = *req.Deleted
	}
	driver.UpdatedAt = time.Now()

	if err := s.driverRepo.Update(ctx, driver); err != nil {
		return nil, err
	}

	return driver, nil
}

// Remove soft-deletes a driver.
func (s *DriverService) Remove(ctx context.Context, id string) (*domain.Driver, error) {
	driver, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	driver.Deleted = true
	driver.UpdatedAt = time.Now()
	if err := s.driverRepo.Update(ctx, driver); err != nil {
		return nil, err
	}

	return driver, nil
}
