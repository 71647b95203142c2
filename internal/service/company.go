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

// CompanyService handles company operations.
type CompanyService struct {
	companyRepo repository.CompanyRepository
}

// NewCompanyService creates a new CompanyService.
func NewCompanyService(companyRepo repository.CompanyRepository) *CompanyService {
	return &CompanyService{companyRepo: companyRepo}
}

// FindOrCreateByName returns the non-deleted company with the given display
// name, creating one if absent. Soft-deleted companies are not revived here;
// reviving is an explicit Create/Update concern.
func (s *CompanyService) FindOrCreateByName(ctx context.Context, name string) (*domain.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidCompanyName
	}

	return resolveOrCreate(ctx,
		func(ctx context.Context) (*domain.Company, error) {
			return s.companyRepo.GetByName(ctx, name, false)
		},
		func(ctx context.Context) (*domain.Company, error) {
			company := newCompany(name)
			if err := s.companyRepo.Create(ctx, company); err != nil {
				return nil, err
			}
			return company, nil
		},
	)
}

// CreateCompanyRequest contains the parameters for creating a company.
type CreateCompanyRequest struct {
	Name string
}

// Create adds a new company. If a soft-deleted company already holds the name
// it is revived instead; a live duplicate is a conflict.
func (s *CompanyService) Create(ctx context.Context, req CreateCompanyRequest) (*domain.Company, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidCompanyName
	}

	existing, err := s.companyRepo.GetByName(ctx, name, true)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if existing != nil {
		if !existing.Deleted {
			return nil, &repository.DuplicateKeyError{Field: "name", Value: name}
		}
		existing.Deleted = false
		existing.UpdatedAt = time.Now()
		if err := s.companyRepo.Update(ctx, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	company := newCompany(name)
	if err := s.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}

	return company, nil
}

// List retrieves non-deleted companies with an optional case-insensitive name
// search, along with the total match count.
func (s *CompanyService) List(ctx context.Context, search string, page repository.Page) ([]*domain.Company, int64, error) {
	filter := repository.CompanyFilter{Search: strings.TrimSpace(search)}

	companies, err := s.companyRepo.List(ctx, filter, page)
	if err != nil {
		return nil, 0, err
	}

	count, err := s.companyRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return companies, count, nil
}

// Get retrieves a non-deleted company by ID. A malformed ID is rejected
// before it reaches the store.
func (s *CompanyService) Get(ctx context.Context, id string) (*domain.Company, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrInvalidCompanyID
	}

	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company.Deleted {
		return nil, repository.ErrNotFound
	}

	return company, nil
}

// UpdateCompanyRequest contains the fields that may be patched on a company.
// Nil fields are left unchanged.
type UpdateCompanyRequest struct {
	Name    *string
	Deleted *bool
}

// Update patches an existing company. Renaming recomputes the normalized name.
func (s *CompanyService) Update(ctx context.Context, id string, req UpdateCompanyRequest) (*domain.Company, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrInvalidCompanyID
	}

	company, err := s.companyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrInvalidCompanyName
		}
		company.Name = name
		company.NameNormalized = NormalizeCompanyName(name)
	}
	if req.Deleted != nil {
		company.Deleted = *req.Deleted
	}
	company.UpdatedAt = time.Now()

	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}

	return company, nil
}

// Remove soft-deletes a company. The record stays queryable for history.
func (s *CompanyService) Remove(ctx context.Context, id string) (*domain.Company, error) {
	company, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	company.Deleted = true
	company.UpdatedAt = time.Now()
	if err := s.companyRepo.Update(ctx, company); err != nil {
		return nil, err
	}

	return company, nil
}

func newCompany(name string) *domain.Company {
	now := time.Now()
	return &domain.Company{
		ID:             uuid.New().String(),
		Name:           name,
		NameNormalized: NormalizeCompanyName(name),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
