package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"fleet/internal/domain"
	"fleet/internal/repository"
)

// bcryptCost matches the work factor the rest of the system was seeded with.
const bcryptCost = 10

// UserService handles back-office user operations.
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserRequest contains the parameters for creating a user.
type CreateUserRequest struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      domain.UserRole
}

// Create adds a new user with a bcrypt password hash. A live duplicate email
// is a conflict.
func (s *UserService) Create(ctx context.Context, req CreateUserRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return nil, ErrInvalidUserEmail
	}
	if req.Password == "" {
		return nil, ErrInvalidUserPassword
	}

	role := req.Role
	if role == "" {
		role = domain.UserRoleViewer
	}
	if !domain.ValidUserRole(role) {
		return nil, ErrInvalidUserRole
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, &repository.DuplicateKeyError{Field: "email", Value: email}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	user := &domain.User{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// List retrieves all non-deleted users.
func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.userRepo.List(ctx)
}

// Get retrieves a non-deleted user by ID. A malformed ID is rejected before
// it reaches the store.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	if uuid.Validate(id) != nil {
		return nil, ErrInvalidUserID
	}

	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Deleted {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

// UpdateUserRequest contains the fields that may be patched on a user.
// Nil fields are left unchanged. A new password is re-hashed.
type UpdateUserRequest struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	Role      *domain.UserRole
	IsActive  *bool
}

// Update patches an existing user.
func (s *UserService) Update(ctx context.Context, id string, req UpdateUserRequest) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			return nil, ErrInvalidUserEmail
		}
		user.Email = email
	}
	if req.Password != nil {
		if *req.Password == "" {
			return nil, ErrInvalidUserPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if req.FirstName != nil {
		user.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		user.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Role != nil {
		if !domain.ValidUserRole(*req.Role) {
			return nil, ErrInvalidUserRole
		}
		user.Role = *req.Role
	}
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}
	user.UpdatedAt = time.Now()

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Remove soft-deletes a user.
func (s *UserService) Remove(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	user.Deleted = true
	user.UpdatedAt = time.Now()
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// SeedAdmin ensures an active admin user with the given credentials exists.
// It is a no-op when the email is already registered.
func (s *UserService) SeedAdmin(ctx context.Context, email, password string) error {
	_, err := s.userRepo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err == nil {
		return nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	_, err = s.Create(ctx, CreateUserRequest{
		Email:     email,
		Password:  password,
		FirstName: "Admin",
		LastName:  "User",
		Role:      domain.UserRoleAdmin,
	})
	if err == nil {
		log.Printf("seeded admin user %s", email)
	}
	return err
}
