package repository

import (
	"context"

	"fleet/internal/domain"
)

// UserRepository defines the persistence operations for back-office users.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by ID, deleted or not.
	GetByID(ctx context.Context, id string) (*domain.User, error)

	// GetByEmail retrieves a non-deleted user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// List retrieves all non-deleted users.
	List(ctx context.Context) ([]*domain.User, error)

	// Update persists changes to an existing user.
	Update(ctx context.Context, user *domain.User) error
}
