package domain

import "time"

// UserRole represents the access level of a back-office user.
type UserRole string

const (
	UserRoleAdmin  UserRole = "ADMIN"
	UserRoleEditor UserRole = "EDITOR"
	UserRoleViewer UserRole = "VIEWER"
)

// ValidUserRole reports whether r is a known role.
func ValidUserRole(r UserRole) bool {
	switch r {
	case UserRoleAdmin, UserRoleEditor, UserRoleViewer:
		return true
	}
	return false
}

// User represents a back-office user of the system.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         UserRole
	IsActive     bool
	LastLoginAt  *time.Time
	Deleted      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
