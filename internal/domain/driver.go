package domain

import "time"

// Driver represents a driver employed by a company.
type Driver struct {
	ID          string
	CompanyID   string
	FullName    string
	PhoneNumber string
	Deleted     bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Company is populated on read paths that join the owning company.
	Company *Company
}
