package domain

import "time"

// Company represents a shipping company whose loads the fleet carries.
type Company struct {
	ID             string
	Name           string
	NameNormalized string
	Deleted        bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
