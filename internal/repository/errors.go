package repository

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicateKey is returned when a store uniqueness constraint is violated.
	ErrDuplicateKey = errors.New("duplicate key")
)

// DuplicateKeyError carries the field and value that violated a uniqueness
// constraint. It matches ErrDuplicateKey under errors.Is.
type DuplicateKeyError struct {
	Field string
	Value string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key: %s=%q already exists", e.Field, e.Value)
}

func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}
