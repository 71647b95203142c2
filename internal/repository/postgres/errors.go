package postgres

import (
	"errors"

	"github.com/lib/pq"

	"fleet/internal/repository"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = pq.ErrorCode("23505")

// constraintFields maps unique index names to the entity field they guard.
var constraintFields = map[string]string{
	"companies_name_normalized_active": "name",
	"drivers_phone_number_active":      "phone_number",
	"vehicles_licence_plate_active":    "licence_plate",
	"users_email_active":               "email",
}

// mapUniqueViolation converts a unique-violation into a DuplicateKeyError
// carrying the offending field and attempted value. Other errors pass through.
func mapUniqueViolation(err error, value string) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != uniqueViolation {
		return err
	}

	field, ok := constraintFields[pqErr.Constraint]
	if !ok {
		field = pqErr.Constraint
	}

	return &repository.DuplicateKeyError{Field: field, Value: value}
}
