package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Migrate creates the schema if it does not exist. The partial unique indexes
// are the authoritative guard for the natural-key races: uniqueness applies
// only among non-deleted rows, so a soft-deleted record never blocks re-use of
// its key.
func Migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS companies (
			id              UUID PRIMARY KEY,
			name            TEXT NOT NULL,
			name_normalized TEXT NOT NULL,
			deleted         BOOLEAN NOT NULL DEFAULT FALSE,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS companies_name_normalized_active
			ON companies (name_normalized) WHERE NOT deleted`,

		`CREATE TABLE IF NOT EXISTS drivers (
			id           UUID PRIMARY KEY,
			company_id   UUID NOT NULL REFERENCES companies (id),
			full_name    TEXT NOT NULL,
			phone_number TEXT NOT NULL DEFAULT '',
			deleted      BOOLEAN NOT NULL DEFAULT FALSE,
			created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS drivers_phone_number_active
			ON drivers (phone_number) WHERE NOT deleted AND phone_number <> ''`,

		`CREATE TABLE IF NOT EXISTS vehicles (
			id            UUID PRIMARY KEY,
			licence_plate TEXT NOT NULL,
			vehicle_type  TEXT NOT NULL DEFAULT 'TRUCK',
			deleted       BOOLEAN NOT NULL DEFAULT FALSE,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS vehicles_licence_plate_active
			ON vehicles (licence_plate) WHERE NOT deleted`,

		`CREATE TABLE IF NOT EXISTS trips (
			id                          UUID PRIMARY KEY,
			driver_id                   UUID NOT NULL REFERENCES drivers (id),
			company_id                  UUID NOT NULL REFERENCES companies (id),
			vehicle_id                  UUID NOT NULL REFERENCES vehicles (id),
			departure_time              TIMESTAMPTZ,
			arrival_time                TIMESTAMPTZ NOT NULL DEFAULT now(),
			unload_status               TEXT NOT NULL DEFAULT 'WAITING',
			has_gps_tracking            BOOLEAN NOT NULL DEFAULT FALSE,
			is_in_temporary_parking_lot BOOLEAN NOT NULL DEFAULT FALSE,
			is_trip_canceled            BOOLEAN NOT NULL DEFAULT FALSE,
			notes                       TEXT NOT NULL DEFAULT '',
			deleted                     BOOLEAN NOT NULL DEFAULT FALSE,
			created_at                  TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at                  TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS trips_participants_arrival
			ON trips (driver_id, company_id, vehicle_id, arrival_time DESC)`,

		`CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			email         TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			first_name    TEXT NOT NULL DEFAULT '',
			last_name     TEXT NOT NULL DEFAULT '',
			role          TEXT NOT NULL DEFAULT 'VIEWER',
			is_active     BOOLEAN NOT NULL DEFAULT TRUE,
			last_login_at TIMESTAMPTZ,
			deleted       BOOLEAN NOT NULL DEFAULT FALSE,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
			updated_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_email_active
			ON users (email) WHERE NOT deleted`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	return nil
}
