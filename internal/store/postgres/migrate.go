package postgres

import (
	"database/sql"
	"fmt"
)

// Migrate creates the schema if it does not exist yet.
func Migrate(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            UUID PRIMARY KEY,
			username      TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role          TEXT NOT NULL,
			created_at    TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rides (
			id              UUID PRIMARY KEY,
			requester_id    UUID NOT NULL,
			driver_id       UUID,
			pickup_location TEXT NOT NULL,
			drop_location   TEXT NOT NULL,
			fare_amount     DOUBLE PRECISION NOT NULL CHECK (fare_amount > 0),
			distance_km     DOUBLE PRECISION NOT NULL CHECK (distance_km > 0),
			status          TEXT NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL,
			created_date    DATE NOT NULL
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_username_lower ON users (LOWER(username))`,
		`CREATE INDEX IF NOT EXISTS idx_rides_status ON rides (status)`,
		`CREATE INDEX IF NOT EXISTS idx_rides_requester ON rides (requester_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rides_driver ON rides (driver_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rides_created_date ON rides (created_date)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
