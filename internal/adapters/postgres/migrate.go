package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Statements are idempotent so Migrate can run on every startup.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS activities (
		external_id     uuid PRIMARY KEY,
		trip_id         uuid NOT NULL,
		title           text NOT NULL,
		category        text NOT NULL DEFAULT '',
		day             date NOT NULL,
		start_minutes   int  NOT NULL,
		end_minutes     int,
		location_name   text NOT NULL DEFAULT '',
		latitude        double precision,
		longitude       double precision,
		position        int  NOT NULL,
		locked          boolean NOT NULL DEFAULT false,
		open_from       int,
		open_until      int,
		created_at      timestamptz NOT NULL,
		updated_at      timestamptz NOT NULL,
		CONSTRAINT activities_day_position_unique UNIQUE (trip_id, day, position)
	)`,
	`CREATE INDEX IF NOT EXISTS activities_trip_day_idx ON activities (trip_id, day)`,
	`CREATE TABLE IF NOT EXISTS reminders (
		external_id     uuid PRIMARY KEY,
		trip_id         uuid NOT NULL,
		reminder_type   text NOT NULL,
		activity_id     uuid NOT NULL,
		day             date NOT NULL,
		scheduled_at    int  NOT NULL,
		minutes_before  int  NOT NULL,
		enabled         boolean NOT NULL DEFAULT true,
		created_at      timestamptz NOT NULL,
		updated_at      timestamptz NOT NULL,
		CONSTRAINT reminders_activity_type_unique UNIQUE (activity_id, reminder_type)
	)`,
	`CREATE INDEX IF NOT EXISTS reminders_trip_idx ON reminders (trip_id)`,
	`CREATE TABLE IF NOT EXISTS idempotency_keys (
		idempotency_key text NOT NULL,
		method          text NOT NULL,
		route           text NOT NULL,
		body_hash       text NOT NULL,
		status_code     int  NOT NULL,
		content_type    text NOT NULL,
		body            bytea NOT NULL,
		created_at      timestamptz NOT NULL,
		PRIMARY KEY (idempotency_key, method, route, body_hash)
	)`,
}

// Migrate applies the schema. Safe to call concurrently-ish at startup; every
// statement is IF NOT EXISTS.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range migrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
