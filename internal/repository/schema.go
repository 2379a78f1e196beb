package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Schema creates the locations and distance_records tables together with their search indexes.
// It is safe to run repeatedly.
const Schema = `
	CREATE EXTENSION IF NOT EXISTS pg_trgm;

	CREATE TABLE IF NOT EXISTS locations (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE CHECK (name <> ''),
		address VARCHAR(255) NOT NULL,
		latitude NUMERIC(9, 6) NOT NULL CHECK (latitude BETWEEN -90 AND 90),
		longitude NUMERIC(9, 6) NOT NULL CHECK (longitude BETWEEN -180 AND 180),
		search_vector TSVECTOR GENERATED ALWAYS AS (
			setweight(to_tsvector('english', coalesce(name, '')), 'A') ||
			setweight(to_tsvector('english', coalesce(address, '')), 'B')
		) STORED
	);
	CREATE INDEX IF NOT EXISTS locations_lat_lng_idx ON locations (latitude, longitude);
	CREATE INDEX IF NOT EXISTS locations_search_vector_idx ON locations USING GIN (search_vector);
	CREATE INDEX IF NOT EXISTS locations_name_trgm_idx ON locations USING GIN (name gin_trgm_ops);
	CREATE INDEX IF NOT EXISTS locations_address_trgm_idx ON locations USING GIN (address gin_trgm_ops);

	CREATE TABLE IF NOT EXISTS distance_records (
		id BIGSERIAL PRIMARY KEY,
		start_location_id BIGINT NOT NULL REFERENCES locations (id) ON DELETE CASCADE,
		end_location_id BIGINT NOT NULL REFERENCES locations (id) ON DELETE CASCADE,
		distance_km NUMERIC(10, 3) NOT NULL CHECK (distance_km >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE INDEX IF NOT EXISTS distance_records_start_end_idx ON distance_records (start_location_id, end_location_id);
	CREATE INDEX IF NOT EXISTS distance_records_created_at_idx ON distance_records (created_at);
`

type execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Migrate applies Schema using the given pool or connection.
func Migrate(ctx context.Context, db execer) error {
	if _, err := db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("repository: failed to apply schema: %w", err)
	}
	return nil
}
