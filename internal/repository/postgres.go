package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"distance-api/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultMatchThreshold is the summed name+address trigram similarity a stored location must exceed to be reused.
const DefaultMatchThreshold = 0.3

const (
	maxFieldLength = 255

	foreignKeyViolation = "23503"
)

var (
	ErrReferentialIntegrity = errors.New("repository: distance record references a missing location")
	ErrInvalidCoordinates   = errors.New("repository: coordinates out of range")
	ErrEmptyName            = errors.New("repository: location name cannot be empty")
)

// Repository implements location and distance record persistence for PostgreSQL
type Repository struct {
	db        *pgxpool.Pool
	threshold float64
}

// NewRepository creates a new PostgreSQL repository using DefaultMatchThreshold
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db, threshold: DefaultMatchThreshold}
}

// WithMatchThreshold returns a copy of the repository that uses threshold for FindMatch
func (r *Repository) WithMatchThreshold(threshold float64) *Repository {
	return &Repository{db: r.db, threshold: threshold}
}

// Ping verifies the database is reachable
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// FindMatch returns the stored location most similar to query, or nil when no candidate
// has a summed name+address trigram similarity above the threshold.
// Ties on similarity are broken by weighted full-text rank (name A, address B).
func (r *Repository) FindMatch(ctx context.Context, query string) (*models.Location, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly})
	if err != nil {
		return nil, fmt.Errorf("repository: failed to begin match transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// A summed score above t needs one side above t/2, so the % prefilter at t/2
	// keeps every qualifying row while letting the trigram indexes drive the scan.
	if _, err := tx.Exec(ctx,
		`SELECT set_config('pg_trgm.similarity_threshold', ($1::float8 / 2)::text, true)`,
		r.threshold,
	); err != nil {
		return nil, fmt.Errorf("repository: failed to set similarity threshold: %w", err)
	}

	sql := `
		SELECT id, name, address, latitude, longitude
		FROM (
			SELECT
				id,
				name,
				address,
				latitude::float8 AS latitude,
				longitude::float8 AS longitude,
				similarity(name, $1) + similarity(address, $1) AS score,
				ts_rank(search_vector, plainto_tsquery('english', $1)) AS rank
			FROM locations
			WHERE name % $1 OR address % $1
		) AS candidates
		WHERE score > $2
		ORDER BY score DESC, rank DESC, id ASC
		LIMIT 1
	`

	var loc models.Location
	err = tx.QueryRow(ctx, sql, query, r.threshold).Scan(
		&loc.ID,
		&loc.Name,
		&loc.Address,
		&loc.Latitude,
		&loc.Longitude,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to execute match query: %w", err)
	}

	return &loc, nil
}

// GetOrCreate returns the location stored under name, creating it from address and the
// coordinates when none exists. Concurrent callers with the same name observe the same row.
func (r *Repository) GetOrCreate(ctx context.Context, name, address string, lat, lng float64) (*models.Location, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("%w: (%f, %f)", ErrInvalidCoordinates, lat, lng)
	}
	name = truncate(name, maxFieldLength)
	address = truncate(address, maxFieldLength)

	// The SELECT branch shares the INSERT's snapshot, so a row committed by a concurrent
	// winner is invisible to it. The follow-up lookup runs in a fresh snapshot.
	insert := `
		WITH inserted AS (
			INSERT INTO locations (name, address, latitude, longitude)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (name) DO NOTHING
			RETURNING id, name, address, latitude::float8, longitude::float8
		)
		SELECT id, name, address, latitude, longitude FROM inserted
		UNION ALL
		SELECT id, name, address, latitude::float8, longitude::float8 FROM locations WHERE name = $1
		LIMIT 1
	`

	loc, err := r.scanLocation(r.db.QueryRow(ctx, insert, name, address, lat, lng))
	if err == nil {
		return loc, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("repository: failed to insert location: %w", err)
	}

	loc, err = r.findByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		return nil, fmt.Errorf("repository: location %q vanished after conflicting insert", name)
	}
	return loc, nil
}

// RecordDistance appends an audit record of the distance between two stored locations.
func (r *Repository) RecordDistance(ctx context.Context, start, end *models.Location, km float64) (*models.DistanceRecord, error) {
	if start == nil || end == nil || start.ID <= 0 || end.ID <= 0 {
		return nil, ErrReferentialIntegrity
	}
	if km < 0 {
		return nil, fmt.Errorf("repository: negative distance: %f", km)
	}

	sql := `
		INSERT INTO distance_records (start_location_id, end_location_id, distance_km)
		VALUES ($1, $2, $3)
		RETURNING id, start_location_id, end_location_id, distance_km::float8, created_at
	`

	var rec models.DistanceRecord
	err := r.db.QueryRow(ctx, sql, start.ID, end.ID, km).Scan(
		&rec.ID,
		&rec.StartLocationID,
		&rec.EndLocationID,
		&rec.DistanceKm,
		&rec.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return nil, fmt.Errorf("%w: %s", ErrReferentialIntegrity, pgErr.ConstraintName)
		}
		return nil, fmt.Errorf("repository: failed to insert distance record: %w", err)
	}

	return &rec, nil
}

func (r *Repository) findByName(ctx context.Context, name string) (*models.Location, error) {
	sql := `
		SELECT id, name, address, latitude::float8, longitude::float8
		FROM locations
		WHERE name = $1
	`

	loc, err := r.scanLocation(r.db.QueryRow(ctx, sql, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("repository: failed to look up location by name: %w", err)
	}
	return loc, nil
}

func (r *Repository) scanLocation(row pgx.Row) (*models.Location, error) {
	var loc models.Location
	if err := row.Scan(&loc.ID, &loc.Name, &loc.Address, &loc.Latitude, &loc.Longitude); err != nil {
		return nil, err
	}
	return &loc, nil
}

// truncate cuts s to at most n runes to fit VARCHAR(n) columns.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
