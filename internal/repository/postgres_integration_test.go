//go:build integration

package repository

import (
	"context"
	"strings"
	"sync"
	"testing"

	"distance-api/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jackc/pgx/v5/pgxpool"
)

func setupTestDatabase(t *testing.T) *pgxpool.Pool {
	ctx := context.Background()

	// Start PostgreSQL container; pg_trgm ships with the contrib modules of the official image
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "testdb",
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
	}

	postgresC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		postgresC.Terminate(ctx)
	})

	host, err := postgresC.Host(ctx)
	require.NoError(t, err)

	port, err := postgresC.MappedPort(ctx, "5432")
	require.NoError(t, err)

	connString := "postgres://testuser:testpass@" + host + ":" + port.Port() + "/testdb?sslmode=disable"

	pool, err := pgxpool.New(ctx, connString)
	require.NoError(t, err)

	t.Cleanup(func() {
		pool.Close()
	})

	require.NoError(t, Migrate(ctx, pool))

	_, err = pool.Exec(ctx, `
		INSERT INTO locations (name, address, latitude, longitude) VALUES
		('walt disney concert hall', '111 S Grand Ave, Los Angeles, CA 90012, USA', 34.055349, -118.249864),
		('griffith observatory', '2800 E Observatory Rd, Los Angeles, CA 90027, USA', 34.118434, -118.300393),
		('koregaon park', 'Koregaon Park, Pune, Maharashtra, India', 18.529300, 73.914900);
	`)
	require.NoError(t, err)

	return pool
}

func TestRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	pool := setupTestDatabase(t)
	repo := NewRepository(pool)
	ctx := context.Background()

	t.Run("FindMatch", func(t *testing.T) {
		tests := []struct {
			name         string
			query        string
			expectedName string
		}{
			{name: "exact name", query: "griffith observatory", expectedName: "griffith observatory"},
			{name: "misspelled name", query: "walt disny concert hall", expectedName: "walt disney concert hall"},
			{name: "address fragment", query: "koregaon park pune", expectedName: "koregaon park"},
			{name: "unrelated text", query: "brandenburger tor", expectedName: ""},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				loc, err := repo.FindMatch(ctx, tt.query)
				require.NoError(t, err)
				if tt.expectedName == "" {
					assert.Nil(t, loc)
					return
				}
				require.NotNil(t, loc)
				assert.Equal(t, tt.expectedName, loc.Name)
			})
		}
	})

	t.Run("FindMatch excludes scores at or below the threshold", func(t *testing.T) {
		strict := repo.WithMatchThreshold(1.9)
		loc, err := strict.FindMatch(ctx, "griffith observatory")
		require.NoError(t, err)
		assert.Nil(t, loc)
	})

	t.Run("FindMatch prefilter agrees with a full scan", func(t *testing.T) {
		fullScan := `
			SELECT id FROM locations
			WHERE similarity(name, $1) + similarity(address, $1) > $2
			ORDER BY similarity(name, $1) + similarity(address, $1) DESC,
				ts_rank(search_vector, plainto_tsquery('english', $1)) DESC, id ASC
			LIMIT 1
		`
		queries := []string{"griffith observatory", "walt disny concert hall", "koregaon park pune", "los angeles", "pune india", "brandenburger tor"}
		thresholds := []float64{0.1, DefaultMatchThreshold, 0.8, 1.2}

		for _, threshold := range thresholds {
			tuned := repo.WithMatchThreshold(threshold)
			for _, q := range queries {
				var expectedID int64
				err := pool.QueryRow(ctx, fullScan, q, threshold).Scan(&expectedID)
				loc, findErr := tuned.FindMatch(ctx, q)
				require.NoError(t, findErr)
				if err != nil {
					assert.Nil(t, loc, "query %q threshold %v", q, threshold)
					continue
				}
				require.NotNil(t, loc, "query %q threshold %v", q, threshold)
				assert.Equal(t, expectedID, loc.ID, "query %q threshold %v", q, threshold)
			}
		}
	})

	t.Run("FindMatch candidate scan can use the trigram indexes", func(t *testing.T) {
		tx, err := pool.Begin(ctx)
		require.NoError(t, err)
		defer tx.Rollback(ctx)

		_, err = tx.Exec(ctx, "SET LOCAL enable_seqscan = off")
		require.NoError(t, err)

		rows, err := tx.Query(ctx, "EXPLAIN SELECT id FROM locations WHERE name % $1 OR address % $1", "griffith")
		require.NoError(t, err)
		var plan []string
		for rows.Next() {
			var line string
			require.NoError(t, rows.Scan(&line))
			plan = append(plan, line)
		}
		require.NoError(t, rows.Err())

		joined := strings.Join(plan, "\n")
		assert.Contains(t, joined, "locations_name_trgm_idx")
		assert.Contains(t, joined, "locations_address_trgm_idx")
	})

	t.Run("GetOrCreate returns the existing row", func(t *testing.T) {
		loc, err := repo.GetOrCreate(ctx, "griffith observatory", "ignored", 1, 1)
		require.NoError(t, err)
		assert.Equal(t, "2800 E Observatory Rd, Los Angeles, CA 90027, USA", loc.Address)
		assert.Equal(t, 34.118434, loc.Latitude)
		assert.Equal(t, -118.300393, loc.Longitude)
	})

	t.Run("GetOrCreate rounds coordinates to six digits", func(t *testing.T) {
		loc, err := repo.GetOrCreate(ctx, "kalyani nagar", "Kalyani Nagar, Pune, India", 18.55234567, 73.93401234)
		require.NoError(t, err)
		assert.NotZero(t, loc.ID)
		assert.Equal(t, 18.552346, loc.Latitude)
		assert.Equal(t, 73.934012, loc.Longitude)
	})

	t.Run("GetOrCreate is atomic under concurrency", func(t *testing.T) {
		const callers = 16
		var wg sync.WaitGroup
		ids := make([]int64, callers)
		errs := make([]error, callers)

		for i := 0; i < callers; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				loc, err := repo.GetOrCreate(ctx, "shaniwar wada", "Shaniwar Wada, Pune, India", 18.519500, 73.855300)
				errs[i] = err
				if loc != nil {
					ids[i] = loc.ID
				}
			}(i)
		}
		wg.Wait()

		for i := 0; i < callers; i++ {
			require.NoError(t, errs[i])
			assert.Equal(t, ids[0], ids[i])
		}

		var count int
		require.NoError(t, pool.QueryRow(ctx, "SELECT COUNT(*) FROM locations WHERE name = $1", "shaniwar wada").Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("RecordDistance", func(t *testing.T) {
		start, err := repo.FindMatch(ctx, "koregaon park")
		require.NoError(t, err)
		end, err := repo.GetOrCreate(ctx, "kalyani nagar", "", 0, 0)
		require.NoError(t, err)

		rec, err := repo.RecordDistance(ctx, start, end, 3.608)
		require.NoError(t, err)
		assert.NotZero(t, rec.ID)
		assert.Equal(t, start.ID, rec.StartLocationID)
		assert.Equal(t, end.ID, rec.EndLocationID)
		assert.Equal(t, 3.608, rec.DistanceKm)
		assert.False(t, rec.CreatedAt.IsZero())
	})

	t.Run("RecordDistance with a missing location", func(t *testing.T) {
		start, err := repo.FindMatch(ctx, "koregaon park")
		require.NoError(t, err)

		rec, err := repo.RecordDistance(ctx, start, &models.Location{ID: 999999}, 1)
		assert.ErrorIs(t, err, ErrReferentialIntegrity)
		assert.Nil(t, rec)
	})
}
