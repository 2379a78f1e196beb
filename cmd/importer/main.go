package main

import (
	"context"
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"distance-api/internal/config"
	"distance-api/internal/repository"
	"distance-api/internal/service"

	"github.com/jackc/pgx/v5"
)

// LocationRecord is one CSV row: name,address,latitude,longitude
type LocationRecord struct {
	Name      string
	Address   string
	Latitude  float64
	Longitude float64
}

func main() {
	file := flag.String("file", "", "Path to a CSV file of known locations to import (optional)")
	flag.Parse()

	// Load config
	cfg, err := config.LoadDatabaseConfig("configs")
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Connect to DB
	conn, err := pgx.Connect(ctx, cfg.DBSource)
	if err != nil {
		fmt.Printf("Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	// Ensure schema exists
	if err := repository.Migrate(ctx, conn); err != nil {
		fmt.Printf("Error creating schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Schema is up to date")

	if *file == "" {
		return
	}

	fmt.Printf("Starting import from file: %s\n", *file)

	f, err := os.Open(*file)
	if err != nil {
		fmt.Printf("Error opening CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	records, err := parseCSV(f)
	if err != nil {
		fmt.Printf("Error parsing CSV: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Parsed %d records\n", len(records))

	before, err := countLocations(ctx, conn)
	if err != nil {
		fmt.Printf("Error counting locations: %v\n", err)
		os.Exit(1)
	}

	inserted, err := insertRecords(ctx, conn, records)
	if err != nil {
		fmt.Printf("Error inserting records: %v\n", err)
		os.Exit(1)
	}

	// Verify data
	if err := verifyImport(ctx, conn, before+inserted); err != nil {
		fmt.Printf("Error verifying import: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Successfully imported %d new records (%d already known)\n", inserted, int64(len(records))-inserted)
}

// parseCSV reads name,address,latitude,longitude rows after a header line.
// Names are normalized the same way request text is, so imported rows match exact lookups.
func parseCSV(r io.Reader) ([]LocationRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields

	// Skip header
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	seen := make(map[string]struct{})
	var records []LocationRecord
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read record: %w", err)
		}

		if len(record) < 4 {
			return nil, fmt.Errorf("line %d: invalid record length: %d, expected at least 4 columns", line, len(record))
		}

		name := service.Normalize(record[0])
		if name == "" {
			return nil, fmt.Errorf("line %d: empty name", line)
		}

		lat, err := strconv.ParseFloat(strings.TrimSpace(record[2]), 64)
		if err != nil || lat < -90 || lat > 90 {
			return nil, fmt.Errorf("line %d: invalid latitude: %s", line, record[2])
		}

		lng, err := strconv.ParseFloat(strings.TrimSpace(record[3]), 64)
		if err != nil || lng < -180 || lng > 180 {
			return nil, fmt.Errorf("line %d: invalid longitude: %s", line, record[3])
		}

		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}

		records = append(records, LocationRecord{
			Name:      name,
			Address:   strings.TrimSpace(record[1]),
			Latitude:  lat,
			Longitude: lng,
		})
	}

	return records, nil
}

// insertRecords bulk loads into a staging table with CopyFrom, then merges by name
// so locations that already exist are left untouched.
func insertRecords(ctx context.Context, conn *pgx.Conn, records []LocationRecord) (int64, error) {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		CREATE TEMP TABLE locations_import (
			name VARCHAR(255),
			address VARCHAR(255),
			latitude NUMERIC(9, 6),
			longitude NUMERIC(9, 6)
		) ON COMMIT DROP
	`)
	if err != nil {
		return 0, fmt.Errorf("create staging table: %w", err)
	}

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"locations_import"},
		[]string{"name", "address", "latitude", "longitude"},
		pgx.CopyFromSlice(len(records), func(i int) ([]interface{}, error) {
			r := records[i]
			return []interface{}{r.Name, r.Address, r.Latitude, r.Longitude}, nil
		}),
	)
	if err != nil {
		return 0, fmt.Errorf("copy records: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		INSERT INTO locations (name, address, latitude, longitude)
		SELECT name, address, latitude, longitude FROM locations_import
		ON CONFLICT (name) DO NOTHING
	`)
	if err != nil {
		return 0, fmt.Errorf("merge records: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	return tag.RowsAffected(), nil
}

func countLocations(ctx context.Context, conn *pgx.Conn) (int64, error) {
	var count int64
	if err := conn.QueryRow(ctx, "SELECT COUNT(*) FROM locations").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return count, nil
}

func verifyImport(ctx context.Context, conn *pgx.Conn, expectedCount int64) error {
	count, err := countLocations(ctx, conn)
	if err != nil {
		return err
	}

	if count != expectedCount {
		return fmt.Errorf("record count mismatch: expected %d, got %d", expectedCount, count)
	}

	// Check a sample search vector
	var name, vector string
	err = conn.QueryRow(ctx, "SELECT name, search_vector::text FROM locations ORDER BY id DESC LIMIT 1").Scan(&name, &vector)
	if err != nil {
		return fmt.Errorf("failed to check search vector: %w", err)
	}

	fmt.Printf("Sample search vector for %q: %s\n", name, vector)
	return nil
}
