package storage

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"car-dashboard/models"
	"car-dashboard/utils"
)

const listingColumns = 6

// PostgresStore keeps listings in the car_listings table. It serves both as an
// import target and as an alternative ListingSource.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, pings it through retry,
// runs schema migrations, and returns a ready-to-use store.
func NewPostgresStore(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate(ctx context.Context) error {
	_, err := ps.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS car_listings (
			id        SERIAL PRIMARY KEY,
			brand     TEXT,
			prices    DOUBLE PRECISION,
			mileage   DOUBLE PRECISION,
			fuel_type TEXT,
			engine    DOUBLE PRECISION,
			year      INTEGER
		);

		CREATE INDEX IF NOT EXISTS idx_car_listings_brand     ON car_listings(brand);
		CREATE INDEX IF NOT EXISTS idx_car_listings_fuel_type ON car_listings(fuel_type);
		CREATE INDEX IF NOT EXISTS idx_car_listings_year      ON car_listings(year);
	`)
	return err
}

// Describe returns the table the store reads.
func (ps *PostgresStore) Describe() string { return "postgres:car_listings" }

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// clearListings deletes all existing listings through ex, a *sql.DB or *sql.Tx.
func clearListings(ctx context.Context, ex execer) error {
	if _, err := ex.ExecContext(ctx, "DELETE FROM car_listings"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}
	return nil
}

// Write replaces the table contents with listings inside one transaction,
// keeping dataset order through the serial id.
func (ps *PostgresStore) Write(ctx context.Context, listings []models.Listing) error {
	tx, err := ps.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer tx.Rollback()

	if err := clearListings(ctx, tx); err != nil {
		return err
	}

	const batchSize = 50
	for i := 0; i < len(listings); i += batchSize {
		end := i + batchSize
		if end > len(listings) {
			end = len(listings)
		}
		query, args := insertBatchQuery(listings[i:end])
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch at %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

func insertBatchQuery(batch []models.Listing) (string, []interface{}) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*listingColumns)

	for idx, l := range batch {
		base := idx * listingColumns
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6))
		valueArgs = append(valueArgs, listingArgs(l)...)
	}

	query := fmt.Sprintf(
		"INSERT INTO car_listings (brand, prices, mileage, fuel_type, engine, year) VALUES %s",
		strings.Join(valueStrings, ","))
	return query, valueArgs
}

// listingArgs converts missing values to SQL NULL.
func listingArgs(l models.Listing) []interface{} {
	return []interface{}{
		sql.NullString{String: l.Brand, Valid: l.Brand != ""},
		nullFloat(l.Price),
		nullFloat(l.Mileage),
		sql.NullString{String: l.FuelType, Valid: l.FuelType != ""},
		nullFloat(l.Engine),
		sql.NullInt64{Int64: int64(l.Year), Valid: l.HasYear()},
	}
}

func nullFloat(v float64) sql.NullFloat64 {
	return sql.NullFloat64{Float64: v, Valid: !math.IsNaN(v)}
}

// Identity changes whenever rows are added or the table is rewritten.
func (ps *PostgresStore) Identity(ctx context.Context) (string, error) {
	var count, maxID int64
	err := ps.db.QueryRowContext(ctx,
		"SELECT COUNT(*), COALESCE(MAX(id), 0) FROM car_listings").Scan(&count, &maxID)
	if err != nil {
		return "", fmt.Errorf("%w: postgres identity: %w", models.ErrDataUnavailable, err)
	}
	return fmt.Sprintf("postgres|%d|%d", count, maxID), nil
}

// Load retrieves all stored listings in insertion order.
func (ps *PostgresStore) Load(ctx context.Context) (*models.Dataset, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT brand, prices, mileage, fuel_type, engine, year
		FROM car_listings
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: postgres fetch all: %w", models.ErrDataUnavailable, err)
	}
	defer rows.Close()

	listings := make([]models.Listing, 0)
	for rows.Next() {
		var r scannedListing
		if err := rows.Scan(&r.brand, &r.price, &r.mileage, &r.fuel, &r.engine, &r.year); err != nil {
			return nil, fmt.Errorf("%w: postgres scan row: %w", models.ErrDataUnavailable, err)
		}
		listings = append(listings, r.listing())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: postgres rows: %w", models.ErrDataUnavailable, err)
	}

	ds := models.NewDataset(listings)
	ds.Source = ps.Describe()
	ds.ModTime = time.Now()
	return ds, nil
}

type scannedListing struct {
	brand   sql.NullString
	price   sql.NullFloat64
	mileage sql.NullFloat64
	fuel    sql.NullString
	engine  sql.NullFloat64
	year    sql.NullInt64
}

func (r scannedListing) listing() models.Listing {
	return models.Listing{
		Brand:    r.brand.String,
		Price:    floatOrNaN(r.price),
		Mileage:  floatOrNaN(r.mileage),
		FuelType: r.fuel.String,
		Engine:   floatOrNaN(r.engine),
		Year:     int(r.year.Int64),
	}
}

func floatOrNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}

// Close releases the connection pool.
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
