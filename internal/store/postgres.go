// Package store is the Postgres persistence layer for resolved locations.
// Rows are insert-only: a location's coordinates never change once written.
package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type Store struct{ DB *sql.DB }

// Location is one persisted coordinate row. Name is stored normalized
// (trimmed, case-folded), so uniqueness on the column is uniqueness under
// case/whitespace-insensitive comparison.
type Location struct {
	Name      string
	Latitude  float64
	Longitude float64
	AvgPrice  float64
}

func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)
	return &Store{DB: db}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.DB.PingContext(ctx) }

func (s *Store) Close() error { return s.DB.Close() }

func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS locations (
            id          BIGSERIAL PRIMARY KEY,
            name        TEXT NOT NULL,
            latitude    DOUBLE PRECISION NOT NULL,
            longitude   DOUBLE PRECISION NOT NULL,
            avg_price   NUMERIC NOT NULL DEFAULT 0,
            created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
        );`,
		`CREATE UNIQUE INDEX IF NOT EXISTS ux_locations_name ON locations(name);`,
	}
	for _, q := range stmts {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return err
		}
	}
	return nil
}

// LookupLocation returns the row for a normalized name, or (nil, nil) when
// the name is not cached.
func (s *Store) LookupLocation(ctx context.Context, name string) (*Location, error) {
	var loc Location
	err := s.DB.QueryRowContext(ctx,
		`SELECT name, latitude, longitude, avg_price FROM locations WHERE name = $1`,
		name,
	).Scan(&loc.Name, &loc.Latitude, &loc.Longitude, &loc.AvgPrice)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

// InsertLocationIfAbsent writes a coordinate row unless the name already
// exists. The losing writer of a concurrent duplicate insert reports
// inserted=false rather than an error; that is the benign-race outcome the
// resolver expects.
func (s *Store) InsertLocationIfAbsent(ctx context.Context, name string, lat, lon float64) (bool, error) {
	res, err := s.DB.ExecContext(ctx,
		`INSERT INTO locations (name, latitude, longitude) VALUES ($1, $2, $3)
         ON CONFLICT (name) DO NOTHING`,
		name, lat, lon,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListLocations returns every cached location in name order.
func (s *Store) ListLocations(ctx context.Context) ([]Location, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT name, latitude, longitude, avg_price FROM locations ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Location
	for rows.Next() {
		var loc Location
		if err := rows.Scan(&loc.Name, &loc.Latitude, &loc.Longitude, &loc.AvgPrice); err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}
