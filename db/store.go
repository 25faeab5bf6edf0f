package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rainlens/station-viewer/daterange"
	"github.com/rainlens/station-viewer/history"
)

// Store wraps database access helpers.
type Store struct {
	pool *pgxpool.Pool
}

// New creates a Store backed by a pgx pool.
func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the pool resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// naiveLayout is the wall-clock form readings are delivered in. The station
// logs local time without a zone; the transformer depends on that convention.
const naiveLayout = "2006-01-02T15:04:05"

const fetchReadingsSQL = `
    SELECT ts, temperature, humidity, pressure, wind_max, wind_speed, wind_direction,
           ambient_temperature, ambient_humidity, rain, uv, uvi, lux, image_url
    FROM station.readings
    WHERE ts >= $1 AND ts <= $2
    ORDER BY ts
`

// Fetch returns readings within the validated range in chronological order.
// An empty result is not an error. Fetch satisfies history.Fetcher.
func (s *Store) Fetch(ctx context.Context, rng daterange.Range) ([]history.RawReading, error) {
	rows, err := s.pool.Query(ctx, fetchReadingsSQL, rng.Start, rng.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	readings := make([]history.RawReading, 0)
	for rows.Next() {
		r, err := scanReading(rows)
		if err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

const latestReadingSQL = `
    SELECT ts, temperature, humidity, pressure, wind_max, wind_speed, wind_direction,
           ambient_temperature, ambient_humidity, rain, uv, uvi, lux, image_url
    FROM station.readings
    ORDER BY ts DESC
    LIMIT 1
`

// LatestReading returns the most recent stored reading, or nil when the
// station has no data at all.
func (s *Store) LatestReading(ctx context.Context) (*history.RawReading, error) {
	rows, err := s.pool.Query(ctx, latestReadingSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	r, err := scanReading(rows)
	if err != nil {
		return nil, err
	}
	return &r, rows.Err()
}

func scanReading(rows pgx.Rows) (history.RawReading, error) {
	var r history.RawReading
	var ts time.Time
	var imageURL *string
	if err := rows.Scan(
		&ts,
		&r.Temperature,
		&r.Humidity,
		&r.Pressure,
		&r.WindMax,
		&r.WindSpeed,
		&r.WindDirection,
		&r.AmbientTemperature,
		&r.AmbientHumidity,
		&r.Rain,
		&r.UV,
		&r.UVI,
		&r.Lux,
		&imageURL,
	); err != nil {
		return history.RawReading{}, err
	}
	r.Timestamp = ts.Format(naiveLayout)
	if imageURL != nil {
		r.ImageURL = *imageURL
	}
	return r, nil
}
