package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"raingauge-route-service/internal/domain"
	"raingauge-route-service/internal/platform/obs"
)

// SQLStationRepository is the Postgres implementation of the
// StationRepository port.
type SQLStationRepository struct{ DB *sql.DB }

func NewSQLStationRepository(db *sql.DB) *SQLStationRepository {
	return &SQLStationRepository{DB: db}
}

// InitPostgresSchema creates the stations table when it does not exist.
func InitPostgresSchema(ctx context.Context, db *sql.DB) error {
	if db == nil {
		return errors.New("init postgres schema: DB is nil")
	}

	q := `
	CREATE TABLE IF NOT EXISTS stations (
		station_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lon DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL DEFAULT 'UNKNOWN',
		last_report_at TIMESTAMPTZ
	);
	`
	if _, err := db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("init postgres schema: %w", err)
	}
	return nil
}

// SeedPostgresFromJSON upserts station rows from a JSON file into
// Postgres. Timestamps are bound as time.Time so they land in the
// TIMESTAMPTZ column without driver-side string coercion.
func SeedPostgresFromJSON(ctx context.Context, db *sql.DB, jsonPath string) error {
	rows, err := loadSeeds(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed stations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT INTO stations (station_id, name, lat, lon, status, last_report_at)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (station_id) DO UPDATE SET
		name = EXCLUDED.name,
		lat = EXCLUDED.lat,
		lon = EXCLUDED.lon,
		status = EXCLUDED.status,
		last_report_at = EXCLUDED.last_report_at;
	`
	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("seed stations: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, s := range rows {
		var lastReport any
		if s.LastReportAt != "" {
			ts, err := time.Parse(time.RFC3339, s.LastReportAt)
			if err != nil {
				return fmt.Errorf("seed stations: station %q: parse last_report_at: %w", s.StationID, err)
			}
			lastReport = ts
		}
		if _, err := stmt.ExecContext(ctx, s.StationID, s.Name, s.Lat, s.Lon, s.Status, lastReport); err != nil {
			return fmt.Errorf("seed stations: upsert station_id=%q: %w", s.StationID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed stations: commit tx: %w", err)
	}

	return nil
}

// Return all stations stored in the database, ordered by id.
func (s *SQLStationRepository) ListStations(ctx context.Context) (_ []domain.Station, err error) {
	defer obs.Time(ctx, "stations.repo.List")(&err)

	if s.DB == nil {
		return nil, errors.New("sql station repository: DB is nil")
	}

	q := `
	SELECT station_id, name, lat, lon, status, last_report_at
	FROM stations
	ORDER BY station_id;
	`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list stations: query stations table: %w", err)
	}
	defer rows.Close()

	stations := make([]domain.Station, 0, 64)
	for rows.Next() {
		var (
			id, name, status string
			lat, lon         float64
			lastReport       sql.NullTime
		)
		if err := rows.Scan(&id, &name, &lat, &lon, &status, &lastReport); err != nil {
			return nil, fmt.Errorf("list stations: scan row: %w", err)
		}

		st := domain.Station{
			ID:     id,
			Name:   name,
			Point:  domain.Point{Lat: lat, Lon: lon},
			Status: domain.ParseStatus(status),
		}
		if lastReport.Valid {
			ts := lastReport.Time
			st.LastReportAt = &ts
		}
		stations = append(stations, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stations: row iteration: %w", err)
	}

	return stations, nil
}
