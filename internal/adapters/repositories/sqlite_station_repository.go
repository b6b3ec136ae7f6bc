package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"raingauge-route-service/internal/domain"
)

// SQLite-backed implementation of the StationRepository port.
type SqliteStationRepository struct{ DB *sql.DB }

func NewSqliteStationRepository(db *sql.DB) *SqliteStationRepository {
	return &SqliteStationRepository{DB: db}
}

// Return all stations stored in the database, ordered by id.
func (s *SqliteStationRepository) ListStations(ctx context.Context) ([]domain.Station, error) {
	if s.DB == nil {
		return nil, errors.New("sqlite station repository: DB is nil")
	}

	query := `
	SELECT
		station_id,
		name,
		lat,
		lon,
		status,
		last_report_at
	FROM stations
	ORDER BY station_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list stations: query stations table: %w", err)
	}
	defer rows.Close()

	stations := make([]domain.Station, 0, 64)
	for rows.Next() {
		var (
			id, name, status string
			lat, lon         float64
			lastReport       sql.NullString
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
		if lastReport.Valid && lastReport.String != "" {
			ts, err := time.Parse(time.RFC3339, lastReport.String)
			if err != nil {
				return nil, fmt.Errorf("list stations: station %q: parse last_report_at: %w", id, err)
			}
			st.LastReportAt = &ts
		}
		stations = append(stations, st)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list stations: row iteration: %w", err)
	}

	return stations, nil
}
