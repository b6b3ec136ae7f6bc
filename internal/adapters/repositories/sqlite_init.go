package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"raingauge-route-service/internal/domain"
)

// Initialize the SQLite database schema. Timestamps are stored as RFC3339
// text so both drivers read them back identically.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createStationsQuery := `
	CREATE TABLE IF NOT EXISTS stations (
		station_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		lat REAL NOT NULL,
		lon REAL NOT NULL,
		status TEXT NOT NULL DEFAULT 'UNKNOWN',
		last_report_at TEXT
	);
	`

	createIndexQuery := `
	CREATE INDEX IF NOT EXISTS idx_stations_status
	ON stations(status);
	`

	statements := []string{
		createStationsQuery,
		createIndexQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

type StationSeed struct {
	StationID    string  `json:"station_id"`
	Name         string  `json:"name"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	Status       string  `json:"status"`
	LastReportAt string  `json:"last_report_at"`
}

// loadSeeds reads and validates seed rows from a JSON file. Station ids
// are trimmed and statuses normalized; rows with out-of-range coordinates
// or malformed timestamps are rejected up front rather than poisoning
// later distance math. Both database backends seed from this.
func loadSeeds(jsonPath string) ([]StationSeed, error) {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("seed stations: read %q: %w", jsonPath, err)
	}

	var data []StationSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return nil, fmt.Errorf("seed stations: parse json: %w", err)
	}

	rows := make([]StationSeed, 0, len(data))
	for i, item := range data {
		id := strings.TrimSpace(item.StationID)
		if id == "" {
			return nil, fmt.Errorf("seed stations: empty station_id at index %d", i)
		}

		p := domain.Point{Lat: item.Lat, Lon: item.Lon}
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("seed stations: station %q: %w", id, err)
		}

		if item.LastReportAt != "" {
			if _, err := time.Parse(time.RFC3339, item.LastReportAt); err != nil {
				return nil, fmt.Errorf("seed stations: station %q: parse last_report_at: %w", id, err)
			}
		}

		item.StationID = id
		item.Status = string(domain.ParseStatus(item.Status))
		rows = append(rows, item)
	}
	return rows, nil
}

// Populate the SQLite database with station rows from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	rows, err := loadSeeds(jsonPath)
	if err != nil {
		return err
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed stations: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `
	INSERT OR REPLACE INTO stations (
		station_id,
		name,
		lat,
		lon,
		status,
		last_report_at
	)
	VALUES (?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed stations: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, s := range rows {
		var lastReport any
		if s.LastReportAt != "" {
			lastReport = s.LastReportAt
		}
		if _, err := stmt.Exec(s.StationID, s.Name, s.Lat, s.Lon, s.Status, lastReport); err != nil {
			return fmt.Errorf("seed stations: insert station_id=%q: %w", s.StationID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed stations: commit tx: %w", err)
	}

	return nil
}
