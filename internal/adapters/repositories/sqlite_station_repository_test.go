package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"raingauge-route-service/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := InitSchema(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	return db
}

func writeSeedFile(t *testing.T, seeds []StationSeed) string {
	t.Helper()

	b, err := json.Marshal(seeds)
	if err != nil {
		t.Fatalf("marshal seeds: %v", err)
	}
	path := filepath.Join(t.TempDir(), "stations.json")
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("write seeds: %v", err)
	}
	return path
}

func TestSeedAndListStations(t *testing.T) {
	db := openTestDB(t)

	seeds := []StationSeed{
		{StationID: "G1002", Name: "Ban Chang", Lat: 12.72, Lon: 101.06, Status: "online", LastReportAt: "2026-08-01T11:55:00Z"},
		{StationID: "G1001", Name: "Map Ta Phut", Lat: 12.68, Lon: 101.15, Status: "OFFLINE"},
	}
	if err := SeedFromJSON(db, writeSeedFile(t, seeds)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	repo := NewSqliteStationRepository(db)
	stations, err := repo.ListStations(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if len(stations) != 2 {
		t.Fatalf("got %d stations, want 2", len(stations))
	}
	if stations[0].ID != "G1001" || stations[1].ID != "G1002" {
		t.Fatalf("unexpected order: %s, %s", stations[0].ID, stations[1].ID)
	}
	if stations[0].Status != domain.StatusOffline {
		t.Fatalf("status = %s, want OFFLINE", stations[0].Status)
	}
	if stations[0].LastReportAt != nil {
		t.Fatalf("expected nil LastReportAt, got %v", stations[0].LastReportAt)
	}

	if stations[1].LastReportAt == nil {
		t.Fatal("expected LastReportAt for G1002")
	}
	want := time.Date(2026, 8, 1, 11, 55, 0, 0, time.UTC)
	if !stations[1].LastReportAt.Equal(want) {
		t.Fatalf("LastReportAt = %v, want %v", stations[1].LastReportAt, want)
	}
	if stations[1].Status != domain.StatusOnline {
		t.Fatalf("status = %s, want ONLINE", stations[1].Status)
	}
}

func TestSeedRejectsInvalidCoordinates(t *testing.T) {
	db := openTestDB(t)

	seeds := []StationSeed{
		{StationID: "G1001", Name: "Bad", Lat: 95, Lon: 101.15},
	}
	if err := SeedFromJSON(db, writeSeedFile(t, seeds)); err == nil {
		t.Fatal("expected error for out-of-range latitude")
	}
}

func TestLoadSeedsNormalizesRows(t *testing.T) {
	path := writeSeedFile(t, []StationSeed{
		{StationID: "  G1001 ", Name: "Map Ta Phut", Lat: 12.68, Lon: 101.15, Status: "offline"},
	})

	rows, err := loadSeeds(path)
	if err != nil {
		t.Fatalf("load seeds: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1", len(rows))
	}
	if rows[0].StationID != "G1001" {
		t.Fatalf("station id not trimmed: %q", rows[0].StationID)
	}
	if rows[0].Status != string(domain.StatusOffline) {
		t.Fatalf("status not normalized: %q", rows[0].Status)
	}
}

func TestLoadSeedsRejectsBadTimestamp(t *testing.T) {
	path := writeSeedFile(t, []StationSeed{
		{StationID: "G1001", Name: "Map Ta Phut", Lat: 12.68, Lon: 101.15, LastReportAt: "yesterday"},
	})

	if _, err := loadSeeds(path); err == nil {
		t.Fatal("expected error for malformed last_report_at")
	}
}

func TestSeedReplacesExistingRow(t *testing.T) {
	db := openTestDB(t)

	first := []StationSeed{{StationID: "G1001", Name: "Old Name", Lat: 12.68, Lon: 101.15}}
	if err := SeedFromJSON(db, writeSeedFile(t, first)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	second := []StationSeed{{StationID: "G1001", Name: "New Name", Lat: 12.68, Lon: 101.15}}
	if err := SeedFromJSON(db, writeSeedFile(t, second)); err != nil {
		t.Fatalf("reseed: %v", err)
	}

	repo := NewSqliteStationRepository(db)
	stations, err := repo.ListStations(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stations) != 1 || stations[0].Name != "New Name" {
		t.Fatalf("got %+v, want single row with New Name", stations)
	}
}
