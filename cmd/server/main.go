package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"raingauge-route-service/internal/adapters/repositories"
	"raingauge-route-service/internal/api"
	"raingauge-route-service/internal/config"
	"raingauge-route-service/internal/platform/db"
	"raingauge-route-service/internal/ports"
	"raingauge-route-service/internal/services"
)

// main is the application composition root.
// It wires a station repository (Postgres or SQLite) behind ports,
// loads the station set into a planning session, and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	maxSweeps := config.GetInt("PLAN_MAX_SWEEPS", services.DefaultMaxSweeps)
	rps := config.GetInt("RATE_LIMIT_RPS", 10)
	burst := config.GetInt("RATE_LIMIT_BURST", 20)

	repo, closeDB, err := buildRepository()
	if err != nil {
		log.Fatal(err)
	}
	defer closeDB()

	stations, err := repo.ListStations(context.Background())
	if err != nil {
		log.Fatalf("load stations: %v", err)
	}
	log.Printf("stations loaded: count=%d", len(stations))

	session := services.NewPlanningSession(stations, &services.Planner{MaxSweeps: maxSweeps})

	limiter := api.NewRateLimiter(float64(rps), burst)
	defer limiter.Stop()

	router := api.NewRouter(session, repo, limiter)

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// buildRepository picks the storage backend: Postgres when DATABASE_URL is
// set, otherwise a local SQLite file initialized and seeded on startup.
func buildRepository() (ports.StationRepository, func(), error) {
	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		conn, err := db.Open(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := repositories.InitPostgresSchema(context.Background(), conn); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("init postgres schema: %w", err)
		}
		return repositories.NewSQLStationRepository(conn), func() { conn.Close() }, nil
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	seedPath := config.Get("SEED_PATH", "data/seeds/stations.json")

	conn, err := openSqlite(dbPath)
	if err != nil {
		return nil, nil, err
	}
	if err := initAndSeed(conn, seedPath); err != nil {
		conn.Close()
		return nil, nil, err
	}
	return repositories.NewSqliteStationRepository(conn), func() { conn.Close() }, nil
}

func openSqlite(dbPath string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", dbPath, err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("verify sqlite connection to %q: %w", dbPath, err)
	}

	return conn, nil
}

// Initialize schema and seed demo data on startup for local runs.
func initAndSeed(conn *sql.DB, seedPath string) error {
	if err := repositories.InitSchema(conn); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	if err := repositories.SeedFromJSON(conn, seedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}

	return nil
}
