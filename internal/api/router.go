package api

import (
	"net/http"

	"raingauge-route-service/internal/api/handlers"
	"raingauge-route-service/internal/ports"
	"raingauge-route-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// A nil limiter disables rate limiting.
func NewRouter(session *services.PlanningSession, repo ports.StationRepository, limiter *RateLimiter) http.Handler {
	mux := http.NewServeMux()

	stationHandler := &handlers.StationHandler{Session: session, Repo: repo}
	planHandler := &handlers.PlanHandler{Session: session}
	nearestHandler := &handlers.NearestHandler{Session: session}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/stations", stationHandler.List)
	mux.HandleFunc("/stations/reload", stationHandler.Reload)
	mux.HandleFunc("/nearest", nearestHandler.Nearest)
	mux.HandleFunc("/plans", planHandler.Plan)

	var h http.Handler = mux
	if limiter != nil {
		h = limiter.middleware(h)
	}
	return loggingMiddleware(h)
}
