package handlers

import (
	"log"
	"net/http"
	"time"

	"raingauge-route-service/internal/api/dto"
	"raingauge-route-service/internal/ports"
	"raingauge-route-service/internal/services"
)

// StationHandler exposes the station inventory: a ranked listing of the
// current session's stations and a reload endpoint that refreshes the
// session from the repository.
type StationHandler struct {
	Session *services.PlanningSession
	Repo    ports.StationRepository
}

// List returns every station in the session, ordered by maintenance
// urgency (most urgent first).
func (h *StationHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	ranked := services.RankByUrgency(h.Session.Stations(), time.Now())

	res := dto.ListStationsResponse{
		Stations: make([]dto.StationResponse, 0, len(ranked)),
	}
	for _, s := range ranked {
		res.Stations = append(res.Stations, dto.StationResponse{
			StationID:    s.ID,
			Name:         s.Name,
			Lat:          s.Point.Lat,
			Lon:          s.Point.Lon,
			Status:       string(s.Status),
			LastReportAt: s.LastReportAt,
			Urgency:      s.Urgency,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

// Reload re-reads the station set from the repository and swaps it into
// the session, invalidating every cached plan and nearest result.
func (h *StationHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	stations, err := h.Repo.ListStations(r.Context())
	if err != nil {
		log.Printf("reload stations failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	h.Session.ReplaceStations(stations)
	log.Printf("stations reloaded: count=%d", len(stations))

	writeJSON(w, r, http.StatusOK, dto.ReloadStationsResponse{Stations: len(stations)})
}
