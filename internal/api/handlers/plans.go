package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"

	"raingauge-route-service/internal/api/dto"
	"raingauge-route-service/internal/domain"
	"raingauge-route-service/internal/services"
)

// PlanHandler computes maintenance visiting orders over the session's
// station set.
type PlanHandler struct {
	Session *services.PlanningSession
}

// Plan resolves the requested station ids, runs the route optimizer, and
// returns the visiting order with per-leg distances.
func (h *PlanHandler) Plan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.PlanRequest

	dec := json.NewDecoder(r.Body)
	defer r.Body.Close()
	dec.DisallowUnknownFields()

	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		writeError(w, r, http.StatusBadRequest, "body must contain only one JSON object")
		return
	}

	start := domain.Point{Lat: req.Start.Lat, Lon: req.Start.Lon}
	route, err := h.Session.PlanRoute(r.Context(), start, req.StationIDs)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCoordinate):
			writeError(w, r, http.StatusBadRequest, "start coordinate out of range")
		case errors.Is(err, services.ErrNoStops):
			writeError(w, r, http.StatusBadRequest, "station_ids must not be empty")
		case errors.Is(err, services.ErrUnknownStation):
			writeError(w, r, http.StatusNotFound, err.Error())
		default:
			log.Printf("plan route failed: %v", err)
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	res := dto.PlanResponse{
		Stops:   make([]dto.PlanStopResponse, 0, len(route.StationIDs)),
		TotalKm: route.TotalKm,
	}
	for i, id := range route.StationIDs {
		res.Stops = append(res.Stops, dto.PlanStopResponse{
			StationID: id,
			LegKm:     route.LegsKm[i],
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
