package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"raingauge-route-service/internal/api/dto"
	"raingauge-route-service/internal/domain"
	"raingauge-route-service/internal/services"
)

// NearestHandler answers k-nearest-station queries for a technician's
// current position.
type NearestHandler struct {
	Session *services.PlanningSession
}

func (h *NearestHandler) Nearest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "lat must be a number")
		return
	}
	lon, err := strconv.ParseFloat(q.Get("lon"), 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "lon must be a number")
		return
	}

	k := 1
	if raw := q.Get("k"); raw != "" {
		k, err = strconv.Atoi(raw)
		if err != nil || k < 1 {
			writeError(w, r, http.StatusBadRequest, "k must be a positive integer")
			return
		}
	}

	matches, err := h.Session.NearestStations(domain.Point{Lat: lat, Lon: lon}, k)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCoordinate):
			writeError(w, r, http.StatusBadRequest, "coordinate out of range")
		case errors.Is(err, services.ErrNoCandidates):
			writeError(w, r, http.StatusNotFound, "no stations loaded")
		default:
			writeError(w, r, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	res := dto.NearestResponse{
		Matches: make([]dto.NearestMatchResponse, 0, len(matches)),
	}
	for _, m := range matches {
		res.Matches = append(res.Matches, dto.NearestMatchResponse{
			StationID:  m.Station.ID,
			Name:       m.Station.Name,
			Status:     string(m.Station.Status),
			DistanceKm: m.DistanceKm,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
