package services

import (
	"sort"
	"time"

	"raingauge-route-service/internal/domain"
)

// RankedStation decorates a station with its maintenance urgency score.
type RankedStation struct {
	domain.Station
	Urgency float64
}

// statusWeight orders tiers by maintenance urgency: a dead or silent
// station beats one that is merely late, which beats a healthy one.
func statusWeight(s domain.Status) float64 {
	switch s {
	case domain.StatusOffline:
		return 90
	case domain.StatusDisconnect:
		return 80
	case domain.StatusRepair:
		return 70
	case domain.StatusTimeout:
		return 50
	case domain.StatusUnknown:
		return 40
	default:
		return 0
	}
}

// maxStalenessPoints caps the report-age contribution so staleness orders
// stations within a status tier without promoting across tiers.
const maxStalenessPoints = 9.0

// RankByUrgency sorts stations by descending maintenance urgency.
// Stations with an empty or unknown status fall back to the freshness of
// their last report. Ties break on station id, so the ranking is
// deterministic for a given station set and clock.
func RankByUrgency(stations []domain.Station, now time.Time) []RankedStation {
	out := make([]RankedStation, len(stations))
	for i, st := range stations {
		out[i] = RankedStation{Station: st, Urgency: urgencyScore(st, now)}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Urgency != out[b].Urgency {
			return out[a].Urgency > out[b].Urgency
		}
		return out[a].ID < out[b].ID
	})
	return out
}

func urgencyScore(st domain.Station, now time.Time) float64 {
	status := st.Status
	if status == "" || status == domain.StatusUnknown {
		if st.LastReportAt != nil {
			status = domain.DeriveStatus(*st.LastReportAt, now)
		}
	}

	score := statusWeight(status)
	if st.LastReportAt == nil {
		return score + maxStalenessPoints
	}

	hours := now.Sub(*st.LastReportAt).Hours()
	if hours < 0 {
		hours = 0
	}
	if hours > maxStalenessPoints {
		hours = maxStalenessPoints
	}
	return score + hours
}
