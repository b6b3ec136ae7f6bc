package services

import (
	"errors"
	"fmt"
	"sort"

	"raingauge-route-service/internal/domain"
	"raingauge-route-service/internal/geo"
)

// ErrNoCandidates is returned for a nearest-station query against an
// empty station set.
var ErrNoCandidates = errors.New("nearest: no candidate stations")

// Match pairs a station with its geodesic distance from a query point.
type Match struct {
	Station    domain.Station
	DistanceKm float64
}

// Finder answers nearest-station queries against one station set.
// The coordinate slab is extracted once at construction so repeated
// queries within a session cost a single vectorized distance pass each,
// not a rebuild.
type Finder struct {
	stations []domain.Station
	points   []domain.Point
}

func NewFinder(stations []domain.Station) *Finder {
	f := &Finder{
		stations: append([]domain.Station(nil), stations...),
		points:   make([]domain.Point, len(stations)),
	}
	for i, s := range f.stations {
		f.points[i] = s.Point
	}
	return f
}

// Nearest returns the min(k, n) closest stations to ref, ascending by
// distance. Equal distances keep the stations' input order.
func (f *Finder) Nearest(ref domain.Point, k int) ([]Match, error) {
	if k < 1 {
		return nil, fmt.Errorf("nearest: k must be >= 1, got %d", k)
	}
	if len(f.stations) == 0 {
		return nil, ErrNoCandidates
	}

	dists := geo.Distances(ref, f.points)

	idx := make([]int, len(f.stations))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return dists[idx[a]] < dists[idx[b]]
	})

	if k > len(idx) {
		k = len(idx)
	}
	out := make([]Match, k)
	for i := 0; i < k; i++ {
		out[i] = Match{Station: f.stations[idx[i]], DistanceKm: dists[idx[i]]}
	}
	return out, nil
}
