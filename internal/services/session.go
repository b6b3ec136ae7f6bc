package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"raingauge-route-service/internal/cache"
	"raingauge-route-service/internal/domain"
)

// ErrUnknownStation is returned when a plan request names a station id
// that is not part of the session's station set.
var ErrUnknownStation = errors.New("unknown station id")

// PlanningSession owns one planning session's state: the loaded station
// set, the nearest-station finder built over it, the route planner, and
// the session-scoped result caches. It is created at session start and
// discarded at session end; callers inject it rather than reaching for
// ambient globals. Replacing the station set invalidates both caches.
type PlanningSession struct {
	planner *Planner

	// mu guards the station snapshot together with the cache
	// generations: ReplaceStations swaps the set and bumps both
	// generations under the write lock, so a reader holding the read
	// lock always pairs a snapshot with its matching generation.
	mu       sync.RWMutex
	stations []domain.Station
	byID     map[string]domain.Station
	finder   *Finder

	routes  *cache.ResultCache[*domain.Route]
	nearest *cache.ResultCache[[]Match]
}

func NewPlanningSession(stations []domain.Station, planner *Planner) *PlanningSession {
	if planner == nil {
		planner = &Planner{}
	}
	s := &PlanningSession{
		planner: planner,
		routes:  cache.NewResultCache[*domain.Route](),
		nearest: cache.NewResultCache[[]Match](),
	}
	s.mu.Lock()
	s.install(stations)
	s.mu.Unlock()
	return s
}

// install swaps in a station set. Callers must hold mu.
func (s *PlanningSession) install(stations []domain.Station) {
	set := append([]domain.Station(nil), stations...)
	byID := make(map[string]domain.Station, len(set))
	for _, st := range set {
		byID[st.ID] = st
	}

	s.stations = set
	s.byID = byID
	s.finder = NewFinder(set)
}

// ReplaceStations swaps in a new station set and invalidates every cached
// result by bumping the cache generations. Both happen under the session
// lock so no query can pair the old set with the new generation.
func (s *PlanningSession) ReplaceStations(stations []domain.Station) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.install(stations)
	s.routes.Invalidate()
	s.nearest.Invalidate()
}

// Stations returns a copy of the current station set in load order.
func (s *PlanningSession) Stations() []domain.Station {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Station(nil), s.stations...)
}

// PlanRoute resolves stop ids against the station set and returns the
// planned visiting order, served from the session cache when the same
// logical request was answered before. A plan cut short by context
// cancellation is returned to its caller but never memoized, so the next
// live request computes the fully improved route.
func (s *PlanningSession) PlanRoute(ctx context.Context, start domain.Point, stopIDs []string) (*domain.Route, error) {
	if err := start.Validate(); err != nil {
		return nil, fmt.Errorf("plan route: start: %w", err)
	}
	if len(stopIDs) == 0 {
		return nil, ErrNoStops
	}

	s.mu.RLock()
	stops := make([]domain.Station, 0, len(stopIDs))
	for _, id := range stopIDs {
		st, ok := s.byID[id]
		if !ok {
			s.mu.RUnlock()
			return nil, fmt.Errorf("plan route: %w: %q", ErrUnknownStation, id)
		}
		stops = append(stops, st)
	}
	gen := s.routes.Generation()
	s.mu.RUnlock()

	key := cache.RouteKey(start, stopIDs)
	return s.routes.GetOrComputeAt(gen, key, func() (*domain.Route, bool, error) {
		route, err := s.planner.PlanRoute(ctx, start, stops)
		if err != nil {
			return nil, false, err
		}
		return route, ctx.Err() == nil, nil
	})
}

// NearestStations answers a k-nearest query against the session's station
// set, cached per quantized reference point and k.
func (s *PlanningSession) NearestStations(ref domain.Point, k int) ([]Match, error) {
	if err := ref.Validate(); err != nil {
		return nil, fmt.Errorf("nearest: reference: %w", err)
	}

	s.mu.RLock()
	finder := s.finder
	gen := s.nearest.Generation()
	s.mu.RUnlock()

	key := cache.NearestKey(ref, k)
	return s.nearest.GetOrComputeAt(gen, key, func() ([]Match, bool, error) {
		matches, err := finder.Nearest(ref, k)
		return matches, true, err
	})
}
