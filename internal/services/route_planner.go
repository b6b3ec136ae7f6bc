package services

import (
	"context"
	"errors"
	"math"

	"raingauge-route-service/internal/domain"
	"raingauge-route-service/internal/geo"
)

// ErrNoStops is returned when a route is requested over an empty stop set.
var ErrNoStops = errors.New("plan route: stop set must be non-empty")

// DefaultMaxSweeps caps improvement passes when the caller does not tune
// the budget. The bound keeps worst-case cost finite on large stop sets
// while staying deterministic for a given input.
const DefaultMaxSweeps = 64

// improvementEps filters float jitter so a no-op reversal is never
// treated as an improvement.
const improvementEps = 1e-9

// Planner computes a technician's visiting order over a set of stations:
// greedy nearest-neighbor construction followed by bounded 2-opt
// improvement. Routes are open (the technician does not return to the
// start) and planning is a pure function of its inputs, so a Planner is
// safe for concurrent use.
type Planner struct {
	// MaxSweeps caps full 2-opt passes. Zero means DefaultMaxSweeps;
	// negative disables the improvement phase entirely.
	MaxSweeps int
}

func (p *Planner) maxSweeps() int {
	switch {
	case p.MaxSweeps > 0:
		return p.MaxSweeps
	case p.MaxSweeps < 0:
		return 0
	default:
		return DefaultMaxSweeps
	}
}

// PlanRoute orders stops into a near-shortest visiting sequence starting
// from start. Duplicate station ids are collapsed to their first
// occurrence, so the result never repeats a station. On context
// cancellation the best order found so far is returned with a nil error;
// a partially improved route is still usable.
func (p *Planner) PlanRoute(ctx context.Context, start domain.Point, stops []domain.Station) (*domain.Route, error) {
	uniq := dedupeStops(stops)
	if len(uniq) == 0 {
		return nil, ErrNoStops
	}
	if len(uniq) == 1 {
		leg := geo.Distance(start, uniq[0].Point)
		return &domain.Route{
			StationIDs: []string{uniq[0].ID},
			LegsKm:     []float64{leg},
			TotalKm:    leg,
		}, nil
	}

	m := buildMatrix(start, uniq)
	order := nearestNeighborOrder(m)
	p.twoOptImprove(ctx, m, order)
	return routeFromOrder(m, uniq, order), nil
}

// distanceMatrix holds pairwise leg costs for a single planning call.
// Node 0 is the start point; node i+1 is stops[i]. It is rebuilt per call
// and never persisted.
type distanceMatrix struct {
	d [][]float64
}

func buildMatrix(start domain.Point, stops []domain.Station) *distanceMatrix {
	points := make([]domain.Point, len(stops)+1)
	points[0] = start
	for i, s := range stops {
		points[i+1] = s.Point
	}

	d := make([][]float64, len(points))
	for i, p := range points {
		// One vectorized pass per row instead of a nested scalar loop.
		d[i] = geo.Distances(p, points)
	}
	return &distanceMatrix{d: d}
}

func (m *distanceMatrix) dist(a, b int) float64 { return m.d[a][b] }

// nearestNeighborOrder builds the greedy order over stop nodes 1..n,
// always stepping to the closest unvisited stop. Strict less-than keeps
// the earlier input index on ties.
func nearestNeighborOrder(m *distanceMatrix) []int {
	n := len(m.d) - 1
	order := make([]int, 0, n)
	visited := make([]bool, n+1)

	current := 0
	for len(order) < n {
		best := -1
		bestDist := math.MaxFloat64
		for node := 1; node <= n; node++ {
			if visited[node] {
				continue
			}
			if d := m.dist(current, node); d < bestDist {
				best = node
				bestDist = d
			}
		}
		visited[best] = true
		order = append(order, best)
		current = best
	}
	return order
}

// twoOptImprove reverses segments of order in place while doing so
// shortens the open path. The first stop stays pinned: it is the nearest
// stop to the start by construction and the route contract keeps it
// there. Each sweep scans every (i, k) pair in a fixed order and applies
// improving reversals immediately; sweeps repeat until none improves or
// the budget runs out. Cancellation is observed between sweeps and keeps
// the best order found so far.
func (p *Planner) twoOptImprove(ctx context.Context, m *distanceMatrix, order []int) {
	n := len(order)
	if n < 3 {
		return
	}

	for sweep := 0; sweep < p.maxSweeps(); sweep++ {
		if ctx.Err() != nil {
			return
		}
		improved := false
		for i := 1; i < n-1; i++ {
			prev := order[i-1]
			for k := i + 1; k < n; k++ {
				// Reversing order[i..k] replaces edges (prev, i) and
				// (k, k+1) with (prev, k) and (i, k+1). The tail edge
				// does not exist when k is the final stop.
				delta := m.dist(prev, order[k]) - m.dist(prev, order[i])
				if k+1 < n {
					delta += m.dist(order[i], order[k+1]) - m.dist(order[k], order[k+1])
				}
				if delta < -improvementEps {
					reverseSegment(order, i, k)
					improved = true
				}
			}
		}
		if !improved {
			return
		}
	}
}

func reverseSegment(order []int, i, k int) {
	for i < k {
		order[i], order[k] = order[k], order[i]
		i++
		k--
	}
}

func routeFromOrder(m *distanceMatrix, stops []domain.Station, order []int) *domain.Route {
	ids := make([]string, len(order))
	legs := make([]float64, len(order))
	total := 0.0

	prev := 0
	for i, node := range order {
		ids[i] = stops[node-1].ID
		legs[i] = m.dist(prev, node)
		total += legs[i]
		prev = node
	}
	return &domain.Route{StationIDs: ids, LegsKm: legs, TotalKm: total}
}

func dedupeStops(stops []domain.Station) []domain.Station {
	seen := make(map[string]struct{}, len(stops))
	out := make([]domain.Station, 0, len(stops))
	for _, s := range stops {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		out = append(out, s)
	}
	return out
}
