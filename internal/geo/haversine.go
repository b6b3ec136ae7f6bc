// Package geo implements great-circle distance math over WGS-84 points.
package geo

import (
	"math"

	"raingauge-route-service/internal/domain"
)

// EarthRadiusKm is the IUGG mean Earth radius. Stations sit kilometers
// apart, so the spherical model is accurate enough and elevation and
// ellipsoidal corrections are deliberately ignored.
const EarthRadiusKm = 6371.0088

const degToRad = math.Pi / 180

// origin holds the per-origin terms of the haversine formula so a
// one-to-many pass computes them once instead of per target. Both the
// scalar and vectorized entry points go through the same kernel, which
// keeps their outputs bit-identical.
type origin struct {
	lat    float64 // radians
	lon    float64 // radians
	cosLat float64
}

func newOrigin(p domain.Point) origin {
	lat := p.Lat * degToRad
	return origin{lat: lat, lon: p.Lon * degToRad, cosLat: math.Cos(lat)}
}

func (o origin) to(t domain.Point) float64 {
	lat := t.Lat * degToRad
	dLat := lat - o.lat
	dLon := t.Lon*degToRad - o.lon
	sinLat := math.Sin(dLat / 2)
	sinLon := math.Sin(dLon / 2)
	a := sinLat*sinLat + o.cosLat*math.Cos(lat)*sinLon*sinLon
	return 2 * EarthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

// Distance returns the haversine great-circle distance between two points
// in kilometers. Identical coordinates yield exactly 0. Coordinates are
// not range-checked here; callers validate at their boundary.
func Distance(p1, p2 domain.Point) float64 {
	return newOrigin(p1).to(p2)
}

// Distances returns the distance from origin to every target, aligned
// index-for-index with targets. Each element equals
// Distance(origin, targets[i]); the origin terms are hoisted out of the
// loop so one-to-many queries do not degrade to n independent scalar
// evaluations.
func Distances(o domain.Point, targets []domain.Point) []float64 {
	or := newOrigin(o)
	out := make([]float64, len(targets))
	for i, t := range targets {
		out[i] = or.to(t)
	}
	return out
}
