package domain

import "errors"

// ErrInvalidCoordinate reports a latitude outside [-90, 90] or a longitude
// outside [-180, 180].
var ErrInvalidCoordinate = errors.New("coordinate out of range")

// Immutable geographic point (latitude, longitude) in WGS-84 degrees.
// Used for ad-hoc reference locations such as a clicked map position.
type Point struct {
	Lat float64
	Lon float64
}

// Validate rejects out-of-range coordinates. The distance math itself is
// permissive; boundary layers call this before handing points to it.
func (p Point) Validate() error {
	if p.Lat < -90 || p.Lat > 90 {
		return ErrInvalidCoordinate
	}
	if p.Lon < -180 || p.Lon > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}
