package ports

import (
	"context"

	"raingauge-route-service/internal/domain"
)

// Port: a boundary for loading the rain-gauge station table from a data
// source. Implementations return the full set; filtering and ranking are
// planning concerns.
type StationRepository interface {
	// ListStations returns every station available for planning.
	ListStations(ctx context.Context) ([]domain.Station, error)
}
