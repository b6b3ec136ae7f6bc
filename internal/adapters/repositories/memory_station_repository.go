package repositories

import (
	"context"

	"raingauge-route-service/internal/domain"
)

// MemoryStationRepository serves a fixed station slice. It backs tests
// and database-free local runs.
type MemoryStationRepository struct {
	stations []domain.Station
}

func NewMemoryStationRepository(stations []domain.Station) *MemoryStationRepository {
	return &MemoryStationRepository{stations: append([]domain.Station(nil), stations...)}
}

func (m *MemoryStationRepository) ListStations(ctx context.Context) ([]domain.Station, error) {
	return append([]domain.Station(nil), m.stations...), nil
}
