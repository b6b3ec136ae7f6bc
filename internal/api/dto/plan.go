package dto

type PointRequest struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type PlanRequest struct {
	Start      PointRequest `json:"start"`
	StationIDs []string     `json:"station_ids"`
}

type PlanStopResponse struct {
	StationID string  `json:"station_id"`
	LegKm     float64 `json:"leg_km"`
}

type PlanResponse struct {
	Stops   []PlanStopResponse `json:"stops"`
	TotalKm float64            `json:"total_km"`
}
