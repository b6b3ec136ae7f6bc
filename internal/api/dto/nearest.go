package dto

type NearestMatchResponse struct {
	StationID  string  `json:"station_id"`
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	DistanceKm float64 `json:"distance_km"`
}

type NearestResponse struct {
	Matches []NearestMatchResponse `json:"matches"`
}
