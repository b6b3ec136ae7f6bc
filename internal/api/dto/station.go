package dto

import "time"

type StationResponse struct {
	StationID    string     `json:"station_id"`
	Name         string     `json:"name"`
	Lat          float64    `json:"lat"`
	Lon          float64    `json:"lon"`
	Status       string     `json:"status"`
	LastReportAt *time.Time `json:"last_report_at"`
	Urgency      float64    `json:"urgency"`
}

type ListStationsResponse struct {
	Stations []StationResponse `json:"stations"`
}

type ReloadStationsResponse struct {
	Stations int `json:"stations"`
}
