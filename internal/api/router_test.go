package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"raingauge-route-service/internal/adapters/repositories"
	"raingauge-route-service/internal/api/dto"
	"raingauge-route-service/internal/domain"
	"raingauge-route-service/internal/services"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	stations := []domain.Station{
		{ID: "G1001", Name: "Map Ta Phut", Point: domain.Point{Lat: 12.68, Lon: 101.15}, Status: domain.StatusOnline},
		{ID: "G1002", Name: "Ban Chang", Point: domain.Point{Lat: 12.72, Lon: 101.06}, Status: domain.StatusOffline},
		{ID: "G1003", Name: "Pluak Daeng", Point: domain.Point{Lat: 12.98, Lon: 101.21}, Status: domain.StatusTimeout},
	}
	repo := repositories.NewMemoryStationRepository(stations)
	session := services.NewPlanningSession(stations, nil)
	return NewRouter(session, repo, nil)
}

func doRequest(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthEndpoint(t *testing.T) {
	rec := doRequest(t, newTestRouter(t), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestListStationsRankedByUrgency(t *testing.T) {
	rec := doRequest(t, newTestRouter(t), http.MethodGet, "/stations", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var res dto.ListStationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Stations) != 3 {
		t.Fatalf("got %d stations, want 3", len(res.Stations))
	}
	// Offline outranks timeout outranks online.
	if res.Stations[0].StationID != "G1002" || res.Stations[1].StationID != "G1003" {
		t.Fatalf("unexpected order: %s, %s, %s",
			res.Stations[0].StationID, res.Stations[1].StationID, res.Stations[2].StationID)
	}
}

func TestNearestEndpoint(t *testing.T) {
	rec := doRequest(t, newTestRouter(t), http.MethodGet, "/nearest?lat=12.70&lon=101.14&k=2", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var res dto.NearestResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Matches) != 2 {
		t.Fatalf("got %d matches, want 2", len(res.Matches))
	}
	if res.Matches[0].StationID != "G1001" {
		t.Fatalf("closest = %s, want G1001", res.Matches[0].StationID)
	}
	if res.Matches[0].DistanceKm >= res.Matches[1].DistanceKm {
		t.Fatalf("matches not ascending: %f, %f", res.Matches[0].DistanceKm, res.Matches[1].DistanceKm)
	}
}

func TestNearestRejectsBadQuery(t *testing.T) {
	h := newTestRouter(t)

	for _, target := range []string{
		"/nearest?lat=abc&lon=101.14",
		"/nearest?lat=12.70&lon=",
		"/nearest?lat=12.70&lon=101.14&k=0",
		"/nearest?lat=99&lon=101.14",
	} {
		rec := doRequest(t, h, http.MethodGet, target, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", target, rec.Code)
		}
	}
}

func TestPlanEndpoint(t *testing.T) {
	body := `{"start":{"lat":12.70,"lon":101.14},"station_ids":["G1003","G1001","G1002"]}`
	rec := doRequest(t, newTestRouter(t), http.MethodPost, "/plans", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var res dto.PlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Stops) != 3 {
		t.Fatalf("got %d stops, want 3", len(res.Stops))
	}
	if res.Stops[0].StationID != "G1001" {
		t.Fatalf("first stop = %s, want nearest station G1001", res.Stops[0].StationID)
	}

	var sum float64
	for _, s := range res.Stops {
		sum += s.LegKm
	}
	if diff := res.TotalKm - sum; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("total %f does not match leg sum %f", res.TotalKm, sum)
	}
}

func TestPlanRejectsBadRequests(t *testing.T) {
	h := newTestRouter(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{`, http.StatusBadRequest},
		{"unknown field", `{"start":{"lat":1,"lon":1},"station_ids":["G1001"],"extra":1}`, http.StatusBadRequest},
		{"trailing object", `{"start":{"lat":1,"lon":1},"station_ids":["G1001"]}{}`, http.StatusBadRequest},
		{"empty stops", `{"start":{"lat":1,"lon":1},"station_ids":[]}`, http.StatusBadRequest},
		{"bad start", `{"start":{"lat":95,"lon":1},"station_ids":["G1001"]}`, http.StatusBadRequest},
		{"unknown station", `{"start":{"lat":1,"lon":1},"station_ids":["G9999"]}`, http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := doRequest(t, h, http.MethodPost, "/plans", tc.body)
		if rec.Code != tc.want {
			t.Fatalf("%s: status = %d, want %d: %s", tc.name, rec.Code, tc.want, rec.Body.String())
		}
	}
}

func TestReloadEndpointInvalidatesSession(t *testing.T) {
	stations := []domain.Station{
		{ID: "G1001", Name: "Map Ta Phut", Point: domain.Point{Lat: 12.68, Lon: 101.15}, Status: domain.StatusOnline},
	}
	fresh := []domain.Station{
		{ID: "G1001", Name: "Map Ta Phut", Point: domain.Point{Lat: 12.68, Lon: 101.15}, Status: domain.StatusOnline},
		{ID: "G1004", Name: "Klaeng", Point: domain.Point{Lat: 12.78, Lon: 101.65}, Status: domain.StatusRepair},
	}
	repo := repositories.NewMemoryStationRepository(fresh)
	session := services.NewPlanningSession(stations, nil)
	h := NewRouter(session, repo, nil)

	rec := doRequest(t, h, http.MethodPost, "/stations/reload", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var res dto.ReloadStationsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.Stations != 2 {
		t.Fatalf("reload count = %d, want 2", res.Stations)
	}
	if got := len(session.Stations()); got != 2 {
		t.Fatalf("session has %d stations after reload, want 2", got)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	h := newTestRouter(t)

	rec := doRequest(t, h, http.MethodPost, "/stations", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
	rec = doRequest(t, h, http.MethodGet, "/plans", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestRateLimiterThrottles(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	defer limiter.Stop()

	stations := []domain.Station{
		{ID: "G1001", Name: "Map Ta Phut", Point: domain.Point{Lat: 12.68, Lon: 101.15}},
	}
	h := NewRouter(services.NewPlanningSession(stations, nil), repositories.NewMemoryStationRepository(stations), limiter)

	var limited bool
	for i := 0; i < 5; i++ {
		rec := doRequest(t, h, http.MethodGet, "/health", "")
		if rec.Code == http.StatusTooManyRequests {
			limited = true
		}
	}
	if !limited {
		t.Fatal("expected at least one 429 after exhausting the burst")
	}
}
