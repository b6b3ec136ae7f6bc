package domain

import (
	"errors"
	"testing"
	"time"
)

func TestDeriveStatus(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	if got := DeriveStatus(now.Add(-10*time.Minute), now); got != StatusOnline {
		t.Fatalf("10m old report: got %s, want %s", got, StatusOnline)
	}
	if got := DeriveStatus(now.Add(-30*time.Minute), now); got != StatusOnline {
		t.Fatalf("30m boundary: got %s, want %s", got, StatusOnline)
	}
	if got := DeriveStatus(now.Add(-2*time.Hour), now); got != StatusTimeout {
		t.Fatalf("2h old report: got %s, want %s", got, StatusTimeout)
	}
	if got := DeriveStatus(now.Add(-7*time.Hour), now); got != StatusDisconnect {
		t.Fatalf("7h old report: got %s, want %s", got, StatusDisconnect)
	}
	if got := DeriveStatus(time.Time{}, now); got != StatusDisconnect {
		t.Fatalf("zero report time: got %s, want %s", got, StatusDisconnect)
	}
}

func TestParseStatus(t *testing.T) {
	if got := ParseStatus(" online "); got != StatusOnline {
		t.Fatalf("got %s, want %s", got, StatusOnline)
	}
	if got := ParseStatus("REPAIR"); got != StatusRepair {
		t.Fatalf("got %s, want %s", got, StatusRepair)
	}
	if got := ParseStatus("garbage"); got != StatusUnknown {
		t.Fatalf("got %s, want %s", got, StatusUnknown)
	}
	if got := ParseStatus(""); got != StatusUnknown {
		t.Fatalf("empty: got %s, want %s", got, StatusUnknown)
	}
}

func TestPointValidate(t *testing.T) {
	valid := []Point{
		{Lat: 0, Lon: 0},
		{Lat: -90, Lon: 180},
		{Lat: 90, Lon: -180},
		{Lat: 13.7563, Lon: 100.5018},
	}
	for _, p := range valid {
		if err := p.Validate(); err != nil {
			t.Errorf("Validate(%+v) = %v, want nil", p, err)
		}
	}

	invalid := []Point{
		{Lat: 90.0001, Lon: 0},
		{Lat: -91, Lon: 0},
		{Lat: 0, Lon: 180.5},
		{Lat: 0, Lon: -200},
	}
	for _, p := range invalid {
		if err := p.Validate(); !errors.Is(err, ErrInvalidCoordinate) {
			t.Errorf("Validate(%+v) = %v, want ErrInvalidCoordinate", p, err)
		}
	}
}
