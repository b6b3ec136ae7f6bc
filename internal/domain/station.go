package domain

import (
	"strings"
	"time"
)

// Status classifies a station's reporting health as seen by the
// monitoring feed. The tiers drive maintenance urgency ranking.
type Status string

const (
	StatusOnline     Status = "ONLINE"
	StatusTimeout    Status = "TIMEOUT"
	StatusOffline    Status = "OFFLINE"
	StatusDisconnect Status = "DISCONNECT"
	StatusRepair     Status = "REPAIR"
	StatusUnknown    Status = "UNKNOWN"
)

// ParseStatus normalizes a raw feed value to a Status tier.
func ParseStatus(s string) Status {
	switch Status(strings.ToUpper(strings.TrimSpace(s))) {
	case StatusOnline:
		return StatusOnline
	case StatusTimeout:
		return StatusTimeout
	case StatusOffline:
		return StatusOffline
	case StatusDisconnect:
		return StatusDisconnect
	case StatusRepair:
		return StatusRepair
	default:
		return StatusUnknown
	}
}

// Report-freshness windows used when the feed carries no explicit status.
const (
	onlineWindow  = 30 * time.Minute
	timeoutWindow = 6 * time.Hour
)

// DeriveStatus classifies a station by the age of its last report:
// within 30 minutes it is online, within 6 hours it has timed out,
// anything older counts as disconnected.
func DeriveStatus(lastReport, now time.Time) Status {
	if lastReport.IsZero() {
		return StatusDisconnect
	}
	delay := now.Sub(lastReport)
	switch {
	case delay <= onlineWindow:
		return StatusOnline
	case delay <= timeoutWindow:
		return StatusTimeout
	default:
		return StatusDisconnect
	}
}

// Represents one rain-gauge station in the monitoring network.
// The station set is loaded by the surrounding application and treated as
// immutable for the duration of a planning session; planning code never
// mutates it.
type Station struct {
	ID           string
	Name         string
	Point        Point
	Status       Status
	LastReportAt *time.Time
}
