package service

import (
	"time"

	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/domain"
)

var kst = time.FixedZone("KST", 9*60*60)

func dist(m float64) *float64 { return &m }

// at returns epoch millis for a wall-clock time in KST.
func at(year int, month time.Month, day, hour, min int) int64 {
	return time.Date(year, month, day, hour, min, 0, 0, kst).UnixMilli()
}

func event(ts int64, floor, person, level string) domain.Event {
	return domain.Event{
		TimestampMs: ts,
		Floor:       floor,
		Person:      person,
		AnchorID:    "AX1",
		Distance:    dist(1.2),
		Level:       domain.RawLevel(level),
	}
}

func allOn(date string) domain.Selection {
	return domain.Selection{Floor: domain.MatchAll, Person: domain.MatchAll, Date: date, Level: domain.MatchAll}
}
