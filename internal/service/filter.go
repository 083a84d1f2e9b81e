package service

import (
	"time"

	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/domain"
)

// Filter returns the events of batch that match sel, keeping batch order.
// Event dates are compared in loc.
func Filter(batch []domain.Event, sel domain.Selection, loc *time.Location) []domain.Event {
	out := make([]domain.Event, 0, len(batch))
	for _, e := range batch {
		if Matches(e, sel, loc) {
			out = append(out, e)
		}
	}
	return out
}

// Matches reports whether e passes every criterion of sel.
func Matches(e domain.Event, sel domain.Selection, loc *time.Location) bool {
	if sel.Date != domain.MatchAll && e.LocalDate(loc) != sel.Date {
		return false
	}
	if sel.Floor != domain.MatchAll && e.Floor != sel.Floor {
		return false
	}
	if sel.Person != domain.MatchAll && e.Person != sel.Person {
		return false
	}
	if sel.Level != domain.MatchAll && string(e.Severity()) != sel.Level {
		return false
	}
	return true
}
