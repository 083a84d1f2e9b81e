package domain

import (
	"fmt"
	"strings"
	"time"
)

// MatchAll is the sentinel selection value that disables a filter.
const MatchAll = "ALL"

// Selection is the operator's current filter state.
type Selection struct {
	Floor  string `json:"floor"`
	Person string `json:"person"`
	Date   string `json:"date"`
	Level  string `json:"level"`
}

// DefaultSelection matches everything except the date, which is today in loc.
func DefaultSelection(now time.Time, loc *time.Location) Selection {
	return Selection{
		Floor:  MatchAll,
		Person: MatchAll,
		Date:   now.In(loc).Format(DateLayout),
		Level:  MatchAll,
	}
}

// SelectionUpdate carries the fields an operator changed; nil fields are kept.
type SelectionUpdate struct {
	Floor  *string `json:"floor,omitempty"`
	Person *string `json:"person,omitempty"`
	Date   *string `json:"date,omitempty"`
	Level  *string `json:"level,omitempty"`
}

func (u SelectionUpdate) IsEmpty() bool {
	return u.Floor == nil && u.Person == nil && u.Date == nil && u.Level == nil
}

// Apply validates u and returns the resulting selection. s is not modified.
func (s Selection) Apply(u SelectionUpdate) (Selection, error) {
	next := s

	if u.Floor != nil {
		next.Floor = orMatchAll(*u.Floor)
	}
	if u.Person != nil {
		next.Person = orMatchAll(*u.Person)
	}
	if u.Level != nil {
		lv := strings.TrimSpace(*u.Level)
		if lv == "" {
			lv = MatchAll
		}
		if _, ok := ParseSeverity(lv); !ok && lv != MatchAll {
			return s, ErrInvalidSelection.WithMessage(
				fmt.Sprintf("level %q must be one of ALL, safe, warning, danger", lv))
		}
		next.Level = lv
	}
	if u.Date != nil {
		d := strings.TrimSpace(*u.Date)
		if d != "" && d != MatchAll {
			if _, err := time.Parse(DateLayout, d); err != nil {
				return s, ErrInvalidSelection.WithMessage(
					fmt.Sprintf("date %q must be formatted YYYY-MM-DD", d)).WithError(err)
			}
		}
		next.Date = d
	}

	return next, nil
}

func orMatchAll(v string) string {
	if v == "" {
		return MatchAll
	}
	return v
}
