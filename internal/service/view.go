package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/saturnino-fabrica-de-software/uwb-dashboard/internal/domain"
)

const (
	TimeLayout = "15:04:05"

	AllFloorsLabel  = "전체"
	AllPersonsLabel = "전체 보기"
	AllLevelsLabel  = "전체 레벨"

	NoPersonsMessage = "데이터가 없습니다."
	NoRowsMessage    = "선택된 조건에 해당하는 기록이 없습니다."
)

type FloorOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

type PersonEntry struct {
	Value  string `json:"value"`
	Name   string `json:"name"`
	Serial string `json:"serial,omitempty"`
	Active bool   `json:"active"`
}

type LevelOption struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Selected bool   `json:"selected"`
}

// Row is one rendered table line.
type Row struct {
	TimestampMs int64           `json:"timestamp_ms"`
	Time        string          `json:"time"`
	Person      string          `json:"person"`
	AnchorID    string          `json:"anchor_id"`
	Distance    string          `json:"distance"`
	Severity    domain.Severity `json:"severity"`
	RowClass    string          `json:"row_class"`
	BadgeClass  string          `json:"badge_class"`
	BadgeLabel  string          `json:"badge_label"`
}

// View is everything the dashboard page and the JSON API show for one state.
type View struct {
	Selection    domain.Selection `json:"selection"`
	Floors       []FloorOption    `json:"floors"`
	AllPersons   PersonEntry      `json:"all_persons"`
	Persons      []PersonEntry    `json:"persons"`
	Levels       []LevelOption    `json:"levels"`
	Rows         []Row            `json:"rows"`
	TotalEvents  int              `json:"total_events"`
	PersonsEmpty string           `json:"persons_empty,omitempty"`
	RowsEmpty    string           `json:"rows_empty,omitempty"`
}

// BuildView derives option sets from batch, filters it by sel and formats the
// result. An event without a distance fails the whole view.
func BuildView(batch []domain.Event, sel domain.Selection, loc *time.Location) (View, error) {
	v := View{
		Selection:   sel,
		Floors:      floorOptions(DistinctFloors(batch), sel.Floor),
		AllPersons:  PersonEntry{Value: domain.MatchAll, Name: AllPersonsLabel, Active: sel.Person == domain.MatchAll},
		Persons:     personEntries(DistinctPersons(batch), sel.Person),
		Levels:      levelOptions(sel.Level),
		TotalEvents: len(batch),
	}
	if len(v.Persons) == 0 {
		v.PersonsEmpty = NoPersonsMessage
	}

	filtered := Filter(batch, sel, loc)
	v.Rows = make([]Row, 0, len(filtered))
	for _, e := range filtered {
		row, err := NewRow(e, loc)
		if err != nil {
			return View{}, err
		}
		v.Rows = append(v.Rows, row)
	}
	if len(v.Rows) == 0 {
		v.RowsEmpty = NoRowsMessage
	}

	return v, nil
}

// NewRow formats a single event for the table.
func NewRow(e domain.Event, loc *time.Location) (Row, error) {
	if e.Distance == nil {
		return Row{}, domain.ErrMalformedEvent.WithError(
			fmt.Errorf("event at %d from anchor %q has no distance", e.TimestampMs, e.AnchorID))
	}

	sev := e.Severity()
	return Row{
		TimestampMs: e.TimestampMs,
		Time:        e.Time(loc).Format(TimeLayout),
		Person:      e.Person,
		AnchorID:    e.AnchorID,
		Distance:    FormatDistance(*e.Distance),
		Severity:    sev,
		RowClass:    domain.RowClass(e.Level),
		BadgeClass:  domain.BadgeClass(e.Level),
		BadgeLabel:  sev.Label(),
	}, nil
}

// FormatDistance renders meters with two decimals and a unit suffix.
func FormatDistance(meters float64) string {
	return strconv.FormatFloat(meters, 'f', 2, 64) + "m"
}

// FloorLabel turns "3F" into "3 Floor".
func FloorLabel(floor string) string {
	return strings.Replace(floor, "F", "", 1) + " Floor"
}

func floorOptions(floors []string, selected string) []FloorOption {
	opts := make([]FloorOption, 0, len(floors)+1)
	opts = append(opts, FloorOption{Value: domain.MatchAll, Label: AllFloorsLabel, Selected: selected == domain.MatchAll})
	for _, f := range floors {
		opts = append(opts, FloorOption{Value: f, Label: FloorLabel(f), Selected: f == selected})
	}
	return opts
}

func personEntries(persons []string, selected string) []PersonEntry {
	entries := make([]PersonEntry, 0, len(persons))
	for _, p := range persons {
		name, serial := domain.SplitPerson(p)
		entries = append(entries, PersonEntry{Value: p, Name: name, Serial: serial, Active: p == selected})
	}
	return entries
}

func levelOptions(selected string) []LevelOption {
	opts := []LevelOption{{Value: domain.MatchAll, Label: AllLevelsLabel}}
	for _, s := range []domain.Severity{domain.SeveritySafe, domain.SeverityWarning, domain.SeverityDanger} {
		opts = append(opts, LevelOption{Value: string(s), Label: s.Label()})
	}
	for i := range opts {
		opts[i].Selected = opts[i].Value == selected
	}
	return opts
}
