package domain

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// DateLayout is the calendar-date format shared by events and the date filter.
const DateLayout = "2006-01-02"

// Event is one proximity reading reported by the UWB backend.
type Event struct {
	TimestampMs int64    `json:"timestampMs"`
	Floor       string   `json:"floor,omitempty"`
	Person      string   `json:"person,omitempty"`
	AnchorID    string   `json:"anchorId"`
	Distance    *float64 `json:"distance"`
	Level       RawLevel `json:"level"`
}

// Time returns the event timestamp in loc.
func (e Event) Time(loc *time.Location) time.Time {
	return time.UnixMilli(e.TimestampMs).In(loc)
}

// LocalDate returns the YYYY-MM-DD calendar date of the event in loc.
func (e Event) LocalDate(loc *time.Location) string {
	return e.Time(loc).Format(DateLayout)
}

func (e Event) Severity() Severity {
	return NormalizeLevel(string(e.Level))
}

// RawLevel is the level field exactly as the backend sent it. Any JSON scalar
// is accepted: strings verbatim, other literals as their JSON text, null as "".
type RawLevel string

func (l *RawLevel) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = RawLevel(s)
		return nil
	}
	*l = RawLevel(data)
	return nil
}

type Severity string

const (
	SeveritySafe    Severity = "safe"
	SeverityWarning Severity = "warning"
	SeverityDanger  Severity = "danger"
)

// NormalizeLevel maps any raw level to a severity class. Unknown and empty
// values are safe.
func NormalizeLevel(raw string) Severity {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "danger":
		return SeverityDanger
	case "warning":
		return SeverityWarning
	default:
		return SeveritySafe
	}
}

// Label is the Korean badge text for the severity.
func (s Severity) Label() string {
	switch s {
	case SeverityDanger:
		return "위험"
	case SeverityWarning:
		return "주의"
	default:
		return "안전"
	}
}

// ParseSeverity accepts only the three lowercase class names.
func ParseSeverity(s string) (Severity, bool) {
	switch Severity(s) {
	case SeveritySafe, SeverityWarning, SeverityDanger:
		return Severity(s), true
	}
	return "", false
}

// RowClass keys table-row styling on the raw level with a case-sensitive
// match, so "Danger" gets the safe row style while its badge reads 위험.
func RowClass(raw RawLevel) string {
	switch raw {
	case "danger":
		return "row-danger"
	case "warning":
		return "row-warning"
	default:
		return "row-safe"
	}
}

// BadgeClass is "status-" followed by the trimmed, lower-cased raw level.
func BadgeClass(raw RawLevel) string {
	lv := strings.ToLower(strings.TrimSpace(string(raw)))
	if lv == "" {
		lv = string(SeveritySafe)
	}
	return "status-" + lv
}
