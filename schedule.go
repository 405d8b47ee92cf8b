package dropin

import (
	"encoding/json"
	"maps"
	"math"
	"regexp"
	"strings"
)

// Schedule is one validated recurring activity occurrence at a facility.
// Schedules are only built by RawEntry.Promote after validation.
type Schedule struct {
	Facility        string  `json:"facility"`
	Activity        string  `json:"activity"`
	StartTime       string  `json:"startTime"`
	EndTime         string  `json:"endTime"`
	PeriodStartDate *string `json:"periodStartDate"`
	PeriodEndDate   *string `json:"periodEndDate"`
	DayOfWeek       int     `json:"dayOfWeek"`
}

// Raw entry field names as emitted by the model.
const (
	FieldActivity        = "activity"
	FieldStartTime       = "start_time"
	FieldEndTime         = "end_time"
	FieldPeriodStartDate = "period_start_date"
	FieldPeriodEndDate   = "period_end_date"
	FieldDayOfWeek       = "day_of_week"
)

var timePattern = regexp.MustCompile(`^\d{1,2}:\d{2}$`)

// RawEntry is a schedule entry as extracted by the model, before validation.
// Values keep their decoded JSON types (string, float64, nil, ...).
type RawEntry map[string]any

// Validate returns an EINVALID error naming the first field that breaks
// the schedule rules.
func (e RawEntry) Validate() error {
	for _, field := range []string{FieldActivity, FieldStartTime, FieldEndTime, FieldDayOfWeek} {
		if isEmptyValue(e[field]) {
			return Errorf(EINVALID, "missing or empty %s", field)
		}
	}

	if stripAnnotation(e.str(FieldActivity)) == "" {
		return Errorf(EINVALID, "activity is blank after removing annotation")
	}

	day, ok := intValue(e[FieldDayOfWeek])
	if !ok || day < 1 || day > 7 {
		return Errorf(EINVALID, "invalid day_of_week: %v", e[FieldDayOfWeek])
	}

	for _, field := range []string{FieldStartTime, FieldEndTime} {
		s, ok := e[field].(string)
		if !ok || !timePattern.MatchString(s) {
			return Errorf(EINVALID, "invalid time format: %s=%v", field, e[field])
		}
	}

	return nil
}

// Valid reports whether the entry passes Validate.
func (e RawEntry) Valid() bool {
	return e.Validate() == nil
}

// Promote validates the entry and converts it into a Schedule owned by facility.
func (e RawEntry) Promote(facility string) (*Schedule, error) {
	if err := e.Validate(); err != nil {
		return nil, err
	}
	day, _ := intValue(e[FieldDayOfWeek])
	return &Schedule{
		Facility:        facility,
		Activity:        stripAnnotation(e.str(FieldActivity)),
		StartTime:       e.str(FieldStartTime),
		EndTime:         e.str(FieldEndTime),
		PeriodStartDate: e.optional(FieldPeriodStartDate),
		PeriodEndDate:   e.optional(FieldPeriodEndDate),
		DayOfWeek:       day,
	}, nil
}

func (e RawEntry) str(field string) string {
	s, _ := e[field].(string)
	return s
}

func (e RawEntry) optional(field string) *string {
	s, ok := e[field].(string)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// InvalidEntry is a raw entry that failed validation, kept with the facility
// it came from for diagnostics.
type InvalidEntry struct {
	Facility string
	Entry    RawEntry
}

// MarshalJSON writes the raw entry with an added facility key.
func (e InvalidEntry) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(e.Entry)+1)
	maps.Copy(out, e.Entry)
	out["facility"] = e.Facility
	return json.Marshal(out)
}

// Partition validates entries extracted for facility and splits them into
// promoted schedules and invalid entries. The input entries are not modified.
func Partition(facility string, entries []RawEntry) ([]*Schedule, []InvalidEntry) {
	var valid []*Schedule
	var invalid []InvalidEntry
	for _, entry := range entries {
		schedule, err := entry.Promote(facility)
		if err != nil {
			invalid = append(invalid, InvalidEntry{Facility: facility, Entry: entry})
			continue
		}
		valid = append(valid, schedule)
	}
	return valid, invalid
}

// stripAnnotation removes a trailing "*" annotation and surrounding whitespace.
func stripAnnotation(s string) string {
	if i := strings.Index(s, "*"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func isEmptyValue(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case bool:
		return !v
	case float64:
		return v == 0
	case json.Number:
		return v.String() == "0"
	}
	return false
}

// intValue accepts JSON numbers without a fractional part. Strings and
// booleans are not coerced.
func intValue(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(i), true
	}
	return 0, false
}
