package dataset

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// DateLayout is the canonical textual form of a Date.
const DateLayout = "2006-01-02"

// Date is a timezone-naive calendar date. The zero value is the invalid-date
// sentinel used for values that could not be parsed.
type Date struct {
	t time.Time
}

// InvalidDate marks a record whose date could not be parsed.
var InvalidDate = Date{}

// NewDate returns the calendar date y-m-d.
func NewDate(y int, m time.Month, d int) Date {
	return Date{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// DateOf keeps only the wall-clock calendar date of t, in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	DateLayout,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
}

// ParseDate parses an ISO-8601-like date or timestamp. Anything else is
// coerced to InvalidDate.
func ParseDate(s string) Date {
	d, ok := parseDate(s)
	if !ok {
		return InvalidDate
	}
	return d
}

func parseDate(s string) (Date, bool) {
	s = strings.TrimSpace(s)
	if s == "" || isMissing(s) {
		return InvalidDate, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return DateOf(t), true
		}
	}
	if t, err := dateparse.ParseStrict(s); err == nil {
		return DateOf(t), true
	}
	return InvalidDate, false
}

// Valid reports whether d holds a real calendar date.
func (d Date) Valid() bool { return !d.t.IsZero() }

// Time returns midnight UTC of d, or the zero time for InvalidDate.
func (d Date) Time() time.Time { return d.t }

// Compare returns -1, 0 or 1. Invalid dates sort before every valid date.
func (d Date) Compare(o Date) int { return d.t.Compare(o.t) }

func (d Date) Before(o Date) bool { return d.t.Before(o.t) }
func (d Date) After(o Date) bool  { return d.t.After(o.t) }
func (d Date) Equal(o Date) bool  { return d.t.Equal(o.t) }

// Within reports whether d lies in [start, end]. Invalid dates are never within.
func (d Date) Within(start, end Date) bool {
	if !d.Valid() || !start.Valid() || !end.Valid() {
		return false
	}
	return !d.Before(start) && !d.After(end)
}

// String renders the canonical form, or "" for InvalidDate.
func (d Date) String() string {
	if !d.Valid() {
		return ""
	}
	return d.t.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if !d.Valid() {
		return []byte("null"), nil
	}
	return json.Marshal(d.String())
}
