package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used in storage, exports and the CLI
const DateLayout = "2006-01-02"

// Date is a calendar date without a time-of-day component
type Date struct {
	time.Time
}

// NewDate creates a new Date from year, month, day
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's location
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today returns the current local calendar date
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses a YYYY-MM-DD string; the empty string yields the zero Date
func ParseDate(s string) (Date, error) {
	if s == "" {
		return Date{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD): %w", s, err)
	}
	return Date{Time: t}, nil
}

// AddDays returns the date n days later
func (d Date) AddDays(n int) Date {
	return Date{Time: d.Time.AddDate(0, 0, n)}
}

// String formats the date as YYYY-MM-DD, or "" when unset
func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// MarshalJSON writes the date as a YYYY-MM-DD string, or null when unset
func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Format(DateLayout))
}

// UnmarshalJSON accepts YYYY-MM-DD strings, the empty string and null
func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := jsonUnmarshalString(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// jsonUnmarshalString decodes a JSON string, mapping null to ""
func jsonUnmarshalString(b []byte, s *string) error {
	if string(b) == "null" {
		*s = ""
		return nil
	}
	return json.Unmarshal(b, s)
}

// AddMonths returns the date n calendar months later, normalizing overflow the
// way time.AddDate does (Jan 31 + 1 month is early March)
func (d Date) AddMonths(n int) Date {
	return Date{Time: d.Time.AddDate(0, n, 0)}
}
