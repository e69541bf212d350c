package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used by every date field.
const DateLayout = "2006-01-02"

// Date is a calendar date serialized as YYYY-MM-DD. Database drivers hand
// date columns back as timestamps, so parsing also accepts RFC 3339 values
// and keeps only their date part.
type Date string

// NewDate formats t as a Date.
func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// ParseDate normalizes s into a Date.
func ParseDate(s string) (Date, error) {
	if s == "" {
		return "", nil
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return NewDate(t), nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05Z07:00", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t), nil
		}
	}
	return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
}

// Time returns the date at midnight UTC.
func (d Date) Time() (time.Time, error) {
	return time.Parse(DateLayout, string(d))
}

func (d Date) String() string { return string(d) }

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
