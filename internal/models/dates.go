package models

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used throughout stored documents
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ParseDate parses a stored date string. The second result is false when the
// string is empty or not in a recognised layout.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// DateOrEpoch parses s, treating missing or malformed dates as the Unix epoch
func DateOrEpoch(s string) time.Time {
	if t, ok := ParseDate(s); ok {
		return t
	}
	return time.Unix(0, 0).UTC()
}

// MonthKey returns the YYYY-MM bucket for a date string
func MonthKey(s string) (string, bool) {
	t, ok := ParseDate(s)
	if !ok {
		return "", false
	}
	return t.Format("2006-01"), true
}

// Today returns the current UTC calendar date
func Today() string {
	return time.Now().UTC().Format(DateLayout)
}
