package util

import (
	"strconv"
	"time"
)

const DateLayout = "2006-01-02"

// ParseDate parses a calendar date in YYYY-MM-DD form. Returns (t, true) if it worked.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders a time as YYYY-MM-DD in UTC.
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// DayFromUnix converts unix seconds to the UTC calendar day they fall on.
func DayFromUnix(ts int64) time.Time {
	t := time.Unix(ts, 0).UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseFloat parses a decimal number. FRED reports missing observations as ".",
// which maps to (0, false) like any other unparsable value.
func ParseFloat(s string) (float64, bool) {
	if s == "" || s == "." {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
