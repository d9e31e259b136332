package util

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

// DateLayout is the calendar date format exchanged with the booking provider.
const DateLayout = "2006-01-02"

// ParseDate parses a yyyy-MM-dd calendar date as midnight UTC. UTC has no
// daylight saving shifts, so day arithmetic on the result is calendar exact.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	return time.ParseInLocation(DateLayout, trimmed, time.UTC)
}

// FormatDate renders the calendar date component of t.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TodayIn returns the calendar date of now as observed in loc.
func TodayIn(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(DateLayout)
}
