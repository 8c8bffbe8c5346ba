package timeutil

import "time"

// DateLayout defines the canonical date format (YYYY-MM-DD) used by the
// league authority for schedule and game dates.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date string.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// DaysBetween returns the whole calendar days from a to b (b - a), flooring
// partial days. Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}
