package repository

import (
	"fmt"
	"time"
)

// Timestamps are stored as RFC3339 UTC strings; date-only columns (prices,
// fx rates) as "2006-01-02".
const dateLayout = "2006-01-02"

// ParseTime parses a stored timestamp in "2006-01-02" or RFC3339 format.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse(dateLayout, str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// FormatTime renders a timestamp for storage.
func FormatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// FormatDate renders a date-only value for storage.
func FormatDate(t time.Time) string {
	return t.UTC().Format(dateLayout)
}
