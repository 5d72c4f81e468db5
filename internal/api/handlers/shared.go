package handlers

import (
	"time"
)

// parseDate accepts a date-only or RFC3339 query value.
func parseDate(value string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", value)
	if err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
