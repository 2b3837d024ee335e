package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// ParseDateTime parses an ISO-8601 date-time with an explicit offset (RFC 3339).
func ParseDateTime(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("empty date-time")
	}
	parsed, err := time.Parse(time.RFC3339Nano, trimmed)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is not an ISO-8601 date-time", value)
	}
	return parsed, nil
}

// FormatDate renders unix seconds as a UTC calendar date.
func FormatDate(unix int64) string {
	return time.Unix(unix, 0).UTC().Format(time.DateOnly)
}
