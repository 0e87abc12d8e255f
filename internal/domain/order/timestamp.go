package order

import (
	"strings"
	"time"
)

// Accepted layouts, tried in order. time.Parse accepts a fractional second after the
// seconds field even when the layout has none.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// ParseTimestamp parses an ISO-8601 timestamp with optional fractional seconds and an
// optional Z or offset. The result is in UTC; zone-less input is taken as UTC.
// Returns nil for empty or unparsable input.
func ParseTimestamp(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if strings.HasSuffix(s, "z") {
		s = s[:len(s)-1] + "Z"
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}
