package mapper

import (
	"strings"
	"time"
)

// Formats seen across shop and spreadsheet exports, tried in order.
var dateFormats = []string{
	"2006-01-02 15:04:05 -0700", // shop export timestamps
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02.01.2006",
	"02/01/2006",
	"01-02-06", // excelize default cell format
	"1/2/06 15:04",
	"01/02/2006",
}

// parseOrderDate parses a date string flexibly. A missing or unparseable
// date falls back to the current time; that fallback is deliberate, not an
// error, so a bad date never drops a row.
func parseOrderDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Now()
	}
	for _, format := range dateFormats {
		if t, err := time.Parse(format, raw); err == nil {
			return t
		}
	}
	return time.Now()
}
