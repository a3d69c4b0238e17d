package normalize

import (
	"strings"
	"time"
)

// Common date formats seen in dictated visit notes and backend output.
var dateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
}

// ToISODate attempts to parse a date string in multiple common formats and
// re-render it as YYYY-MM-DD. Unparseable input is returned unchanged so the
// original wording survives in the record.
func ToISODate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return s
}
