package pipeline

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// isoLayouts carry the year first and are never ambiguous.
var isoLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	time.RFC3339,
	"2006/1/2",
}

// dayFirstLayouts are tried before monthFirstLayouts, so "03/04/2024" is 3 April.
var dayFirstLayouts = []string{
	"2/1/2006",
	"2/1/2006 15:04",
	"2/1/2006 15:04:05",
	"2-1-2006",
	"2.1.2006",
	"2/1/06",
}

// monthFirstLayouts only match when the day-first reading is impossible, e.g. "12/25/2024".
var monthFirstLayouts = []string{
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1-2-2006",
}

// ParseDate parses ISO (YYYY-MM-DD) and day-first (DD/MM/YYYY) dates.
// Ambiguous day/month pairs resolve day-first; unparseable input returns nil.
func ParseDate(raw string) *civil.Date {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	for _, group := range [][]string{isoLayouts, dayFirstLayouts, monthFirstLayouts} {
		for _, layout := range group {
			t, err := time.Parse(layout, s)
			if err != nil {
				continue
			}
			d := civil.DateOf(t)
			return &d
		}
	}

	return nil
}

// MonthStart truncates d to the first day of its month.
func MonthStart(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: 1}
}
