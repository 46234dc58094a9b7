package gateway

import (
	"regexp"
	"strings"
	"time"
)

// dateLayouts are tried in order for every cell of a mapped date column.
// Non-padded layouts also accept zero-padded input.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"2006.1.2",
	"2006-1-2 15:04:05",
	"2006/1/2 15:04:05",
	"2006年1月2日",
	"1/2/2006",
	time.RFC3339,
}

// compactDateRe rewrites 8-digit compact dates (YYYYMMDD) into hyphenated
// form for the second parsing pass.
var compactDateRe = regexp.MustCompile(`(\d{4})(\d{2})(\d{2})`)

// parseDate parses one date cell against the layout list. The result is
// truncated to a UTC calendar day.
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), true
		}
	}
	return time.Time{}, false
}

// parseDateColumn parses every cell of a date column. If the first pass
// yields no parseable value at all, the cells are re-tried with compact
// YYYYMMDD runs rewritten to hyphenated form. Unparseable cells stay as
// zero times with ok=false.
func parseDateColumn(values []string) ([]time.Time, []bool) {
	dates := make([]time.Time, len(values))
	ok := make([]bool, len(values))

	anyParsed := false
	for i, v := range values {
		if d, parsed := parseDate(v); parsed {
			dates[i] = d
			ok[i] = true
			anyParsed = true
		}
	}
	if anyParsed {
		return dates, ok
	}

	for i, v := range values {
		rewritten := compactDateRe.ReplaceAllString(strings.TrimSpace(v), "$1-$2-$3")
		if d, parsed := parseDate(rewritten); parsed {
			dates[i] = d
			ok[i] = true
		}
	}
	return dates, ok
}

// dateSpanDays returns the span in days between the earliest and latest
// parsed date, and whether any date parsed at all.
func dateSpanDays(values []string) (int, bool) {
	dates, ok := parseDateColumn(values)

	var min, max time.Time
	found := false
	for i, d := range dates {
		if !ok[i] {
			continue
		}
		if !found {
			min, max = d, d
			found = true
			continue
		}
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}
	if !found {
		return 0, false
	}
	return int(max.Sub(min).Hours() / 24), true
}
