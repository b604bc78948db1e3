package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RFC3339LocalOffset renders an instant as RFC3339 with an explicit UTC
// offset (never "Z"). The remote calendar needs wall-clock-correct times, so
// the instant must already carry the agenda's timezone.
func RFC3339LocalOffset(t time.Time) string {
	return t.Format("2006-01-02T15:04:05-07:00")
}

// ParseSlotDate extracts (year, month, day) from the date string stored on a
// slot row. The spreadsheet has accumulated both locale and ISO formats, so
// the separator and the segment lengths decide the field order:
//
//	"19/02/2026" -> DD/MM/YYYY    "2026/02/19" -> YYYY/MM/DD
//	"2026-02-19" -> YYYY-MM-DD    "19-02-2026" -> DD-MM-YYYY
//
// Anything unparseable falls back to now's components rather than failing;
// the booking flow never aborts on a malformed sheet date.
func ParseSlotDate(raw string, now time.Time) (year, month, day int) {
	year, month, day = now.Year(), int(now.Month()), now.Day()

	raw = strings.TrimSpace(raw)
	var parts []string
	yearFirst := false
	switch {
	case strings.Contains(raw, "/"):
		parts = strings.Split(raw, "/")
		if len(parts) == 3 {
			yearFirst = len(parts[2]) < 4
		}
	case strings.Contains(raw, "-"):
		parts = strings.Split(raw, "-")
		if len(parts) == 3 {
			yearFirst = len(parts[0]) >= 4
		}
	}
	if len(parts) != 3 {
		return year, month, day
	}

	a, errA := strconv.Atoi(strings.TrimSpace(parts[0]))
	b, errB := strconv.Atoi(strings.TrimSpace(parts[1]))
	c, errC := strconv.Atoi(strings.TrimSpace(parts[2]))
	if errA != nil || errB != nil || errC != nil {
		return year, month, day
	}

	if yearFirst {
		return a, b, c
	}
	return c, b, a
}

// CombineSlotDateTime builds the concrete appointment start from a slot's
// date string and "HH:MM" time, in the given location.
func CombineSlotDateTime(rawDate, rawTime string, loc *time.Location, now time.Time) time.Time {
	year, month, day := ParseSlotDate(rawDate, now)

	hour, minute := 8, 0
	timeParts := strings.SplitN(strings.TrimSpace(rawTime), ":", 2)
	if h, err := strconv.Atoi(timeParts[0]); err == nil {
		hour = h
	}
	if len(timeParts) == 2 {
		if m, err := strconv.Atoi(timeParts[1]); err == nil {
			minute = m
		}
	}

	return time.Date(year, time.Month(month), day, hour, minute, 0, 0, loc)
}

// SlotDateISO converts a slot's DD/MM/YYYY date string into YYYY-MM-DD for
// comparison against calendar event dates. Returns "" when the string does
// not have three segments.
func SlotDateISO(raw string) string {
	parts := strings.Split(strings.TrimSpace(raw), "/")
	if len(parts) != 3 {
		return ""
	}
	return fmt.Sprintf("%s-%s-%s", parts[2], parts[1], parts[0])
}

// FormatSlotDate renders an ISO date as the DD/MM/YYYY wire format used by
// the create_slot action.
func FormatSlotDate(iso string) string {
	parts := strings.Split(strings.TrimSpace(iso), "-")
	if len(parts) != 3 {
		return iso
	}
	return fmt.Sprintf("%s/%s/%s", parts[2], parts[1], parts[0])
}

// Range expands [startISO, endISO] into the ISO dates whose weekday is in
// weekdays (time.Weekday numbering, Sunday = 0). An empty end yields just
// the start date regardless of the weekday filter, matching how a single-day
// generation ignores the repeat settings.
func Range(startISO, endISO string, weekdays []int) ([]string, error) {
	start, err := time.Parse("2006-01-02", startISO)
	if err != nil {
		return nil, fmt.Errorf("invalid start date %q: %w", startISO, err)
	}
	if endISO == "" {
		return []string{startISO}, nil
	}
	end, err := time.Parse("2006-01-02", endISO)
	if err != nil {
		return nil, fmt.Errorf("invalid end date %q: %w", endISO, err)
	}

	wanted := make(map[time.Weekday]bool, len(weekdays))
	for _, d := range weekdays {
		wanted[time.Weekday(d)] = true
	}

	var out []string
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		if wanted[cur.Weekday()] {
			out = append(out, cur.Format("2006-01-02"))
		}
	}
	return out, nil
}
