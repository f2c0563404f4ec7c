package data

import "time"

const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date. Time of day is ignored
// everywhere in the booking core; dates are UTC midnights.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, value)
}

// StartOfDay truncates t to its UTC calendar date.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// IntervalsOverlap reports whether the half-open intervals [aStart, aEnd)
// and [bStart, bEnd) intersect: aStart < bEnd && bStart < aEnd. Adjacent
// stays share a boundary date and do not overlap, so a check-out on the
// same day as another booking's check-in is allowed.
func IntervalsOverlap(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// NightsBetween is the whole-day difference between checkOut and checkIn,
// never less than one.
func NightsBetween(checkIn, checkOut time.Time) int {
	nights := int(checkOut.Sub(checkIn).Hours() / 24)
	if nights < 1 {
		nights = 1
	}
	return nights
}
