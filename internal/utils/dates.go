package utils

import "time"

// Today returns midnight UTC of the current day. All date-only comparisons
// in the system (target dates, due dates) go through this so that a row
// written at 23:59 and read at 00:01 agree on what "today" means.
func Today() time.Time {
	return Midnight(time.Now().UTC())
}

// Midnight truncates t to midnight UTC of its calendar day.
func Midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b.
// Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(Midnight(b).Sub(Midnight(a)).Hours() / 24)
}
