package calendar

import "time"

// Date constructs a civil date: midnight UTC on the given day. All engine
// arithmetic happens on civil dates so results never shift with the viewer's
// timezone.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Civil truncates an arbitrary time to the civil date carried by its own
// year/month/day fields.
func Civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return Date(y, m, d)
}

// CivilIn converts an instant to the civil date it falls on in loc. This is
// the only place a timezone enters date mapping: callers resolve "now" to a
// display-zone date once, then everything downstream is zone-free.
func CivilIn(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return Date(y, m, d)
}

// DaysBetween returns the whole-day offset from a to b. Both arguments are
// expected to be civil dates (midnight UTC), so the division is exact.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
