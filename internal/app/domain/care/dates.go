package care

import "time"

// Date builds a whole-day value at UTC midnight. All scheduling math in this
// package operates on such values; time-of-day never participates.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Midnight truncates a timestamp to its UTC calendar date.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return Date(y, m, d)
}

// DaysBetween returns the signed number of calendar days from "from" to "to".
// Negative when "to" is earlier.
func DaysBetween(from, to time.Time) int {
	return int(Midnight(to).Sub(Midnight(from)).Hours() / 24)
}

// NextDue computes the next maintenance date for a care type performed on
// baseDate. Pure calendar arithmetic; callers supply the base date, the
// function never consults the clock.
func NextDue(t Type, baseDate time.Time) time.Time {
	return Midnight(baseDate).AddDate(0, 0, IntervalDays(t))
}
