package stats

import "time"

// monthLayout renders a four-digit year and zero-padded month, e.g. 2026-01.
const monthLayout = "2006-01"

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock in the local time zone.
var SystemClock Clock = ClockFunc(time.Now)

// MonthPrefix returns the YYYY-MM key for t in t's own location.
func MonthPrefix(t time.Time) string {
	return t.Format(monthLayout)
}

// CurrentMonthPrefix returns the YYYY-MM key for the clock's current time.
// A nil clock falls back to SystemClock.
func CurrentMonthPrefix(c Clock) string {
	if c == nil {
		c = SystemClock
	}
	return MonthPrefix(c.Now())
}
