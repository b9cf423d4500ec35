package schedule

import "time"

// AdjustForWeekend shifts a date that lands on a weekend forward to the
// following Monday. Weekdays pass through unchanged.
func AdjustForWeekend(d Date) Date {
	switch d.Weekday() {
	case time.Saturday:
		return d.AddDays(2)
	case time.Sunday:
		return d.AddDays(1)
	}
	return d
}
