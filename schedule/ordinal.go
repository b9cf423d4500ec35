package schedule

import (
	"strings"
	"time"
)

// =============================================================================
// ORDINAL - "First".."Fourth" and "Last"
// =============================================================================

// Ordinal selects one occurrence of a weekday within a month.
type Ordinal string

const (
	OrdinalFirst  Ordinal = "First"
	OrdinalSecond Ordinal = "Second"
	OrdinalThird  Ordinal = "Third"
	OrdinalFourth Ordinal = "Fourth"
	OrdinalLast   Ordinal = "Last"
)

var ordinalCounts = map[Ordinal]int{
	OrdinalFirst:  1,
	OrdinalSecond: 2,
	OrdinalThird:  3,
	OrdinalFourth: 4,
}

// ParseOrdinal normalizes a raw ordinal string ("first", "LAST", ...).
func ParseOrdinal(s string) (Ordinal, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "first", "1st":
		return OrdinalFirst, true
	case "second", "2nd":
		return OrdinalSecond, true
	case "third", "3rd":
		return OrdinalThird, true
	case "fourth", "4th":
		return OrdinalFourth, true
	case "last":
		return OrdinalLast, true
	}
	return "", false
}

// CanonicalWeekday normalizes a weekday name to the uppercase form used
// throughout the engine ("MONDAY".."SUNDAY"). Returns false for names that
// are not English weekdays.
func CanonicalWeekday(s string) (string, bool) {
	name := strings.ToUpper(strings.TrimSpace(s))
	switch name {
	case "MONDAY", "TUESDAY", "WEDNESDAY", "THURSDAY", "FRIDAY", "SATURDAY", "SUNDAY":
		return name, true
	}
	return "", false
}

// NthWeekday resolves an ordinal weekday expression to a concrete date
// within the given month. "Last" walks backward from the month's final day
// until the weekday matches; the counted ordinals scan forward from day 1.
//
// Every month contains at least four occurrences of each weekday, so the
// four counted ordinals always resolve. Callers must restrict input to the
// five defined ordinals (an unknown ordinal resolves as "First"); an
// unrecognized weekday name yields the zero Date.
func NthWeekday(year int, month time.Month, ordinal Ordinal, weekday string) Date {
	name, ok := CanonicalWeekday(weekday)
	if !ok {
		return Date{}
	}

	if ordinal == OrdinalLast {
		d := EndOfMonth(year, month)
		for d.DayName() != name {
			d = d.AddDays(-1)
		}
		return d
	}

	want := ordinalCounts[ordinal]
	if want == 0 {
		want = 1
	}
	d := StartOfMonth(year, month)
	seen := 0
	for {
		if d.DayName() == name {
			seen++
			if seen == want {
				return d
			}
		}
		d = d.AddDays(1)
	}
}
