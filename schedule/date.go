/*
Package schedule provides the payroll schedule resolution engine.

PURPOSE:
  Given an employer's pay-frequency configuration, this package decides
  whether an arbitrary calendar date is a legitimate pay date, computes
  the next legitimate pay date after a given date, resolves ordinal
  weekday expressions ("Third Friday", "Last Monday"), and applies the
  weekend-shift policy to dates that land on non-business days.

KEY CONCEPTS:
  - Date: a calendar day (no time component, UTC)
  - Mode: the shape of a recurring pay schedule (fixed weekday, two fixed
    dates, two ordinal weekdays, one fixed date, one ordinal weekday)
  - Context: pay frequency + "how paid" label + mode
  - PayDateSet: the four interdependent dates a loan application must
    supply consistently with the declared schedule

DESIGN PRINCIPLES:
  1. Purity: no I/O, no wall clock. "today" is always an explicit parameter
     so every function is deterministic and reproducible.
  2. Totality: no function panics or returns an error. Abnormal conditions
     are represented in the return value (false, ok == false, or an entry
     in a field-keyed error map).
  3. Invalid states unrepresentable: the schedule shape is a tagged variant
     (the Mode interface), not a bag of optional fields keyed by a string.

SEE ALSO:
  - ordinal.go: Nth-weekday resolution
  - mode.go: schedule mode variants
  - predicate.go: allowed-day predicate and Monday lookback
  - next.go: next-occurrence resolution and bounded scans
  - paydates.go: PayDateSet validation and derivation
*/
package schedule

import (
	"strings"
	"time"
)

// =============================================================================
// DATE - Calendar day at day granularity
// =============================================================================

// Date is a calendar day. The time component is always midnight UTC; two
// Dates built from the same year/month/day compare equal regardless of how
// they were constructed.
type Date struct {
	t time.Time
}

// NewDate builds a Date for the given calendar day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a "2006-01-02" string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int             { return d.t.Year() }
func (d Date) Month() time.Month     { return d.t.Month() }
func (d Date) Day() int              { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }
func (d Date) IsZero() bool          { return d.t.IsZero() }

func (d Date) IsWeekend() bool {
	wd := d.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DayName returns the uppercase English weekday name, "MONDAY".."SUNDAY".
func (d Date) DayName() string {
	return strings.ToUpper(d.Weekday().String())
}

func (d Date) String() string { return d.t.Format("2006-01-02") }

// Time returns the underlying instant (midnight UTC).
func (d Date) Time() time.Time { return d.t }

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// NextMonth returns the year and month of the month following d's month.
func (d Date) NextMonth() (int, time.Month) {
	if d.Month() == time.December {
		return d.Year() + 1, time.January
	}
	return d.Year(), d.Month() + 1
}

// =============================================================================
// MONTH UTILITIES
// =============================================================================

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return EndOfMonth(year, month).Day()
}

// StartOfMonth returns the first day of the given month.
func StartOfMonth(year int, month time.Month) Date {
	return NewDate(year, month, 1)
}

// EndOfMonth returns the last day of the given month.
func EndOfMonth(year int, month time.Month) Date {
	t := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return Date{t: t}
}
