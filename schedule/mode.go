package schedule

import (
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// FREQUENCY - How often the employer pays
// =============================================================================

type Frequency string

const (
	FreqWeekly         Frequency = "weekly"
	FreqEveryOtherWeek Frequency = "every_other_week"
	FreqSemiMonthly    Frequency = "semi_monthly"
	FreqMonthly        Frequency = "monthly"
)

// HowPaidTreatWeeklyAsBiweekly is the "how paid" label that overrides a
// weekly frequency to advance pay dates by fourteen days instead of seven.
const HowPaidTreatWeeklyAsBiweekly = "Treat Weekly as Bi-weekly"

// =============================================================================
// DAY OF MONTH - Sentinel-aware calendar day
// =============================================================================

// DayOfMonth is a calendar day number 1..31, or the end-of-month sentinel.
// The sentinel stands for "the last calendar day of the month" in months
// shorter than the literal day would require.
type DayOfMonth int

// EndOfMonthDay is the sentinel value for "last day of the month". The wire
// forms "32" and "EOM" are interchangeable and both normalize to this value.
const EndOfMonthDay DayOfMonth = 32

// ParseDayOfMonth accepts "1".."31", "32", or the token "EOM".
func ParseDayOfMonth(s string) (DayOfMonth, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, "EOM") {
		return EndOfMonthDay, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 || n > 32 {
		return 0, false
	}
	return DayOfMonth(n), true
}

func (d DayOfMonth) IsEOM() bool  { return d == EndOfMonthDay }
func (d DayOfMonth) IsValid() bool { return d >= 1 && d <= 32 }

// Matches reports whether the given date is an occurrence of this day:
// a literal day-of-month equality, or the month's last day for the sentinel.
func (d DayOfMonth) Matches(date Date) bool {
	if d.IsEOM() {
		return date.Day() == DaysInMonth(date.Year(), date.Month())
	}
	return date.Day() == int(d)
}

// InMonth resolves this day within a concrete month. The sentinel, and any
// literal day the month is too short for, fall back to the month's last day.
func (d DayOfMonth) InMonth(year int, month time.Month) Date {
	last := DaysInMonth(year, month)
	if d.IsEOM() || int(d) < 1 || int(d) > last {
		return EndOfMonth(year, month)
	}
	return NewDate(year, month, int(d))
}

func (d DayOfMonth) String() string {
	if d.IsEOM() {
		return "EOM"
	}
	return strconv.Itoa(int(d))
}

// =============================================================================
// MODE - Tagged variant for the schedule shape
// =============================================================================

type ModeKind string

const (
	KindNone             ModeKind = "none"
	KindDayOfWeek        ModeKind = "day_of_week"
	KindSemiMonthlyDates ModeKind = "semi_monthly_dates"
	KindSemiMonthlyWeeks ModeKind = "semi_monthly_weeks"
	KindMonthlyDate      ModeKind = "monthly_date"
	KindMonthlyWeek      ModeKind = "monthly_week"
)

// Mode is the shape of a recurring pay schedule. Each variant knows which
// calendar days are raw occurrences of the schedule; weekend shifting and
// the Monday lookback are layered on top by Context.
type Mode interface {
	// Allows reports whether d is a raw occurrence of this schedule.
	Allows(d Date) bool

	Kind() ModeKind
}

// None means the frequency is not fully configured yet. The predicate is
// permissive until a mode is selected; requiring a selection before date
// entry is the caller's job.
type None struct{}

func (None) Allows(Date) bool { return true }
func (None) Kind() ModeKind   { return KindNone }

// DayOfWeek pays weekly or biweekly on a fixed weekday.
type DayOfWeek struct {
	Weekday string // "MONDAY".."SUNDAY"; empty means not yet chosen
}

func (m DayOfWeek) Allows(d Date) bool {
	if m.Weekday == "" {
		return true
	}
	name, _ := CanonicalWeekday(m.Weekday)
	return d.DayName() == name
}

func (DayOfWeek) Kind() ModeKind { return KindDayOfWeek }

// SemiMonthlyDates pays on two fixed calendar days per month. Either day
// may be the end-of-month sentinel.
type SemiMonthlyDates struct {
	Day1 DayOfMonth
	Day2 DayOfMonth
}

func (m SemiMonthlyDates) Allows(d Date) bool {
	return m.Day1.Matches(d) || m.Day2.Matches(d)
}

func (SemiMonthlyDates) Kind() ModeKind { return KindSemiMonthlyDates }

// WeekSlot is one ordinal weekday expression, e.g. "Third FRIDAY".
type WeekSlot struct {
	Ordinal Ordinal
	Weekday string
}

// Resolve returns the slot's concrete date within the given month.
func (s WeekSlot) Resolve(year int, month time.Month) Date {
	return NthWeekday(year, month, s.Ordinal, s.Weekday)
}

func (s WeekSlot) matches(d Date) bool {
	return d.Equal(s.Resolve(d.Year(), d.Month()))
}

// SemiMonthlyWeeks pays on two ordinal weekdays per month, one in each half
// of the month. The first slot's ordinal is restricted to First/Second/Third
// and the second's to Third/Fourth/Last; the factory enforces that.
type SemiMonthlyWeeks struct {
	First  WeekSlot
	Second WeekSlot
}

func (m SemiMonthlyWeeks) Allows(d Date) bool {
	return m.First.matches(d) || m.Second.matches(d)
}

func (SemiMonthlyWeeks) Kind() ModeKind { return KindSemiMonthlyWeeks }

// MonthlyDate pays on one fixed calendar day per month, sentinel-aware.
type MonthlyDate struct {
	Day DayOfMonth
}

func (m MonthlyDate) Allows(d Date) bool { return m.Day.Matches(d) }

func (MonthlyDate) Kind() ModeKind { return KindMonthlyDate }

// MonthlyWeek pays on one ordinal weekday per month.
type MonthlyWeek struct {
	Slot WeekSlot
}

func (m MonthlyWeek) Allows(d Date) bool { return m.Slot.matches(d) }

func (MonthlyWeek) Kind() ModeKind { return KindMonthlyWeek }
