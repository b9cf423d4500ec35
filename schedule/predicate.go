package schedule

import "time"

// =============================================================================
// CONTEXT - One employer's schedule configuration
// =============================================================================

// Context is the full pay-schedule configuration for one employer: the
// declared frequency, the "how paid" label from the intake form, and the
// mode describing which calendar days are pay days.
type Context struct {
	Frequency Frequency
	HowPaid   string
	Mode      Mode
}

// mode treats a nil Mode the same as None.
func (c Context) mode() Mode {
	if c.Mode == nil {
		return None{}
	}
	return c.Mode
}

// AllowsDay reports whether d is a raw occurrence of the schedule, with no
// weekend shifting applied.
func (c Context) AllowsDay(d Date) bool {
	return c.mode().Allows(d)
}

// AllowsSelection reports whether d may be picked as a pay date in the UI.
// It matches AllowsDay except on Mondays, where the weekend-shift policy is
// modeled forward: a schedule that would have paid on the preceding Saturday
// or Sunday actually pays this Monday, so the Monday is selectable even
// though it is not itself a raw occurrence.
func (c Context) AllowsSelection(d Date) bool {
	if c.AllowsDay(d) {
		return true
	}
	if d.Weekday() != time.Monday {
		return false
	}
	return c.AllowsDay(d.AddDays(-1)) || c.AllowsDay(d.AddDays(-2))
}
