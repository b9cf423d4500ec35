package intake

import (
	"github.com/lendfront/payroll-engine/schedule"
)

// =============================================================================
// EMPLOYER LIFECYCLE - Pure state transitions
// =============================================================================
// These functions return updated copies; nothing is mutated in place. The
// caller (handler or form layer) decides when to persist.

// ChangeFrequency switches an employer to a new pay frequency. The mode
// resets to None and all four dependent dates are cleared; they no longer
// agree with the old schedule and must be re-entered or re-derived.
func ChangeFrequency(e Employer, freq schedule.Frequency) Employer {
	e.Schedule = schedule.Context{
		Frequency: freq,
		Mode:      schedule.None{},
	}
	e.Dates = schedule.PayDateSet{}
	return e
}

// ReplaceSchedule swaps in a new schedule context. A frequency change
// clears the dependent dates; a same-frequency refinement (picking the
// weekday, the two days, etc.) keeps them for re-validation.
func ReplaceSchedule(e Employer, ctx schedule.Context) Employer {
	if ctx.Frequency != e.Schedule.Frequency {
		e.Dates = schedule.PayDateSet{}
	}
	e.Schedule = ctx
	return e
}

// ApplyNextPayDate records a user-picked next pay date and refreshes the
// dates derived from it: the second pay date is recomputed from the
// schedule, and the first payment date defaults to the next pay date. This
// is the auto-fill path; validation of an already-entered set goes through
// schedule.ValidatePayDateSet and never overwrites anything.
func ApplyNextPayDate(e Employer, next schedule.Date) Employer {
	e.Dates.NextPayDate = &next

	e.Dates.SecondPayDate = nil
	if second, ok := schedule.DeriveSecondPayDate(next, e.Schedule); ok {
		e.Dates.SecondPayDate = &second
	}

	first := next
	e.Dates.FirstPaymentDate = &first
	return e
}

// AutoFillNextPayDate seeds the next pay date from the schedule when the
// user has not picked one, using the longer auto-generation scan. Returns
// the employer unchanged when the schedule cannot produce a date.
func AutoFillNextPayDate(e Employer, today schedule.Date) Employer {
	next, ok := schedule.FirstValidFrom(today, e.Schedule)
	if !ok {
		return e
	}
	return ApplyNextPayDate(e, next)
}
