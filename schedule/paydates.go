package schedule

// =============================================================================
// PAY DATE SET - The four interdependent dates on a loan application
// =============================================================================

// PayDateSet holds the dependent pay dates entered (or derived) for one
// employer. All four are optional until the form is submitted.
type PayDateSet struct {
	LastPayDate      *Date
	NextPayDate      *Date
	SecondPayDate    *Date
	FirstPaymentDate *Date
}

// Field keys used in validation error maps. These match the form field
// names the intake UI binds errors to.
const (
	FieldLastPayDate      = "lastPayDate"
	FieldNextPayDate      = "nextPayDate"
	FieldSecondPayDate    = "secondPayDate"
	FieldFirstPaymentDate = "firstPaymentDate"
)

// DeriveSecondPayDate computes the expected second pay date by feeding the
// next pay date back through the resolver and weekend-adjusting the result.
// Used both for auto-filling the form field and, separately, for checking a
// stored value in ValidatePayDateSet.
func DeriveSecondPayDate(next Date, ctx Context) (Date, bool) {
	occ, ok := NextOccurrence(next, ctx)
	if !ok {
		return Date{}, false
	}
	return AdjustForWeekend(occ), true
}

// ValidatePayDateSet checks the cross-field invariants among the four pay
// dates for the given schedule. The result maps field keys to user-facing
// messages; an empty map means the set is valid. Pure: nothing is mutated
// or auto-filled here.
func ValidatePayDateSet(today Date, set PayDateSet, ctx Context) map[string]string {
	errs := make(map[string]string)

	// Last pay date: presence and not-in-the-future only. User-entered
	// history is trusted beyond that.
	switch {
	case set.LastPayDate == nil:
		errs[FieldLastPayDate] = "Last Pay Date is required"
	case set.LastPayDate.After(today):
		errs[FieldLastPayDate] = "Last Pay Date cannot be in the future"
	}

	switch {
	case set.NextPayDate == nil:
		errs[FieldNextPayDate] = "Next Pay Date is required"
	case !set.NextPayDate.After(today):
		errs[FieldNextPayDate] = "Next Pay Date must be after today"
	case set.NextPayDate.IsWeekend():
		errs[FieldNextPayDate] = "Next Pay Date cannot fall on a weekend"
	case !ctx.AllowsSelection(*set.NextPayDate):
		errs[FieldNextPayDate] = "Next Pay Date does not match the pay schedule"
	}

	// Second pay date must agree with the schedule-derived expectation.
	// A mismatch on an already-entered record is a validation error, not a
	// silent overwrite; auto-fill goes through DeriveSecondPayDate.
	if set.NextPayDate != nil {
		if derived, ok := DeriveSecondPayDate(*set.NextPayDate, ctx); ok {
			if set.SecondPayDate == nil || !set.SecondPayDate.Equal(derived) {
				errs[FieldSecondPayDate] = "Second Pay Date does not match the pay schedule"
			}
		}
	}

	switch {
	case set.FirstPaymentDate == nil:
		errs[FieldFirstPaymentDate] = "First Payment Date is required"
	case !ctx.AllowsSelection(*set.FirstPaymentDate):
		errs[FieldFirstPaymentDate] = "First Payment Date does not match the pay schedule"
	case set.NextPayDate != nil && set.FirstPaymentDate.Before(*set.NextPayDate):
		errs[FieldFirstPaymentDate] = "First Payment Date cannot be before Next Pay Date"
	default:
		matchesNext := set.NextPayDate != nil && set.FirstPaymentDate.Equal(*set.NextPayDate)
		matchesSecond := set.SecondPayDate != nil && set.FirstPaymentDate.Equal(*set.SecondPayDate)
		if !matchesNext && !matchesSecond {
			errs[FieldFirstPaymentDate] = "Select only Next Pay Date or Second Pay Date"
		}
	}

	return errs
}
