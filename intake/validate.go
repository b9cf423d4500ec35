package intake

import (
	"fmt"

	"github.com/lendfront/payroll-engine/schedule"
)

// =============================================================================
// LEAD VALIDATION - Aggregated per-slot error maps
// =============================================================================

// ValidateLead runs the pay-date consistency checks for every employer and
// aggregates the results into one field-keyed error map. Keys take the form
// "employers[i].fieldName" so the form can bind each message to its widget.
// An empty map means the lead may be submitted.
func ValidateLead(today schedule.Date, l *Lead) map[string]string {
	errs := make(map[string]string)

	if len(l.Employers) == 0 {
		errs["employers"] = "At least one employer is required"
		return errs
	}

	for i, e := range l.Employers {
		for field, msg := range schedule.ValidatePayDateSet(today, e.Dates, e.Schedule) {
			errs[fmt.Sprintf("employers[%d].%s", i, field)] = msg
		}
		if e.GrossPay.IsNegative() {
			errs[fmt.Sprintf("employers[%d].grossPay", i)] = "Gross pay cannot be negative"
		}
	}

	return errs
}

// ValidateEmployer validates a single employer slot, keyed by bare field
// names. Used when the form revalidates one slot on edit.
func ValidateEmployer(today schedule.Date, e Employer) map[string]string {
	errs := schedule.ValidatePayDateSet(today, e.Dates, e.Schedule)
	if e.GrossPay.IsNegative() {
		errs["grossPay"] = "Gross pay cannot be negative"
	}
	return errs
}
