// Package intake implements the loan lead-intake domain on top of the
// schedule engine. A lead is one borrower with up to three employers, each
// carrying its own pay-schedule configuration and dependent pay dates.
package intake

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lendfront/payroll-engine/schedule"
)

// MaxEmployers is the number of employer slots a lead may fill.
const MaxEmployers = 3

// Lead is one loan application in progress.
type Lead struct {
	ID        string
	FirstName string
	LastName  string
	Employers []Employer

	Status LeadStatus
}

type LeadStatus string

const (
	StatusDraft     LeadStatus = "draft"
	StatusSubmitted LeadStatus = "submitted"
)

// NewLead creates a draft lead with a fresh identifier.
func NewLead(firstName, lastName string) *Lead {
	return &Lead{
		ID:        uuid.NewString(),
		FirstName: firstName,
		LastName:  lastName,
		Status:    StatusDraft,
	}
}

// Employer is one income source on a lead. Each employer has an independent
// schedule and an independent set of dependent pay dates.
type Employer struct {
	ID   string
	Name string

	// GrossPay is the gross amount per pay period.
	GrossPay decimal.Decimal

	Schedule schedule.Context
	Dates    schedule.PayDateSet
}

// NewEmployer creates an employer with no schedule configured yet.
func NewEmployer(name string, grossPay decimal.Decimal) Employer {
	return Employer{
		ID:       uuid.NewString(),
		Name:     name,
		GrossPay: grossPay,
		Schedule: schedule.Context{Mode: schedule.None{}},
	}
}

// AddEmployer appends an employer, enforcing the slot limit.
func (l *Lead) AddEmployer(e Employer) error {
	if len(l.Employers) >= MaxEmployers {
		return ErrTooManyEmployers
	}
	l.Employers = append(l.Employers, e)
	return nil
}

// EmployerAt returns the employer in the given slot.
func (l *Lead) EmployerAt(slot int) (*Employer, error) {
	if slot < 0 || slot >= len(l.Employers) {
		return nil, ErrEmployerSlotOutOfRange
	}
	return &l.Employers[slot], nil
}
