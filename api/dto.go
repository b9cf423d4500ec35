/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication, decoupling the engine
  and domain types from the wire contract. Dates always travel as
  "2006-01-02" strings; gross pay travels as a decimal string so no
  precision is lost in transit.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

SEE ALSO:
  - handlers.go: Uses these types
  - factory.ScheduleJSON: the schedule wire shape
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/lendfront/payroll-engine/factory"
	"github.com/lendfront/payroll-engine/intake"
	"github.com/lendfront/payroll-engine/schedule"
)

// =============================================================================
// LEAD / EMPLOYER SHAPES
// =============================================================================

type LeadDTO struct {
	ID        string        `json:"id"`
	FirstName string        `json:"firstName"`
	LastName  string        `json:"lastName"`
	Status    string        `json:"status"`
	Employers []EmployerDTO `json:"employers"`
}

type EmployerDTO struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	GrossPay string               `json:"grossPay"`
	Schedule factory.ScheduleJSON `json:"schedule"`
	Dates    PayDateSetDTO        `json:"dates"`
}

type PayDateSetDTO struct {
	LastPayDate      *string `json:"lastPayDate,omitempty"`
	NextPayDate      *string `json:"nextPayDate,omitempty"`
	SecondPayDate    *string `json:"secondPayDate,omitempty"`
	FirstPaymentDate *string `json:"firstPaymentDate,omitempty"`
}

type CreateLeadRequest struct {
	FirstName string            `json:"firstName"`
	LastName  string            `json:"lastName"`
	Employers []EmployerRequest `json:"employers"`
}

type EmployerRequest struct {
	Name     string               `json:"name"`
	GrossPay string               `json:"grossPay"`
	Schedule factory.ScheduleJSON `json:"schedule"`
}

// =============================================================================
// SCHEDULE QUERY SHAPES
// =============================================================================

// AllowedDayRequest asks whether a candidate date may be picked for the
// given schedule. ForSelection enables the Monday lookback used when gating
// the next-pay-date and first-payment-date pickers.
type AllowedDayRequest struct {
	Date         string               `json:"date"`
	Schedule     factory.ScheduleJSON `json:"schedule"`
	ForSelection bool                 `json:"forSelection"`
}

type AllowedDayResponse struct {
	Allowed bool `json:"allowed"`
}

type NextOccurrenceRequest struct {
	CurrentDate string               `json:"currentDate"`
	Schedule    factory.ScheduleJSON `json:"schedule"`
}

// NextOccurrenceResponse carries null when the schedule cannot produce a
// date within the scan horizon; the form surfaces a required-field error
// instead of crashing.
type NextOccurrenceResponse struct {
	Date *string `json:"date"`
}

type FirstValidRequest struct {
	Today    string               `json:"today"`
	Schedule factory.ScheduleJSON `json:"schedule"`
}

type ValidateRequest struct {
	Today    string               `json:"today"`
	Schedule factory.ScheduleJSON `json:"schedule"`
	Dates    PayDateSetDTO        `json:"dates"`
}

type ValidateResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

// SetDatesRequest records a user-picked next pay date for one employer
// slot. The server derives the dependent dates from it.
type SetDatesRequest struct {
	LastPayDate *string `json:"lastPayDate,omitempty"`
	NextPayDate string  `json:"nextPayDate"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toLeadDTO(l *intake.Lead) LeadDTO {
	dto := LeadDTO{
		ID:        l.ID,
		FirstName: l.FirstName,
		LastName:  l.LastName,
		Status:    string(l.Status),
		Employers: make([]EmployerDTO, 0, len(l.Employers)),
	}
	for _, e := range l.Employers {
		dto.Employers = append(dto.Employers, EmployerDTO{
			ID:       e.ID,
			Name:     e.Name,
			GrossPay: e.GrossPay.String(),
			Schedule: factory.ToConfig(e.Schedule),
			Dates:    toPayDateSetDTO(e.Dates),
		})
	}
	return dto
}

func toPayDateSetDTO(set schedule.PayDateSet) PayDateSetDTO {
	return PayDateSetDTO{
		LastPayDate:      dateStr(set.LastPayDate),
		NextPayDate:      dateStr(set.NextPayDate),
		SecondPayDate:    dateStr(set.SecondPayDate),
		FirstPaymentDate: dateStr(set.FirstPaymentDate),
	}
}

func (d PayDateSetDTO) toPayDateSet() (schedule.PayDateSet, error) {
	var set schedule.PayDateSet
	var err error
	if set.LastPayDate, err = parseDatePtr(d.LastPayDate); err != nil {
		return set, err
	}
	if set.NextPayDate, err = parseDatePtr(d.NextPayDate); err != nil {
		return set, err
	}
	if set.SecondPayDate, err = parseDatePtr(d.SecondPayDate); err != nil {
		return set, err
	}
	if set.FirstPaymentDate, err = parseDatePtr(d.FirstPaymentDate); err != nil {
		return set, err
	}
	return set, nil
}

func (r EmployerRequest) toEmployer() (intake.Employer, error) {
	pay := decimal.Zero
	if r.GrossPay != "" {
		var err error
		pay, err = decimal.NewFromString(r.GrossPay)
		if err != nil {
			return intake.Employer{}, err
		}
	}

	ctx, err := factory.FromConfig(r.Schedule)
	if err != nil {
		return intake.Employer{}, err
	}

	e := intake.NewEmployer(r.Name, pay)
	e.Schedule = ctx
	return e, nil
}

func dateStr(d *schedule.Date) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func parseDatePtr(s *string) (*schedule.Date, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := schedule.ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
