/*
Package factory converts JSON schedule configurations into engine contexts.

PURPOSE:
  The intake form and the store both speak a flat JSON representation of an
  employer's schedule. This package parses that JSON into a
  schedule.Context (and back), applying defaults and rejecting
  frequency/mode combinations the engine cannot represent.

JSON SCHEMA:
  {
    "frequency": "Semi-Monthly",
    "how_paid": "Specific Week and Day",
    "week1_ordinal": "First",
    "week1_day": "MONDAY",
    "week2_ordinal": "Third",
    "week2_day": "FRIDAY"
  }

  Day fields accept "1".."31", "32", or "EOM"; "32" and "EOM" are
  interchangeable end-of-month markers and both serialize back as "EOM".

SEE ALSO:
  - intake/form.go: the label mapping this package reuses
  - store/sqlite: persists the JSON form
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/lendfront/payroll-engine/intake"
	"github.com/lendfront/payroll-engine/schedule"
)

// ScheduleJSON is the wire and storage representation of one employer's
// schedule configuration.
type ScheduleJSON struct {
	Frequency string `json:"frequency,omitempty"`
	HowPaid   string `json:"how_paid,omitempty"`

	PayWeekday string `json:"pay_weekday,omitempty"`

	PayDay1 string `json:"pay_day1,omitempty"`
	PayDay2 string `json:"pay_day2,omitempty"`

	Week1Ordinal string `json:"week1_ordinal,omitempty"`
	Week1Day     string `json:"week1_day,omitempty"`
	Week2Ordinal string `json:"week2_ordinal,omitempty"`
	Week2Day     string `json:"week2_day,omitempty"`
}

// ParseSchedule builds a schedule context from a JSON document.
func ParseSchedule(raw string) (schedule.Context, error) {
	if raw == "" {
		return schedule.Context{Mode: schedule.None{}}, nil
	}

	var cfg ScheduleJSON
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return schedule.Context{}, fmt.Errorf("parse schedule config: %w", err)
	}
	return FromConfig(cfg)
}

// FromConfig builds a schedule context from an already-decoded config.
func FromConfig(cfg ScheduleJSON) (schedule.Context, error) {
	return intake.BuildContext(intake.FormFields{
		Frequency:    cfg.Frequency,
		HowPaid:      cfg.HowPaid,
		PayWeekday:   cfg.PayWeekday,
		PayDay1:      cfg.PayDay1,
		PayDay2:      cfg.PayDay2,
		Week1Ordinal: cfg.Week1Ordinal,
		Week1Day:     cfg.Week1Day,
		Week2Ordinal: cfg.Week2Ordinal,
		Week2Day:     cfg.Week2Day,
	})
}

// ToConfig serializes a schedule context back to its flat config form.
// Sentinel days normalize to the "EOM" token.
func ToConfig(ctx schedule.Context) ScheduleJSON {
	cfg := ScheduleJSON{
		Frequency: frequencyLabel(ctx.Frequency),
		HowPaid:   ctx.HowPaid,
	}

	switch m := ctx.Mode.(type) {
	case schedule.DayOfWeek:
		cfg.PayWeekday = m.Weekday
	case schedule.SemiMonthlyDates:
		cfg.HowPaid = intake.LabelTwoSpecificDays
		cfg.PayDay1 = m.Day1.String()
		cfg.PayDay2 = m.Day2.String()
	case schedule.SemiMonthlyWeeks:
		cfg.HowPaid = intake.LabelSpecificWeekDay
		cfg.Week1Ordinal = string(m.First.Ordinal)
		cfg.Week1Day = m.First.Weekday
		cfg.Week2Ordinal = string(m.Second.Ordinal)
		cfg.Week2Day = m.Second.Weekday
	case schedule.MonthlyDate:
		cfg.HowPaid = intake.LabelSpecificDate
		cfg.PayDay1 = m.Day.String()
	case schedule.MonthlyWeek:
		cfg.HowPaid = intake.LabelSpecificWeekDay
		cfg.Week1Ordinal = string(m.Slot.Ordinal)
		cfg.Week1Day = m.Slot.Weekday
	}

	return cfg
}

// MarshalSchedule serializes a context for storage.
func MarshalSchedule(ctx schedule.Context) (string, error) {
	b, err := json.Marshal(ToConfig(ctx))
	if err != nil {
		return "", fmt.Errorf("marshal schedule config: %w", err)
	}
	return string(b), nil
}

func frequencyLabel(f schedule.Frequency) string {
	switch f {
	case schedule.FreqWeekly:
		return intake.LabelWeekly
	case schedule.FreqEveryOtherWeek:
		return intake.LabelEveryOtherWeek
	case schedule.FreqSemiMonthly:
		return intake.LabelSemiMonthly
	case schedule.FreqMonthly:
		return intake.LabelMonthly
	}
	return ""
}
