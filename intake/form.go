package intake

import (
	"github.com/lendfront/payroll-engine/schedule"
)

// =============================================================================
// RAW FORM ADAPTER - UI labels to schedule contexts
// =============================================================================

// Frequency labels as they appear in the intake form dropdown.
const (
	LabelWeekly         = "Weekly"
	LabelEveryOtherWeek = "Every Other Week"
	LabelSemiMonthly    = "Semi-Monthly"
	LabelMonthly        = "Monthly"
)

// "How paid" labels. Which labels are offered depends on the frequency.
const (
	LabelDayOfWeek        = "Day of Week"
	LabelTwoSpecificDays  = "Two Specific Days"
	LabelSpecificWeekDay  = "Specific Week and Day"
	LabelSpecificDate     = "Specific Date"
	LabelWeeklyAsBiweekly = schedule.HowPaidTreatWeeklyAsBiweekly
)

// FormFields carries the raw string values of one employer's schedule
// fields exactly as the form submits them. Which fields are meaningful
// depends on the frequency and "how paid" selections; the rest stay empty.
type FormFields struct {
	Frequency string
	HowPaid   string

	// Weekly / every-other-week
	PayWeekday string

	// Two specific days ("1".."31", "32", or "EOM")
	PayDay1 string
	PayDay2 string

	// Ordinal weekday slots
	Week1Ordinal string
	Week1Day     string
	Week2Ordinal string
	Week2Day     string
}

// ParseFrequency maps a form frequency label to the engine's frequency.
func ParseFrequency(label string) (schedule.Frequency, error) {
	switch label {
	case LabelWeekly:
		return schedule.FreqWeekly, nil
	case LabelEveryOtherWeek:
		return schedule.FreqEveryOtherWeek, nil
	case LabelSemiMonthly:
		return schedule.FreqSemiMonthly, nil
	case LabelMonthly:
		return schedule.FreqMonthly, nil
	}
	return "", &FieldError{Field: "frequency", Value: label, Err: ErrUnknownFrequency}
}

// Ordinals offered for the two halves of a semi-monthly month. The first
// occurrence must land in the first half, the second in the second half.
var (
	firstSlotOrdinals  = map[schedule.Ordinal]bool{schedule.OrdinalFirst: true, schedule.OrdinalSecond: true, schedule.OrdinalThird: true}
	secondSlotOrdinals = map[schedule.Ordinal]bool{schedule.OrdinalThird: true, schedule.OrdinalFourth: true, schedule.OrdinalLast: true}
)

// BuildContext coerces raw form values into a schedule context. An empty
// frequency yields an unconfigured context (mode None, fully permissive);
// an unknown label or malformed sub-field is a FieldError.
func BuildContext(f FormFields) (schedule.Context, error) {
	if f.Frequency == "" {
		return schedule.Context{Mode: schedule.None{}}, nil
	}

	freq, err := ParseFrequency(f.Frequency)
	if err != nil {
		return schedule.Context{}, err
	}

	ctx := schedule.Context{
		Frequency: freq,
		HowPaid:   f.HowPaid,
		Mode:      schedule.None{},
	}

	switch freq {
	case schedule.FreqWeekly, schedule.FreqEveryOtherWeek:
		// The weekday may be empty while the user is still filling the
		// form; the predicate stays permissive until it is chosen.
		weekday := ""
		if f.PayWeekday != "" {
			name, ok := schedule.CanonicalWeekday(f.PayWeekday)
			if !ok {
				return schedule.Context{}, &FieldError{Field: "payWeekday", Value: f.PayWeekday, Err: ErrUnknownHowPaid}
			}
			weekday = name
		}
		ctx.Mode = schedule.DayOfWeek{Weekday: weekday}

	case schedule.FreqSemiMonthly:
		switch f.HowPaid {
		case "":
			// Mode not selected yet.
		case LabelTwoSpecificDays:
			day1, err := parseDay("payDay1", f.PayDay1)
			if err != nil {
				return schedule.Context{}, err
			}
			day2, err := parseDay("payDay2", f.PayDay2)
			if err != nil {
				return schedule.Context{}, err
			}
			ctx.Mode = schedule.SemiMonthlyDates{Day1: day1, Day2: day2}
		case LabelSpecificWeekDay:
			first, err := parseSlot("week1", f.Week1Ordinal, f.Week1Day, firstSlotOrdinals)
			if err != nil {
				return schedule.Context{}, err
			}
			second, err := parseSlot("week2", f.Week2Ordinal, f.Week2Day, secondSlotOrdinals)
			if err != nil {
				return schedule.Context{}, err
			}
			ctx.Mode = schedule.SemiMonthlyWeeks{First: first, Second: second}
		default:
			return schedule.Context{}, &FieldError{Field: "howPaid", Value: f.HowPaid, Err: ErrUnknownHowPaid}
		}

	case schedule.FreqMonthly:
		switch f.HowPaid {
		case "":
			// Mode not selected yet.
		case LabelSpecificDate:
			day, err := parseDay("payDay1", f.PayDay1)
			if err != nil {
				return schedule.Context{}, err
			}
			ctx.Mode = schedule.MonthlyDate{Day: day}
		case LabelSpecificWeekDay:
			slot, err := parseSlot("week1", f.Week1Ordinal, f.Week1Day, nil)
			if err != nil {
				return schedule.Context{}, err
			}
			ctx.Mode = schedule.MonthlyWeek{Slot: slot}
		default:
			return schedule.Context{}, &FieldError{Field: "howPaid", Value: f.HowPaid, Err: ErrUnknownHowPaid}
		}
	}

	return ctx, nil
}

func parseDay(field, raw string) (schedule.DayOfMonth, error) {
	day, ok := schedule.ParseDayOfMonth(raw)
	if !ok {
		return 0, &FieldError{Field: field, Value: raw, Err: ErrUnknownHowPaid}
	}
	return day, nil
}

// parseSlot parses one ordinal-weekday pair. allowed restricts the ordinal
// when the slot belongs to a specific half of the month; nil means any of
// the five ordinals.
func parseSlot(field, rawOrdinal, rawDay string, allowed map[schedule.Ordinal]bool) (schedule.WeekSlot, error) {
	ordinal, ok := schedule.ParseOrdinal(rawOrdinal)
	if !ok || (allowed != nil && !allowed[ordinal]) {
		return schedule.WeekSlot{}, &FieldError{Field: field + "Ordinal", Value: rawOrdinal, Err: ErrUnknownHowPaid}
	}
	weekday, ok := schedule.CanonicalWeekday(rawDay)
	if !ok {
		return schedule.WeekSlot{}, &FieldError{Field: field + "Day", Value: rawDay, Err: ErrUnknownHowPaid}
	}
	return schedule.WeekSlot{Ordinal: ordinal, Weekday: weekday}, nil
}
