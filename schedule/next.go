package schedule

// Scan horizons for the bounded forward searches. Large enough to cover one
// full semi-monthly cycle with room to spare; the caps exist to guarantee
// termination, not to model a timeout.
const (
	nextScanHorizon   = 45
	firstValidHorizon = 60
)

// NextOccurrence returns the next valid pay date after current, or
// ok == false when the schedule cannot produce one within the scan horizon.
//
// Resolution order: the "Treat Weekly as Bi-weekly" label wins over
// everything, then the fixed-interval frequencies, then the closed-form
// monthly modes, and finally a bounded day-by-day scan for the semi-monthly
// modes.
func NextOccurrence(current Date, ctx Context) (Date, bool) {
	if ctx.HowPaid == HowPaidTreatWeeklyAsBiweekly {
		return current.AddDays(14), true
	}

	switch ctx.Frequency {
	case FreqWeekly:
		return current.AddDays(7), true
	case FreqEveryOtherWeek:
		return current.AddDays(14), true
	}

	switch m := ctx.mode().(type) {
	case MonthlyWeek:
		year, month := current.NextMonth()
		return m.Slot.Resolve(year, month), true
	case MonthlyDate:
		year, month := current.NextMonth()
		return m.Day.InMonth(year, month), true
	}

	// Semi-monthly modes: scan forward from the day after current.
	d := current.AddDays(1)
	for i := 0; i < nextScanHorizon; i++ {
		if ctx.AllowsDay(d) {
			return d, true
		}
		d = d.AddDays(1)
	}
	return Date{}, false
}

// FirstValidFrom scans forward from the day after today for the first raw
// occurrence of the schedule and returns it weekend-adjusted. Used to
// auto-generate a pay date when none has been entered yet.
func FirstValidFrom(today Date, ctx Context) (Date, bool) {
	d := today.AddDays(1)
	for i := 0; i < firstValidHorizon; i++ {
		if ctx.AllowsDay(d) {
			return AdjustForWeekend(d), true
		}
		d = d.AddDays(1)
	}
	return Date{}, false
}
