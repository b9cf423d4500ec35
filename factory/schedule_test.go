package factory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendfront/payroll-engine/factory"
	"github.com/lendfront/payroll-engine/intake"
	"github.com/lendfront/payroll-engine/schedule"
)

func TestParseSchedule_SemiMonthlyWeeks(t *testing.T) {
	raw := `{
		"frequency": "Semi-Monthly",
		"how_paid": "Specific Week and Day",
		"week1_ordinal": "First",
		"week1_day": "MONDAY",
		"week2_ordinal": "Third",
		"week2_day": "FRIDAY"
	}`

	ctx, err := factory.ParseSchedule(raw)
	require.NoError(t, err)

	assert.Equal(t, schedule.FreqSemiMonthly, ctx.Frequency)
	assert.True(t, ctx.AllowsDay(schedule.NewDate(2024, time.April, 1)), "first Monday")
	assert.True(t, ctx.AllowsDay(schedule.NewDate(2024, time.April, 19)), "third Friday")
}

func TestParseSchedule_SentinelNormalizesToEOM(t *testing.T) {
	ctx, err := factory.ParseSchedule(`{
		"frequency": "Monthly",
		"how_paid": "Specific Date",
		"pay_day1": "32"
	}`)
	require.NoError(t, err)

	cfg := factory.ToConfig(ctx)
	assert.Equal(t, "EOM", cfg.PayDay1, `"32" serializes back as "EOM"`)
}

func TestParseSchedule_EmptyConfig_Unconfigured(t *testing.T) {
	ctx, err := factory.ParseSchedule("")
	require.NoError(t, err)
	assert.Equal(t, schedule.None{}, ctx.Mode)
}

func TestParseSchedule_MalformedJSON(t *testing.T) {
	_, err := factory.ParseSchedule(`{"frequency":`)
	assert.Error(t, err)
}

func TestParseSchedule_RejectsBadOrdinalSlot(t *testing.T) {
	_, err := factory.ParseSchedule(`{
		"frequency": "Semi-Monthly",
		"how_paid": "Specific Week and Day",
		"week1_ordinal": "Fourth",
		"week1_day": "MONDAY",
		"week2_ordinal": "Last",
		"week2_day": "FRIDAY"
	}`)
	assert.ErrorIs(t, err, intake.ErrUnknownHowPaid)
}

func TestMarshalSchedule_RoundTrip(t *testing.T) {
	tests := []struct {
		name string
		ctx  schedule.Context
	}{
		{
			"weekly on Friday",
			schedule.Context{
				Frequency: schedule.FreqWeekly,
				HowPaid:   intake.LabelDayOfWeek,
				Mode:      schedule.DayOfWeek{Weekday: "FRIDAY"},
			},
		},
		{
			"semi-monthly dates with sentinel",
			schedule.Context{
				Frequency: schedule.FreqSemiMonthly,
				HowPaid:   intake.LabelTwoSpecificDays,
				Mode:      schedule.SemiMonthlyDates{Day1: 15, Day2: schedule.EndOfMonthDay},
			},
		},
		{
			"monthly last Thursday",
			schedule.Context{
				Frequency: schedule.FreqMonthly,
				HowPaid:   intake.LabelSpecificWeekDay,
				Mode: schedule.MonthlyWeek{
					Slot: schedule.WeekSlot{Ordinal: schedule.OrdinalLast, Weekday: "THURSDAY"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := factory.MarshalSchedule(tt.ctx)
			require.NoError(t, err)

			parsed, err := factory.ParseSchedule(raw)
			require.NoError(t, err)
			assert.Equal(t, tt.ctx, parsed)
		})
	}
}
