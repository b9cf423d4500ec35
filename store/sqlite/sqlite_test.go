package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lendfront/payroll-engine/intake"
	"github.com/lendfront/payroll-engine/schedule"
	"github.com/lendfront/payroll-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func date(year int, month time.Month, day int) schedule.Date {
	return schedule.NewDate(year, month, day)
}

func ptr(d schedule.Date) *schedule.Date { return &d }

func TestSaveLead_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	lead := intake.NewLead("Ada", "Byron")
	employer := intake.NewEmployer("Acme Corp", decimal.RequireFromString("2143.75"))
	employer = intake.ReplaceSchedule(employer, schedule.Context{
		Frequency: schedule.FreqSemiMonthly,
		HowPaid:   intake.LabelTwoSpecificDays,
		Mode:      schedule.SemiMonthlyDates{Day1: 15, Day2: schedule.EndOfMonthDay},
	})
	employer.Dates.LastPayDate = ptr(date(2024, time.April, 15))
	employer = intake.ApplyNextPayDate(employer, date(2024, time.April, 30))
	require.NoError(t, lead.AddEmployer(employer))

	require.NoError(t, store.SaveLead(ctx, lead))

	loaded, err := store.GetLead(ctx, lead.ID)
	require.NoError(t, err)

	require.Len(t, loaded.Employers, 1)
	got := loaded.Employers[0]
	assert.Equal(t, "Acme Corp", got.Name)
	assert.True(t, got.GrossPay.Equal(decimal.RequireFromString("2143.75")))
	assert.Equal(t, schedule.SemiMonthlyDates{Day1: 15, Day2: schedule.EndOfMonthDay}, got.Schedule.Mode)
	require.NotNil(t, got.Dates.NextPayDate)
	assert.Equal(t, date(2024, time.April, 30), *got.Dates.NextPayDate)
	require.NotNil(t, got.Dates.SecondPayDate)
	assert.Equal(t, date(2024, time.May, 15), *got.Dates.SecondPayDate)
}

func TestSaveLead_UpdateReplacesEmployerSlots(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	lead := intake.NewLead("Ada", "Byron")
	require.NoError(t, lead.AddEmployer(intake.NewEmployer("First Job", decimal.Zero)))
	require.NoError(t, lead.AddEmployer(intake.NewEmployer("Second Job", decimal.Zero)))
	require.NoError(t, store.SaveLead(ctx, lead))

	lead.Employers = lead.Employers[:1]
	require.NoError(t, store.SaveLead(ctx, lead))

	loaded, err := store.GetLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Len(t, loaded.Employers, 1)
}

func TestGetLead_NotFound(t *testing.T) {
	store := newTestStore(t)
	_, err := store.GetLead(context.Background(), "nope")
	assert.ErrorIs(t, err, intake.ErrLeadNotFound)
}

func TestDeleteLead_CascadesToEmployers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	lead := intake.NewLead("Ada", "Byron")
	require.NoError(t, lead.AddEmployer(intake.NewEmployer("Acme", decimal.Zero)))
	require.NoError(t, store.SaveLead(ctx, lead))

	require.NoError(t, store.DeleteLead(ctx, lead.ID))
	_, err := store.GetLead(ctx, lead.ID)
	assert.ErrorIs(t, err, intake.ErrLeadNotFound)

	assert.ErrorIs(t, store.DeleteLead(ctx, lead.ID), intake.ErrLeadNotFound)
}

func TestListDueNextPayDates(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	lead := intake.NewLead("Ada", "Byron")

	due := intake.NewEmployer("Due", decimal.Zero)
	due.Schedule = schedule.Context{Frequency: schedule.FreqWeekly, Mode: schedule.DayOfWeek{Weekday: "FRIDAY"}}
	due.Dates.NextPayDate = ptr(date(2024, time.April, 5))
	require.NoError(t, lead.AddEmployer(due))

	future := intake.NewEmployer("Future", decimal.Zero)
	future.Schedule = schedule.Context{Frequency: schedule.FreqWeekly, Mode: schedule.DayOfWeek{Weekday: "FRIDAY"}}
	future.Dates.NextPayDate = ptr(date(2024, time.April, 19))
	require.NoError(t, lead.AddEmployer(future))

	unset := intake.NewEmployer("Unset", decimal.Zero)
	require.NoError(t, lead.AddEmployer(unset))

	require.NoError(t, store.SaveLead(ctx, lead))

	got, err := store.ListDueNextPayDates(ctx, date(2024, time.April, 8))
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, lead.ID, got[0].LeadID)
	assert.Equal(t, 0, got[0].Slot)
}
