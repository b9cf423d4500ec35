/*
roller.go - Automated pay-date roll-forward

PURPOSE:
  Stored pay dates go stale: once an employer's next pay date passes, the
  record no longer satisfies the "next pay date is after today" invariant.
  The roller runs on a cron schedule, finds due employers, shifts the old
  next pay date into the last-pay-date slot, and recomputes the dependent
  dates from the schedule.

DESIGN:
  - robfig/cron drives the daily run; a manual RunOnce exists for tests
    and for triggering at startup
  - Employers whose schedule cannot produce a new date (unresolvable
    configuration) keep their last pay date but lose the stale dependent
    dates, leaving the validation layer to demand fresh input

SEE ALSO:
  - store/sqlite: ListDueNextPayDates
  - intake: ApplyNextPayDate / AutoFillNextPayDate
*/
package api

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/lendfront/payroll-engine/intake"
	"github.com/lendfront/payroll-engine/schedule"
	"github.com/lendfront/payroll-engine/store/sqlite"
)

// PayDateRoller advances stale pay dates on a schedule.
type PayDateRoller struct {
	Store *sqlite.Store
	Log   *logrus.Logger

	// Spec is a cron expression; defaults to five past midnight.
	Spec string

	cron *cron.Cron
}

// NewPayDateRoller creates a roller with the default daily schedule.
func NewPayDateRoller(store *sqlite.Store, log *logrus.Logger) *PayDateRoller {
	return &PayDateRoller{
		Store: store,
		Log:   log,
		Spec:  "5 0 * * *",
	}
}

// Start registers the cron job and begins running it.
func (pr *PayDateRoller) Start() error {
	pr.cron = cron.New()
	_, err := pr.cron.AddFunc(pr.Spec, func() {
		today := schedule.DateOf(time.Now().UTC())
		if err := pr.RunOnce(context.Background(), today); err != nil {
			pr.Log.WithError(err).Error("pay date roll-forward failed")
		}
	})
	if err != nil {
		return err
	}
	pr.cron.Start()
	pr.Log.WithField("spec", pr.Spec).Info("pay date roller started")
	return nil
}

// Stop halts the cron scheduler and waits for a running job to finish.
func (pr *PayDateRoller) Stop() {
	if pr.cron == nil {
		return
	}
	<-pr.cron.Stop().Done()
	pr.Log.Info("pay date roller stopped")
}

// RunOnce advances every employer whose stored next pay date is on or
// before today.
func (pr *PayDateRoller) RunOnce(ctx context.Context, today schedule.Date) error {
	due, err := pr.Store.ListDueNextPayDates(ctx, today)
	if err != nil {
		return err
	}
	if len(due) == 0 {
		return nil
	}

	// Group by lead so each lead is loaded and saved once.
	slotsByLead := make(map[string][]int)
	for _, d := range due {
		slotsByLead[d.LeadID] = append(slotsByLead[d.LeadID], d.Slot)
	}

	for leadID, slots := range slotsByLead {
		lead, err := pr.Store.GetLead(ctx, leadID)
		if err != nil {
			pr.Log.WithError(err).WithField("lead", leadID).Warn("skipping lead")
			continue
		}

		for _, slot := range slots {
			e, err := lead.EmployerAt(slot)
			if err != nil {
				continue
			}
			lead.Employers[slot] = rollForward(*e, today)
		}

		if err := pr.Store.SaveLead(ctx, lead); err != nil {
			pr.Log.WithError(err).WithField("lead", leadID).Error("failed to save rolled dates")
			continue
		}
		pr.Log.WithFields(logrus.Fields{
			"lead":  leadID,
			"slots": slots,
			"today": today.String(),
		}).Info("rolled pay dates forward")
	}
	return nil
}

// rollForward shifts a due next pay date into the history slot and derives
// a fresh set of dependent dates from the schedule.
func rollForward(e intake.Employer, today schedule.Date) intake.Employer {
	e.Dates.LastPayDate = e.Dates.NextPayDate
	e.Dates.NextPayDate = nil
	e.Dates.SecondPayDate = nil
	e.Dates.FirstPaymentDate = nil
	return intake.AutoFillNextPayDate(e, today)
}
