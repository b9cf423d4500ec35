/*
Package sqlite provides SQLite-backed persistence for leads and employers.

PURPOSE:
  Stores draft and submitted leads with their employer schedules and pay
  dates. Schedules are persisted in the factory's flat JSON form so the
  schema never needs to know the mode variants; pay dates are stored as
  ISO "2006-01-02" strings at day granularity.

KEY TABLES:
  leads:     borrower records
  employers: one row per employer slot, keyed by (lead_id, slot)

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers don't block
  the single writer.

USAGE:
  store, err := sqlite.New("./data/intake.db")   // ":memory:" for tests
  if err != nil { ... }
  defer store.Close()

SEE ALSO:
  - intake: the domain model persisted here
  - factory: the schedule JSON codec
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/lendfront/payroll-engine/factory"
	"github.com/lendfront/payroll-engine/intake"
	"github.com/lendfront/payroll-engine/schedule"
)

// Store persists leads and their employer schedules.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens (and migrates) a SQLite store. Use ":memory:" for tests.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS leads (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TEXT NOT NULL DEFAULT (datetime('now')),
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	);

	CREATE TABLE IF NOT EXISTS employers (
		id TEXT PRIMARY KEY,
		lead_id TEXT NOT NULL REFERENCES leads(id) ON DELETE CASCADE,
		slot INTEGER NOT NULL,
		name TEXT NOT NULL,
		gross_pay TEXT NOT NULL,
		schedule_json TEXT NOT NULL,
		last_pay_date TEXT,
		next_pay_date TEXT,
		second_pay_date TEXT,
		first_payment_date TEXT,
		UNIQUE(lead_id, slot)
	);

	CREATE INDEX IF NOT EXISTS idx_employers_lead ON employers(lead_id);
	CREATE INDEX IF NOT EXISTS idx_employers_next_pay_date
		ON employers(next_pay_date) WHERE next_pay_date IS NOT NULL;
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// LEADS
// =============================================================================

// SaveLead inserts or replaces a lead and all of its employer rows.
func (s *Store) SaveLead(ctx context.Context, lead *intake.Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO leads (id, first_name, last_name, status)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			status = excluded.status,
			updated_at = datetime('now')`,
		lead.ID, lead.FirstName, lead.LastName, string(lead.Status))
	if err != nil {
		return fmt.Errorf("save lead: %w", err)
	}

	// Employer slots are replaced wholesale; the set is tiny (max 3).
	if _, err := tx.ExecContext(ctx, `DELETE FROM employers WHERE lead_id = ?`, lead.ID); err != nil {
		return fmt.Errorf("clear employers: %w", err)
	}
	for slot, e := range lead.Employers {
		scheduleJSON, err := factory.MarshalSchedule(e.Schedule)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO employers (id, lead_id, slot, name, gross_pay, schedule_json,
				last_pay_date, next_pay_date, second_pay_date, first_payment_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, lead.ID, slot, e.Name, e.GrossPay.String(), scheduleJSON,
			dateString(e.Dates.LastPayDate), dateString(e.Dates.NextPayDate),
			dateString(e.Dates.SecondPayDate), dateString(e.Dates.FirstPaymentDate))
		if err != nil {
			return fmt.Errorf("save employer slot %d: %w", slot, err)
		}
	}

	return tx.Commit()
}

// GetLead loads a lead with its employers, ordered by slot.
func (s *Store) GetLead(ctx context.Context, id string) (*intake.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lead := &intake.Lead{}
	var status string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, status FROM leads WHERE id = ?`, id).
		Scan(&lead.ID, &lead.FirstName, &lead.LastName, &status)
	if err == sql.ErrNoRows {
		return nil, intake.ErrLeadNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get lead: %w", err)
	}
	lead.Status = intake.LeadStatus(status)

	lead.Employers, err = s.loadEmployers(ctx, id)
	if err != nil {
		return nil, err
	}
	return lead, nil
}

// ListLeads returns all leads, newest first, without employer rows.
func (s *Store) ListLeads(ctx context.Context) ([]*intake.Lead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, first_name, last_name, status FROM leads ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var leads []*intake.Lead
	for rows.Next() {
		lead := &intake.Lead{}
		var status string
		if err := rows.Scan(&lead.ID, &lead.FirstName, &lead.LastName, &status); err != nil {
			return nil, err
		}
		lead.Status = intake.LeadStatus(status)
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

// DeleteLead removes a lead and, via the foreign key, its employers.
func (s *Store) DeleteLead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `DELETE FROM leads WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return intake.ErrLeadNotFound
	}
	return nil
}

// =============================================================================
// EMPLOYERS
// =============================================================================

func (s *Store) loadEmployers(ctx context.Context, leadID string) ([]intake.Employer, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, gross_pay, schedule_json,
			last_pay_date, next_pay_date, second_pay_date, first_payment_date
		FROM employers WHERE lead_id = ? ORDER BY slot`, leadID)
	if err != nil {
		return nil, fmt.Errorf("load employers: %w", err)
	}
	defer rows.Close()

	var employers []intake.Employer
	for rows.Next() {
		e, err := scanEmployer(rows)
		if err != nil {
			return nil, err
		}
		employers = append(employers, e)
	}
	return employers, rows.Err()
}

func scanEmployer(rows *sql.Rows) (intake.Employer, error) {
	var (
		e                         intake.Employer
		grossPay, scheduleJSON    string
		last, next, second, first sql.NullString
	)
	if err := rows.Scan(&e.ID, &e.Name, &grossPay, &scheduleJSON,
		&last, &next, &second, &first); err != nil {
		return intake.Employer{}, err
	}

	pay, err := decimal.NewFromString(grossPay)
	if err != nil {
		return intake.Employer{}, fmt.Errorf("employer %s: bad gross pay: %w", e.ID, err)
	}
	e.GrossPay = pay

	e.Schedule, err = factory.ParseSchedule(scheduleJSON)
	if err != nil {
		return intake.Employer{}, fmt.Errorf("employer %s: %w", e.ID, err)
	}

	if e.Dates.LastPayDate, err = parseDate(last); err != nil {
		return intake.Employer{}, err
	}
	if e.Dates.NextPayDate, err = parseDate(next); err != nil {
		return intake.Employer{}, err
	}
	if e.Dates.SecondPayDate, err = parseDate(second); err != nil {
		return intake.Employer{}, err
	}
	if e.Dates.FirstPaymentDate, err = parseDate(first); err != nil {
		return intake.Employer{}, err
	}
	return e, nil
}

// DueEmployer identifies an employer whose stored next pay date has passed.
type DueEmployer struct {
	LeadID string
	Slot   int
}

// ListDueNextPayDates returns employers whose next pay date is on or before
// the given day. Feeds the roll-forward job. The ISO date format sorts
// lexicographically, so plain string comparison is correct here.
func (s *Store) ListDueNextPayDates(ctx context.Context, asOf schedule.Date) ([]DueEmployer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT lead_id, slot FROM employers
		WHERE next_pay_date IS NOT NULL AND next_pay_date <= ?
		ORDER BY lead_id, slot`, asOf.String())
	if err != nil {
		return nil, fmt.Errorf("list due pay dates: %w", err)
	}
	defer rows.Close()

	var due []DueEmployer
	for rows.Next() {
		var d DueEmployer
		if err := rows.Scan(&d.LeadID, &d.Slot); err != nil {
			return nil, err
		}
		due = append(due, d)
	}
	return due, rows.Err()
}

// =============================================================================
// DATE HELPERS
// =============================================================================

func dateString(d *schedule.Date) any {
	if d == nil {
		return nil
	}
	return d.String()
}

func parseDate(s sql.NullString) (*schedule.Date, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	d, err := schedule.ParseDate(s.String)
	if err != nil {
		return nil, fmt.Errorf("bad stored date %q: %w", s.String, err)
	}
	return &d, nil
}
