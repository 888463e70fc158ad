/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements ledger.TxStore using SQLite. The same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  employees:       identity, contract type, and the two balance counters
  leave_requests:  one row per request; cancellation flips status, never deletes

LIFECYCLE ENFORCEMENT:
  There is no DELETE on leave_requests. Cancelled requests stay in the table
  so the audit history can always explain how a balance got to its current
  value.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of SQLite's single-writer
  model. The Ledger additionally serializes mutations per employee.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging): multiple readers don't
  block, single writer at a time, better crash recovery.

USAGE:
  store, err := sqlite.New("./data/leave.db")   // ":memory:" for tests
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper migration
  tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - ledger/store.go: interface definitions
  - ledger/store/memory.go: in-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/leave-ledger/ledger"
)

// Store implements ledger.TxStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection: SQLite is single-writer anyway, and with ":memory:"
	// every pool connection would otherwise get its own empty database.
	db.SetMaxOpenConns(1)

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

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		start_date TEXT NOT NULL,
		contract_type TEXT NOT NULL,
		total_hours INTEGER NOT NULL DEFAULT 0 CHECK (total_hours >= 0),
		used_hours INTEGER NOT NULL DEFAULT 0 CHECK (used_hours >= 0),
		created_at TEXT NOT NULL
	);

	-- Requests are never deleted; cancellation flips status.
	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL REFERENCES employees(id),
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		hours INTEGER NOT NULL CHECK (hours > 0),
		leave_type TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'active',
		created_at TEXT NOT NULL,
		CHECK (start_date <= end_date)
	);

	-- Active-leave lookups per employee (overlap validation hot path)
	CREATE INDEX IF NOT EXISTS idx_leaves_employee_status
		ON leave_requests(employee_id, status);

	-- Status listings and date-window scans for the dashboard
	CREATE INDEX IF NOT EXISTS idx_leaves_status_dates
		ON leave_requests(status, start_date, end_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// queryer abstracts *sql.DB and *sql.Tx so the same statement helpers serve
// both direct calls and calls inside WithTx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx executes fn within a database transaction.
func (s *Store) WithTx(ctx context.Context, fn func(store ledger.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&txStore{q: sqlTx}); err != nil {
		return err
	}

	return sqlTx.Commit()
}

// txStore routes every call through the open transaction.
type txStore struct {
	q queryer
}

func (ts *txStore) SaveEmployee(ctx context.Context, e ledger.Employee) error {
	return saveEmployee(ctx, ts.q, e)
}
func (ts *txStore) GetEmployee(ctx context.Context, id ledger.EmployeeID) (*ledger.Employee, error) {
	return getEmployee(ctx, ts.q, id)
}
func (ts *txStore) ListEmployees(ctx context.Context) ([]ledger.Employee, error) {
	return listEmployees(ctx, ts.q)
}
func (ts *txStore) UpdateEmployeeHours(ctx context.Context, id ledger.EmployeeID, totalHours, usedHours int) error {
	return updateEmployeeHours(ctx, ts.q, id, totalHours, usedHours)
}
func (ts *txStore) SaveLeave(ctx context.Context, r ledger.LeaveRequest) error {
	return saveLeave(ctx, ts.q, r)
}
func (ts *txStore) GetLeave(ctx context.Context, id ledger.LeaveID) (*ledger.LeaveRequest, error) {
	return getLeave(ctx, ts.q, id)
}
func (ts *txStore) ListLeaves(ctx context.Context) ([]ledger.LeaveRequest, error) {
	return queryLeaves(ctx, ts.q, selectLeaves+` ORDER BY start_date, created_at`)
}
func (ts *txStore) ListLeavesByStatus(ctx context.Context, status ledger.LeaveStatus) ([]ledger.LeaveRequest, error) {
	return queryLeaves(ctx, ts.q, selectLeaves+` WHERE status = ? ORDER BY start_date, created_at`, status)
}
func (ts *txStore) ActiveLeavesForEmployee(ctx context.Context, id ledger.EmployeeID) ([]ledger.LeaveRequest, error) {
	return queryLeaves(ctx, ts.q, selectLeaves+` WHERE employee_id = ? AND status = ? ORDER BY start_date`, id, ledger.LeaveActive)
}
func (ts *txStore) SetLeaveStatus(ctx context.Context, id ledger.LeaveID, status ledger.LeaveStatus) error {
	return setLeaveStatus(ctx, ts.q, id, status)
}

// =============================================================================
// EMPLOYEE STORE (ledger.Store interface)
// =============================================================================

func (s *Store) SaveEmployee(ctx context.Context, e ledger.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveEmployee(ctx, s.db, e)
}

func (s *Store) GetEmployee(ctx context.Context, id ledger.EmployeeID) (*ledger.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getEmployee(ctx, s.db, id)
}

func (s *Store) ListEmployees(ctx context.Context) ([]ledger.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return listEmployees(ctx, s.db)
}

func (s *Store) UpdateEmployeeHours(ctx context.Context, id ledger.EmployeeID, totalHours, usedHours int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return updateEmployeeHours(ctx, s.db, id, totalHours, usedHours)
}

func saveEmployee(ctx context.Context, q queryer, e ledger.Employee) error {
	query := `
		INSERT INTO employees (id, name, start_date, contract_type, total_hours, used_hours, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			start_date = excluded.start_date,
			contract_type = excluded.contract_type,
			total_hours = excluded.total_hours,
			used_hours = excluded.used_hours
	`
	_, err := q.ExecContext(ctx, query,
		e.ID,
		e.Name,
		e.StartDate.String(),
		e.Contract,
		e.TotalHours,
		e.UsedHours,
		e.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save employee: %w", err)
	}
	return nil
}

func getEmployee(ctx context.Context, q queryer, id ledger.EmployeeID) (*ledger.Employee, error) {
	row := q.QueryRowContext(ctx, `
		SELECT id, name, start_date, contract_type, total_hours, used_hours, created_at
		FROM employees WHERE id = ?
	`, id)

	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

func listEmployees(ctx context.Context, q queryer) ([]ledger.Employee, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, name, start_date, contract_type, total_hours, used_hours, created_at
		FROM employees ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var out []ledger.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		out = append(out, *emp)
	}
	return out, rows.Err()
}

func updateEmployeeHours(ctx context.Context, q queryer, id ledger.EmployeeID, totalHours, usedHours int) error {
	res, err := q.ExecContext(ctx, `
		UPDATE employees SET total_hours = ?, used_hours = ? WHERE id = ?
	`, totalHours, usedHours, id)
	if err != nil {
		return fmt.Errorf("failed to update employee hours: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrEmployeeNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (*ledger.Employee, error) {
	var (
		e         ledger.Employee
		startDate string
		createdAt string
	)
	if err := row.Scan(&e.ID, &e.Name, &startDate, &e.Contract, &e.TotalHours, &e.UsedHours, &createdAt); err != nil {
		return nil, err
	}

	d, err := ledger.ParseDate(startDate)
	if err != nil {
		return nil, fmt.Errorf("bad start_date %q: %w", startDate, err)
	}
	e.StartDate = d
	e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &e, nil
}

// =============================================================================
// LEAVE REQUEST STORE
// =============================================================================

const selectLeaves = `
	SELECT id, employee_id, start_date, end_date, hours, leave_type, status, created_at
	FROM leave_requests`

func (s *Store) SaveLeave(ctx context.Context, r ledger.LeaveRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveLeave(ctx, s.db, r)
}

func (s *Store) GetLeave(ctx context.Context, id ledger.LeaveID) (*ledger.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getLeave(ctx, s.db, id)
}

func (s *Store) ListLeaves(ctx context.Context) ([]ledger.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return queryLeaves(ctx, s.db, selectLeaves+` ORDER BY start_date, created_at`)
}

func (s *Store) ListLeavesByStatus(ctx context.Context, status ledger.LeaveStatus) ([]ledger.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return queryLeaves(ctx, s.db, selectLeaves+` WHERE status = ? ORDER BY start_date, created_at`, status)
}

func (s *Store) ActiveLeavesForEmployee(ctx context.Context, id ledger.EmployeeID) ([]ledger.LeaveRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return queryLeaves(ctx, s.db, selectLeaves+` WHERE employee_id = ? AND status = ? ORDER BY start_date`, id, ledger.LeaveActive)
}

func (s *Store) SetLeaveStatus(ctx context.Context, id ledger.LeaveID, status ledger.LeaveStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return setLeaveStatus(ctx, s.db, id, status)
}

func saveLeave(ctx context.Context, q queryer, r ledger.LeaveRequest) error {
	query := `
		INSERT INTO leave_requests (id, employee_id, start_date, end_date, hours, leave_type, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.ExecContext(ctx, query,
		r.ID,
		r.EmployeeID,
		r.Start.String(),
		r.End.String(),
		r.Hours,
		r.Type,
		r.Status,
		r.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save leave request: %w", err)
	}
	return nil
}

func getLeave(ctx context.Context, q queryer, id ledger.LeaveID) (*ledger.LeaveRequest, error) {
	row := q.QueryRowContext(ctx, selectLeaves+` WHERE id = ?`, id)

	r, err := scanLeave(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get leave request: %w", err)
	}
	return r, nil
}

func setLeaveStatus(ctx context.Context, q queryer, id ledger.LeaveID, status ledger.LeaveStatus) error {
	res, err := q.ExecContext(ctx, `UPDATE leave_requests SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to set leave status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ledger.ErrLeaveNotFound
	}
	return nil
}

func queryLeaves(ctx context.Context, q queryer, query string, args ...any) ([]ledger.LeaveRequest, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	var out []ledger.LeaveRequest
	for rows.Next() {
		r, err := scanLeave(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func scanLeave(row rowScanner) (*ledger.LeaveRequest, error) {
	var (
		r         ledger.LeaveRequest
		start     string
		end       string
		createdAt string
	)
	if err := row.Scan(&r.ID, &r.EmployeeID, &start, &end, &r.Hours, &r.Type, &r.Status, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if r.Start, err = ledger.ParseDate(start); err != nil {
		return nil, fmt.Errorf("bad start_date %q: %w", start, err)
	}
	if r.End, err = ledger.ParseDate(end); err != nil {
		return nil, fmt.Errorf("bad end_date %q: %w", end, err)
	}
	r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	return &r, nil
}
