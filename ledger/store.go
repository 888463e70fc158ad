/*
store.go - Persistence interface for employees and leave requests

PURPOSE:
  Defines the boundary between the ledger and the database. The ledger is
  agnostic to the storage engine; it only requires that WithTx gives it
  all-or-nothing semantics for validate-then-mutate.

LIFECYCLE CONTRACT:
  Leave requests are never deleted. Cancellation is SetLeaveStatus, a one-way
  status flip that preserves audit history. The only employee fields the
  ledger writes after creation are the two balance counters
  (UpdateEmployeeHours); name/contract edits are outside the ledger.

LOOKUPS:
  GetEmployee/GetLeave return (nil, nil) when the record is absent. The
  domain layer translates that into ErrEmployeeNotFound/ErrLeaveNotFound so
  stores don't each invent their own not-found error.

IMPLEMENTATIONS:
  - store/sqlite: production SQLite store
  - ledger/store: in-memory store for tests and dev mode

SEE ALSO:
  - ledger.go: uses WithTx for every mutation
*/
package ledger

import "context"

// Store handles persistence of employees and leave requests.
type Store interface {
	// Employees
	SaveEmployee(ctx context.Context, e Employee) error
	GetEmployee(ctx context.Context, id EmployeeID) (*Employee, error)
	ListEmployees(ctx context.Context) ([]Employee, error)

	// UpdateEmployeeHours overwrites the two balance counters. This is the
	// ONLY employee mutation the ledger performs after creation.
	UpdateEmployeeHours(ctx context.Context, id EmployeeID, totalHours, usedHours int) error

	// Leave requests
	SaveLeave(ctx context.Context, r LeaveRequest) error
	GetLeave(ctx context.Context, id LeaveID) (*LeaveRequest, error)
	ListLeaves(ctx context.Context) ([]LeaveRequest, error)
	ListLeavesByStatus(ctx context.Context, status LeaveStatus) ([]LeaveRequest, error)
	ActiveLeavesForEmployee(ctx context.Context, id EmployeeID) ([]LeaveRequest, error)

	// SetLeaveStatus flips a request's status. Requests are never deleted.
	SetLeaveStatus(ctx context.Context, id LeaveID, status LeaveStatus) error
}

// TxStore wraps Store with transaction support. Every ledger mutation runs
// inside WithTx so that a rejection leaves both tables exactly as they were.
type TxStore interface {
	Store

	// WithTx executes fn within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTx(ctx context.Context, fn func(Store) error) error
}
