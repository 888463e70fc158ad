/*
ledger.go - The single mutation path for leave balances

PURPOSE:
  Orchestrates request creation, cancellation, and administrative balance
  override. The Ledger is the ONLY writer of balance counters and request
  status; all counter changes flow through the three operations below,
  never through direct field writes. That keeps the invariants centrally
  enforceable.

ATOMICITY:
  Each operation is validate-then-mutate as a single unit:
  - a per-employee exclusive lock serializes mutations for one employee, so
    two concurrent creates cannot both pass the sufficiency check against a
    stale balance and jointly overdraw it
  - the storage transaction (TxStore.WithTx) makes the request insert and
    the counter update commit together or not at all
  Operations on different employees do not contend.

CANCELLATION:
  A one-way status flip that restores entitlement. It never re-validates
  overlap or the balance ceiling: cancelling only reduces used hours, which
  cannot push a counter past its ceiling. The decrement floors at zero
  because an administrative override may already have pushed used hours
  below the active-request sum.

ADMINISTRATIVE OVERRIDE:
  AdjustBalance overwrites both counters directly, bypassing request-level
  accounting. It does not reconcile outstanding active requests, so used
  hours may deliberately diverge from the active-request sum afterward.
  Negative counters are rejected.

SEE ALSO:
  - validate.go:   the checks re-run inside the commit transaction
  - projection.go: read-only dashboard aggregation
*/
package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Ledger governs all balance mutations.
type Ledger struct {
	store TxStore
	now   func() time.Time
	newID func() string

	mu    sync.Mutex
	locks map[EmployeeID]*sync.Mutex
}

func NewLedger(store TxStore) *Ledger {
	return &Ledger{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
		locks: make(map[EmployeeID]*sync.Mutex),
	}
}

// employeeLock returns the exclusive lock for one employee, creating it on
// first use. Locks are never removed; the map grows with the employee count.
func (l *Ledger) employeeLock(id EmployeeID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[id]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[id] = lock
	}
	return lock
}

// =============================================================================
// CREATE
// =============================================================================

// CreateLeaveRequest validates a proposal against then-current state and, on
// success, atomically inserts the active request and increments the owning
// employee's used hours. On rejection no state changes and the specific
// rejection kind is surfaced.
func (l *Ledger) CreateLeaveRequest(ctx context.Context, employeeID EmployeeID, start, end Date, hours int, leaveType LeaveType) (*LeaveRequest, error) {
	lock := l.employeeLock(employeeID)
	lock.Lock()
	defer lock.Unlock()

	req := LeaveRequest{
		ID:         LeaveID(l.newID()),
		EmployeeID: employeeID,
		Start:      start,
		End:        end,
		Hours:      hours,
		Type:       leaveType,
		Status:     LeaveActive,
		CreatedAt:  l.now().UTC(),
	}

	err := l.store.WithTx(ctx, func(s Store) error {
		emp, err := s.GetEmployee(ctx, employeeID)
		if err != nil {
			return err
		}

		active, err := s.ActiveLeavesForEmployee(ctx, employeeID)
		if err != nil {
			return err
		}

		if err := Validate(emp, req, active); err != nil {
			return err
		}

		if err := s.SaveLeave(ctx, req); err != nil {
			return fmt.Errorf("failed to save leave request: %w", err)
		}
		return s.UpdateEmployeeHours(ctx, emp.ID, emp.TotalHours, emp.UsedHours+hours)
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// =============================================================================
// CANCEL
// =============================================================================

// CancelLeaveRequest flips a request to cancelled and restores the hours to
// the owning employee. Fails with ErrLeaveNotFound for unknown ids and
// ErrAlreadyCancelled for a second cancellation; the balance is never
// decremented twice.
func (l *Ledger) CancelLeaveRequest(ctx context.Context, id LeaveID) error {
	// Peek at the request to learn which employee to lock. Status is
	// re-checked inside the transaction once the lock is held.
	req, err := l.store.GetLeave(ctx, id)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrLeaveNotFound
	}

	lock := l.employeeLock(req.EmployeeID)
	lock.Lock()
	defer lock.Unlock()

	return l.store.WithTx(ctx, func(s Store) error {
		req, err := s.GetLeave(ctx, id)
		if err != nil {
			return err
		}
		if req == nil {
			return ErrLeaveNotFound
		}
		if req.Status == LeaveCancelled {
			return ErrAlreadyCancelled
		}

		emp, err := s.GetEmployee(ctx, req.EmployeeID)
		if err != nil {
			return err
		}
		if emp == nil {
			return ErrEmployeeNotFound
		}

		if err := s.SetLeaveStatus(ctx, id, LeaveCancelled); err != nil {
			return fmt.Errorf("failed to cancel leave request: %w", err)
		}

		// Floor at zero: an override may have set used hours below the
		// active-request sum.
		used := emp.UsedHours - req.Hours
		if used < 0 {
			used = 0
		}
		return s.UpdateEmployeeHours(ctx, emp.ID, emp.TotalHours, used)
	})
}

// =============================================================================
// ADMINISTRATIVE OVERRIDE
// =============================================================================

// AdjustBalance overwrites both balance counters, bypassing request-level
// accounting. Outstanding active requests are NOT reconciled; callers who
// set counters inconsistent with the active-request sum own the mismatch.
func (l *Ledger) AdjustBalance(ctx context.Context, employeeID EmployeeID, totalHours, usedHours int) (*Employee, error) {
	if totalHours < 0 || usedHours < 0 {
		return nil, fmt.Errorf("%w: counters must be non-negative", ErrInvalidHours)
	}

	lock := l.employeeLock(employeeID)
	lock.Lock()
	defer lock.Unlock()

	var updated Employee
	err := l.store.WithTx(ctx, func(s Store) error {
		emp, err := s.GetEmployee(ctx, employeeID)
		if err != nil {
			return err
		}
		if emp == nil {
			return ErrEmployeeNotFound
		}

		if err := s.UpdateEmployeeHours(ctx, employeeID, totalHours, usedHours); err != nil {
			return fmt.Errorf("failed to adjust balance: %w", err)
		}

		updated = *emp
		updated.TotalHours = totalHours
		updated.UsedHours = usedHours
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// =============================================================================
// QUERIES
// =============================================================================

// ListActiveLeaves returns all active requests ordered by start date
// ascending (creation time breaks ties) for stable display.
func (l *Ledger) ListActiveLeaves(ctx context.Context) ([]LeaveRequest, error) {
	leaves, err := l.store.ListLeavesByStatus(ctx, LeaveActive)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(leaves, func(i, j int) bool {
		if leaves[i].Start.Equal(leaves[j].Start) {
			return leaves[i].CreatedAt.Before(leaves[j].CreatedAt)
		}
		return leaves[i].Start.Before(leaves[j].Start)
	})
	return leaves, nil
}

// ListLeaves returns every request, cancelled ones included, most recent
// start date first. Cancelled requests stay visible for audit.
func (l *Ledger) ListLeaves(ctx context.Context) ([]LeaveRequest, error) {
	leaves, err := l.store.ListLeaves(ctx)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(leaves, func(i, j int) bool {
		return leaves[j].Start.Before(leaves[i].Start)
	})
	return leaves, nil
}

// GetLeave returns a single request or ErrLeaveNotFound.
func (l *Ledger) GetLeave(ctx context.Context, id LeaveID) (*LeaveRequest, error) {
	req, err := l.store.GetLeave(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrLeaveNotFound
	}
	return req, nil
}
