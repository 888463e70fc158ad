/*
validate.go - Overlap and sufficiency checks for proposed leave requests

PURPOSE:
  Pure admissibility logic: given an employee, a proposed request, and the
  employee's existing active requests, decide whether the proposal may be
  committed. No side effects, no I/O.

CHECK ORDER (short-circuits on first failure):
  1. employee exists                  -> ErrEmployeeNotFound
  2. start <= end                     -> ErrInvalidDateRange
  3. hours >= 1                       -> ErrInvalidDateRange (degenerate request)
  4. no active request overlaps       -> *OverlapError
  5. hours <= remaining entitlement   -> *InsufficientBalanceError

STALENESS:
  Because this function is pure, the Ledger re-runs it against then-current
  state inside the commit transaction. Validating a snapshot and committing
  later would let two concurrent requests both pass against a stale balance.

SEE ALSO:
  - ledger.go: the caller that makes validate-then-mutate atomic
*/
package ledger

import "fmt"

// Validate reports whether a proposed request is admissible for an employee.
// The active slice should hold the employee's current active requests;
// entries with any other status are ignored.
func Validate(emp *Employee, proposed LeaveRequest, active []LeaveRequest) error {
	if emp == nil {
		return ErrEmployeeNotFound
	}

	if proposed.Start.IsZero() || proposed.End.IsZero() || proposed.End.Before(proposed.Start) {
		return ErrInvalidDateRange
	}

	if proposed.Hours < 1 {
		return fmt.Errorf("%w: hours_count must be at least 1", ErrInvalidDateRange)
	}

	for _, existing := range active {
		if existing.Status != LeaveActive {
			continue
		}
		if existing.Overlaps(proposed) {
			return &OverlapError{
				EmployeeID:    emp.ID,
				ConflictID:    existing.ID,
				ConflictStart: existing.Start,
				ConflictEnd:   existing.End,
			}
		}
	}

	if remaining := emp.RemainingHours(); proposed.Hours > remaining {
		return &InsufficientBalanceError{
			EmployeeID: emp.ID,
			Available:  remaining,
			Requested:  proposed.Hours,
			Shortfall:  proposed.Hours - remaining,
		}
	}

	return nil
}
