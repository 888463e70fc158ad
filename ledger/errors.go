/*
errors.go - Centralized error taxonomy for the leave ledger

PURPOSE:
  All rejection kinds in one place. Every failure is surfaced synchronously
  to the caller; no operation partially applies its effect, so an error
  always means "state unchanged".

ERROR CATEGORIES:
  1. Not-found errors  - employee or leave request absent
  2. Validation errors - malformed input, overlap, insufficient balance
  3. Lifecycle errors  - cancelling an already-cancelled request

USAGE:
  Callers match with errors.Is / errors.As:

    if errors.Is(err, ledger.ErrOverlappingLeave) { ... }

    var bal *ledger.InsufficientBalanceError
    if errors.As(err, &bal) {
        fmt.Println(bal.Shortfall)
    }

SEE ALSO:
  - validate.go: produces the validation errors
  - ledger.go:   produces the not-found and lifecycle errors
*/
package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmployeeNotFound is returned when a referenced employee doesn't exist.
	ErrEmployeeNotFound = errors.New("employee not found")

	// ErrLeaveNotFound is returned when a referenced leave request doesn't exist.
	ErrLeaveNotFound = errors.New("leave request not found")

	// ErrInvalidDateRange covers malformed or degenerate date/hour input:
	// end before start, unparseable dates, or a request for less than one hour.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrOverlappingLeave is returned when a proposed range shares a day with
	// an existing active request for the same employee.
	ErrOverlappingLeave = errors.New("overlapping leave")

	// ErrInsufficientBalance is returned when requested hours exceed the
	// employee's remaining entitlement.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrAlreadyCancelled guards cancellation idempotency: cancelling twice is
	// rejected, not silently accepted, and never decrements the balance twice.
	ErrAlreadyCancelled = errors.New("leave request already cancelled")

	// ErrInvalidEmployee is returned by CreateEmployee for rejected input.
	ErrInvalidEmployee = errors.New("invalid employee")

	// ErrInvalidHours is returned when a balance override carries negative counters.
	ErrInvalidHours = errors.New("invalid hours")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientBalanceError details a balance shortage.
type InsufficientBalanceError struct {
	EmployeeID EmployeeID
	Available  int
	Requested  int
	Shortfall  int
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance: available %dh, requested %dh, shortfall %dh",
		e.Available, e.Requested, e.Shortfall)
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// OverlapError details which active request a proposal collides with.
type OverlapError struct {
	EmployeeID    EmployeeID
	ConflictID    LeaveID
	ConflictStart Date
	ConflictEnd   Date
}

func (e *OverlapError) Error() string {
	return fmt.Sprintf("overlapping leave: conflicts with request %s (%s..%s)",
		e.ConflictID, e.ConflictStart, e.ConflictEnd)
}

func (e *OverlapError) Unwrap() error { return ErrOverlappingLeave }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEmployeeNotFound) || errors.Is(err, ErrLeaveNotFound)
}

// IsClientError returns true if the error is due to invalid caller input and
// retrying the same call will fail again.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDateRange) ||
		errors.Is(err, ErrOverlappingLeave) ||
		errors.Is(err, ErrInsufficientBalance) ||
		errors.Is(err, ErrAlreadyCancelled) ||
		errors.Is(err, ErrInvalidEmployee) ||
		errors.Is(err, ErrInvalidHours)
}
