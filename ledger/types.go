/*
Package ledger is the core of the leave balance system.

PURPOSE:
  Tracks each employee's paid-leave entitlement in hours and governs the
  creation and cancellation of leave requests against that entitlement.
  The Ledger is the only writer of balance counters; everything else
  (HTTP layer, dashboard) reads committed state.

KEY CONCEPTS IN THIS FILE (types.go):
  - Date: a calendar day (leave ranges are inclusive day ranges)
  - Employee: identity, contract classification, and the two balance counters
  - LeaveRequest: an hour debit against an employee's entitlement
  - ContractType: closed enumeration with recommended default entitlements

INVARIANTS (enforced by the Ledger, see ledger.go):
  - 0 <= used_hours <= total_hours after every ledger mutation
    (the administrative override is the one permitted bypass)
  - no two active requests for one employee overlap
  - used_hours equals the sum of hours over the employee's active requests
    (again excepting the administrative override)

SEE ALSO:
  - validate.go: admissibility checks for proposed requests
  - ledger.go:   the single mutation path
  - errors.go:   error taxonomy
*/
package ledger

import "time"

// =============================================================================
// DATE - Calendar day (leave accounting is day-ranged, hour-denominated)
// =============================================================================

// Date is a calendar day at UTC midnight. Leave ranges are inclusive on both
// ends, so comparisons below are all day-granular.
type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO date (YYYY-MM-DD).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func Today() Date {
	now := time.Now().UTC()
	return NewDate(now.Year(), now.Month(), now.Day())
}

func (d Date) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

func (d Date) Before(other Date) bool        { return d.normalize().Before(other.normalize()) }
func (d Date) After(other Date) bool         { return d.normalize().After(other.normalize()) }
func (d Date) Equal(other Date) bool         { return d.normalize().Equal(other.normalize()) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

func (d Date) AddDays(n int) Date { return Date{Time: d.Time.AddDate(0, 0, n)} }
func (d Date) IsZero() bool       { return d.Time.IsZero() }
func (d Date) String() string     { return d.Time.Format("2006-01-02") }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EmployeeID string
type LeaveID string

// =============================================================================
// CONTRACT TYPES - Closed enumeration, wire labels from the HR system
// =============================================================================

type ContractType string

const (
	ContractPermanent ContractType = "CDI"    // permanent contract
	ContractFixedTerm ContractType = "CDD"    // fixed-term contract
	ContractAuxiliary ContractType = "Art.60" // auxiliary placement
)

// ContractTypes lists the valid contract types in display order.
func ContractTypes() []ContractType {
	return []ContractType{ContractPermanent, ContractFixedTerm, ContractAuxiliary}
}

func (c ContractType) Valid() bool {
	switch c {
	case ContractPermanent, ContractFixedTerm, ContractAuxiliary:
		return true
	}
	return false
}

// DefaultLeaveHours returns the recommended entitlement for a contract type.
// This is a pre-fill for employee creation only; it is never enforced afterward.
func (c ContractType) DefaultLeaveHours() int {
	switch c {
	case ContractPermanent:
		return 200
	case ContractFixedTerm:
		return 160
	case ContractAuxiliary:
		return 120
	default:
		return 160
	}
}

// =============================================================================
// EMPLOYEE - Identity plus the two balance counters
// =============================================================================

type Employee struct {
	ID         EmployeeID
	Name       string
	StartDate  Date
	Contract   ContractType
	TotalHours int // entitlement ceiling
	UsedHours  int // sum of hours over active requests
	CreatedAt  time.Time
}

// RemainingHours is derived, never stored.
func (e Employee) RemainingHours() int { return e.TotalHours - e.UsedHours }

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

type LeaveType string

const (
	LeavePaid     LeaveType = "paid"
	LeaveSick     LeaveType = "sick"
	LeaveUnpaid   LeaveType = "unpaid"
	LeaveTraining LeaveType = "training"
)

// LeaveTypes lists the valid leave types in display order.
func LeaveTypes() []LeaveType {
	return []LeaveType{LeavePaid, LeaveSick, LeaveUnpaid, LeaveTraining}
}

func (t LeaveType) Valid() bool {
	switch t {
	case LeavePaid, LeaveSick, LeaveUnpaid, LeaveTraining:
		return true
	}
	return false
}

type LeaveStatus string

const (
	LeaveActive    LeaveStatus = "active"
	LeaveCancelled LeaveStatus = "cancelled"
)

// LeaveRequest debits Hours from the owning employee's balance while Active.
// Cancellation is a one-way status flip; requests are never deleted, so the
// audit history survives.
type LeaveRequest struct {
	ID         LeaveID
	EmployeeID EmployeeID
	Start      Date
	End        Date
	Hours      int
	Type       LeaveType
	Status     LeaveStatus
	CreatedAt  time.Time
}

// Overlaps reports whether two inclusive date ranges share at least one day.
func (r LeaveRequest) Overlaps(other LeaveRequest) bool {
	return r.Start.BeforeOrEqual(other.End) && other.Start.BeforeOrEqual(r.End)
}

// Contains reports whether day falls inside the request's inclusive range.
func (r LeaveRequest) Contains(day Date) bool {
	return r.Start.BeforeOrEqual(day) && day.BeforeOrEqual(r.End)
}
