package ledger_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leave-ledger/ledger"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func testEmployee(total, used int) *ledger.Employee {
	return &ledger.Employee{
		ID:         "emp-1",
		Name:       "Jean Dupont",
		StartDate:  ledger.NewDate(2022, time.January, 10),
		Contract:   ledger.ContractPermanent,
		TotalHours: total,
		UsedHours:  used,
	}
}

func proposal(start, end ledger.Date, hours int) ledger.LeaveRequest {
	return ledger.LeaveRequest{
		ID:         "req-new",
		EmployeeID: "emp-1",
		Start:      start,
		End:        end,
		Hours:      hours,
		Type:       ledger.LeavePaid,
		Status:     ledger.LeaveActive,
	}
}

func activeLeave(id string, start, end ledger.Date, hours int) ledger.LeaveRequest {
	return ledger.LeaveRequest{
		ID:         ledger.LeaveID(id),
		EmployeeID: "emp-1",
		Start:      start,
		End:        end,
		Hours:      hours,
		Type:       ledger.LeavePaid,
		Status:     ledger.LeaveActive,
	}
}

// =============================================================================
// CHECK ORDER
// =============================================================================

func TestValidate_NilEmployee_NotFound(t *testing.T) {
	// GIVEN: No employee record
	// WHEN: Validating any proposal
	// THEN: Not-found wins before every other check

	req := proposal(ledger.NewDate(2026, time.January, 5), ledger.NewDate(2026, time.January, 3), -10)
	err := ledger.Validate(nil, req, nil)

	assert.ErrorIs(t, err, ledger.ErrEmployeeNotFound)
}

func TestValidate_EndBeforeStart_Rejected(t *testing.T) {
	// GIVEN: An employee with plenty of balance
	// WHEN: Proposing a range whose end precedes its start
	// THEN: Rejected as an invalid date range

	emp := testEmployee(200, 0)
	req := proposal(ledger.NewDate(2026, time.January, 10), ledger.NewDate(2026, time.January, 5), 8)

	err := ledger.Validate(emp, req, nil)
	assert.ErrorIs(t, err, ledger.ErrInvalidDateRange)
}

func TestValidate_SingleDayRange_Allowed(t *testing.T) {
	// GIVEN: An employee with balance
	// WHEN: Proposing start == end
	// THEN: A one-day request is admissible

	emp := testEmployee(200, 0)
	day := ledger.NewDate(2026, time.March, 2)
	req := proposal(day, day, 8)

	assert.NoError(t, ledger.Validate(emp, req, nil))
}

func TestValidate_ZeroHours_Rejected(t *testing.T) {
	// GIVEN: A well-formed date range
	// WHEN: Proposing zero (or negative) hours
	// THEN: Rejected as degenerate before overlap/balance checks run

	emp := testEmployee(200, 0)
	req := proposal(ledger.NewDate(2026, time.March, 2), ledger.NewDate(2026, time.March, 4), 0)

	err := ledger.Validate(emp, req, nil)
	assert.ErrorIs(t, err, ledger.ErrInvalidDateRange)

	req.Hours = -8
	assert.ErrorIs(t, ledger.Validate(emp, req, nil), ledger.ErrInvalidDateRange)
}

func TestValidate_OverlapBeatsBalance(t *testing.T) {
	// GIVEN: A proposal that both overlaps an active request AND exceeds balance
	// WHEN: Validating
	// THEN: The overlap is reported, not the insufficiency

	emp := testEmployee(40, 39) // 1 hour remaining
	active := []ledger.LeaveRequest{
		activeLeave("req-1", ledger.NewDate(2026, time.January, 5), ledger.NewDate(2026, time.January, 9), 39),
	}
	req := proposal(ledger.NewDate(2026, time.January, 9), ledger.NewDate(2026, time.January, 12), 24)

	err := ledger.Validate(emp, req, active)
	require.Error(t, err)

	var overlapErr *ledger.OverlapError
	assert.ErrorAs(t, err, &overlapErr)
	assert.Equal(t, ledger.LeaveID("req-1"), overlapErr.ConflictID)
	assert.ErrorIs(t, err, ledger.ErrOverlappingLeave)
}

// =============================================================================
// OVERLAP BOUNDARIES
// =============================================================================

func TestValidate_Overlap_SharedBoundaryDay(t *testing.T) {
	// GIVEN: An active request Jan 5-10
	// WHEN: Proposing Jan 10-12 (shares exactly one day)
	// THEN: Rejected - ranges are inclusive on both ends

	emp := testEmployee(200, 40)
	active := []ledger.LeaveRequest{
		activeLeave("req-1", ledger.NewDate(2026, time.January, 5), ledger.NewDate(2026, time.January, 10), 40),
	}
	req := proposal(ledger.NewDate(2026, time.January, 10), ledger.NewDate(2026, time.January, 12), 16)

	var overlapErr *ledger.OverlapError
	assert.ErrorAs(t, ledger.Validate(emp, req, active), &overlapErr)
}

func TestValidate_AdjacentRanges_Allowed(t *testing.T) {
	// GIVEN: An active request Jan 5-10
	// WHEN: Proposing Jan 11-12 (adjacent, no shared day)
	// THEN: Admissible

	emp := testEmployee(200, 40)
	active := []ledger.LeaveRequest{
		activeLeave("req-1", ledger.NewDate(2026, time.January, 5), ledger.NewDate(2026, time.January, 10), 40),
	}
	req := proposal(ledger.NewDate(2026, time.January, 11), ledger.NewDate(2026, time.January, 12), 16)

	assert.NoError(t, ledger.Validate(emp, req, active))
}

func TestValidate_Overlap_Containment(t *testing.T) {
	// GIVEN: An active request Jan 5-15
	// WHEN: Proposing Jan 8-9, entirely inside it
	// THEN: Rejected

	emp := testEmployee(200, 40)
	active := []ledger.LeaveRequest{
		activeLeave("req-1", ledger.NewDate(2026, time.January, 5), ledger.NewDate(2026, time.January, 15), 40),
	}
	req := proposal(ledger.NewDate(2026, time.January, 8), ledger.NewDate(2026, time.January, 9), 8)

	assert.ErrorIs(t, ledger.Validate(emp, req, active), ledger.ErrOverlappingLeave)
}

func TestValidate_CancelledRequests_Ignored(t *testing.T) {
	// GIVEN: A cancelled request on the proposed dates
	// WHEN: Proposing the same range again
	// THEN: Admissible - cancelled requests do not block

	emp := testEmployee(200, 0)
	cancelled := activeLeave("req-1", ledger.NewDate(2026, time.January, 5), ledger.NewDate(2026, time.January, 10), 40)
	cancelled.Status = ledger.LeaveCancelled

	req := proposal(ledger.NewDate(2026, time.January, 5), ledger.NewDate(2026, time.January, 10), 40)
	assert.NoError(t, ledger.Validate(emp, req, []ledger.LeaveRequest{cancelled}))
}

// =============================================================================
// BALANCE SUFFICIENCY
// =============================================================================

func TestValidate_InsufficientBalance_Shortfall(t *testing.T) {
	// GIVEN: 10 hours remaining (40 total, 30 used)
	// WHEN: Proposing a 16-hour request
	// THEN: Rejected with the shortfall spelled out

	emp := testEmployee(40, 30)
	req := proposal(ledger.NewDate(2026, time.February, 2), ledger.NewDate(2026, time.February, 3), 16)

	err := ledger.Validate(emp, req, nil)
	require.Error(t, err)

	var balErr *ledger.InsufficientBalanceError
	require.ErrorAs(t, err, &balErr)
	assert.Equal(t, 10, balErr.Available)
	assert.Equal(t, 16, balErr.Requested)
	assert.Equal(t, 6, balErr.Shortfall)
	assert.True(t, errors.Is(err, ledger.ErrInsufficientBalance))
}

func TestValidate_ExactRemaining_Allowed(t *testing.T) {
	// GIVEN: Exactly 16 hours remaining
	// WHEN: Proposing exactly 16 hours
	// THEN: Admissible - the ceiling is inclusive

	emp := testEmployee(40, 24)
	req := proposal(ledger.NewDate(2026, time.February, 2), ledger.NewDate(2026, time.February, 3), 16)

	assert.NoError(t, ledger.Validate(emp, req, nil))
}
