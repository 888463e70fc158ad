package sqlite_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/leave-ledger/ledger"
	"github.com/warp/leave-ledger/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleEmployee(id string) ledger.Employee {
	return ledger.Employee{
		ID:         ledger.EmployeeID(id),
		Name:       "Jean Dupont",
		StartDate:  ledger.NewDate(2022, time.March, 1),
		Contract:   ledger.ContractPermanent,
		TotalHours: 200,
		UsedHours:  0,
		CreatedAt:  time.Date(2025, time.January, 2, 9, 0, 0, 0, time.UTC),
	}
}

func sampleLeave(id, employeeID string, start, end ledger.Date, hours int) ledger.LeaveRequest {
	return ledger.LeaveRequest{
		ID:         ledger.LeaveID(id),
		EmployeeID: ledger.EmployeeID(employeeID),
		Start:      start,
		End:        end,
		Hours:      hours,
		Type:       ledger.LeavePaid,
		Status:     ledger.LeaveActive,
		CreatedAt:  time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC),
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestEmployee_SaveAndGet_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	emp := sampleEmployee("emp-1")
	require.NoError(t, s.SaveEmployee(ctx, emp))

	got, err := s.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, emp.Name, got.Name)
	assert.Equal(t, emp.Contract, got.Contract)
	assert.True(t, emp.StartDate.Equal(got.StartDate))
	assert.Equal(t, emp.TotalHours, got.TotalHours)
	assert.Equal(t, emp.CreatedAt, got.CreatedAt)
}

func TestEmployee_GetMissing_ReturnsNil(t *testing.T) {
	s := newTestStore(t)

	got, err := s.GetEmployee(context.Background(), "no-such")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEmployee_UpdateHours(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveEmployee(ctx, sampleEmployee("emp-1")))
	require.NoError(t, s.UpdateEmployeeHours(ctx, "emp-1", 180, 40))

	got, err := s.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 180, got.TotalHours)
	assert.Equal(t, 40, got.UsedHours)
}

func TestEmployee_UpdateHoursMissing_NotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.UpdateEmployeeHours(context.Background(), "ghost", 100, 0)
	assert.ErrorIs(t, err, ledger.ErrEmployeeNotFound)
}

func TestEmployee_List_OrderedByCreation(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first := sampleEmployee("emp-a")
	second := sampleEmployee("emp-b")
	second.CreatedAt = first.CreatedAt.Add(time.Hour)
	require.NoError(t, s.SaveEmployee(ctx, second))
	require.NoError(t, s.SaveEmployee(ctx, first))

	list, err := s.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, ledger.EmployeeID("emp-a"), list[0].ID)
	assert.Equal(t, ledger.EmployeeID("emp-b"), list[1].ID)
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

func TestLeave_SaveAndGet_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveEmployee(ctx, sampleEmployee("emp-1")))
	req := sampleLeave("req-1", "emp-1",
		ledger.NewDate(2026, time.July, 6), ledger.NewDate(2026, time.July, 10), 40)
	require.NoError(t, s.SaveLeave(ctx, req))

	got, err := s.GetLeave(ctx, "req-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, req.EmployeeID, got.EmployeeID)
	assert.True(t, req.Start.Equal(got.Start))
	assert.True(t, req.End.Equal(got.End))
	assert.Equal(t, req.Hours, got.Hours)
	assert.Equal(t, ledger.LeaveActive, got.Status)
}

func TestLeave_SetStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveEmployee(ctx, sampleEmployee("emp-1")))
	require.NoError(t, s.SaveLeave(ctx, sampleLeave("req-1", "emp-1",
		ledger.NewDate(2026, time.July, 6), ledger.NewDate(2026, time.July, 10), 40)))

	require.NoError(t, s.SetLeaveStatus(ctx, "req-1", ledger.LeaveCancelled))

	got, err := s.GetLeave(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, ledger.LeaveCancelled, got.Status)

	err = s.SetLeaveStatus(ctx, "ghost", ledger.LeaveCancelled)
	assert.ErrorIs(t, err, ledger.ErrLeaveNotFound)
}

func TestLeave_ActiveLeavesForEmployee_FiltersStatusAndOwner(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveEmployee(ctx, sampleEmployee("emp-1")))
	require.NoError(t, s.SaveEmployee(ctx, sampleEmployee("emp-2")))

	mine := sampleLeave("req-1", "emp-1",
		ledger.NewDate(2026, time.July, 6), ledger.NewDate(2026, time.July, 10), 40)
	cancelled := sampleLeave("req-2", "emp-1",
		ledger.NewDate(2026, time.August, 3), ledger.NewDate(2026, time.August, 7), 40)
	cancelled.Status = ledger.LeaveCancelled
	theirs := sampleLeave("req-3", "emp-2",
		ledger.NewDate(2026, time.July, 6), ledger.NewDate(2026, time.July, 10), 40)

	for _, r := range []ledger.LeaveRequest{mine, cancelled, theirs} {
		require.NoError(t, s.SaveLeave(ctx, r))
	}

	active, err := s.ActiveLeavesForEmployee(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, ledger.LeaveID("req-1"), active[0].ID)
}

func TestLeave_ListByStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveEmployee(ctx, sampleEmployee("emp-1")))
	a := sampleLeave("req-1", "emp-1",
		ledger.NewDate(2026, time.July, 6), ledger.NewDate(2026, time.July, 10), 40)
	b := sampleLeave("req-2", "emp-1",
		ledger.NewDate(2026, time.August, 3), ledger.NewDate(2026, time.August, 7), 40)
	b.Status = ledger.LeaveCancelled
	require.NoError(t, s.SaveLeave(ctx, a))
	require.NoError(t, s.SaveLeave(ctx, b))

	active, err := s.ListLeavesByStatus(ctx, ledger.LeaveActive)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, ledger.LeaveID("req-1"), active[0].ID)

	all, err := s.ListLeaves(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestEmployee_ConcurrentReads_InMemory(t *testing.T) {
	// GIVEN: An in-memory database, where an extra pool connection would see
	//        a fresh database without the schema
	// WHEN: Many goroutines read at once
	// THEN: Every read sees the migrated schema and the saved row

	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveEmployee(ctx, sampleEmployee("emp-1")))

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := s.GetEmployee(ctx, "emp-1")
			if err == nil && got == nil {
				err = errors.New("employee missing")
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestWithTx_RollsBackOnError(t *testing.T) {
	// GIVEN: A transaction that saves a request and updates the balance,
	//        then fails
	// WHEN: WithTx returns the error
	// THEN: Neither write is visible afterward

	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveEmployee(ctx, sampleEmployee("emp-1")))

	boom := errors.New("boom")
	err := s.WithTx(ctx, func(tx ledger.Store) error {
		if err := tx.SaveLeave(ctx, sampleLeave("req-1", "emp-1",
			ledger.NewDate(2026, time.July, 6), ledger.NewDate(2026, time.July, 10), 40)); err != nil {
			return err
		}
		if err := tx.UpdateEmployeeHours(ctx, "emp-1", 200, 40); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := s.GetLeave(ctx, "req-1")
	require.NoError(t, err)
	assert.Nil(t, got, "insert must roll back")

	emp, err := s.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 0, emp.UsedHours, "update must roll back")
}

func TestWithTx_CommitsOnSuccess(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.SaveEmployee(ctx, sampleEmployee("emp-1")))

	err := s.WithTx(ctx, func(tx ledger.Store) error {
		if err := tx.SaveLeave(ctx, sampleLeave("req-1", "emp-1",
			ledger.NewDate(2026, time.July, 6), ledger.NewDate(2026, time.July, 10), 40)); err != nil {
			return err
		}
		return tx.UpdateEmployeeHours(ctx, "emp-1", 200, 40)
	})
	require.NoError(t, err)

	got, err := s.GetLeave(ctx, "req-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	emp, err := s.GetEmployee(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 40, emp.UsedHours)
}
