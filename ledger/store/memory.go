// Package store provides an in-memory TxStore implementation (for testing/dev).
package store

import (
	"context"
	"sync"

	"github.com/warp/leave-ledger/ledger"
)

// =============================================================================
// MEMORY STORE - Map-backed implementation with snapshot/rollback transactions
// =============================================================================

// Memory keeps all state in maps guarded by one RWMutex. WithTx snapshots
// the maps and restores them on failure, which gives the same all-or-nothing
// semantics as a database transaction; the write lock is held for the whole
// unit so it is also atomic with respect to every other caller.
type Memory struct {
	mu sync.RWMutex
	s  state
}

type state struct {
	employees map[ledger.EmployeeID]ledger.Employee
	leaves    map[ledger.LeaveID]ledger.LeaveRequest

	// Insertion order, so listings are deterministic.
	employeeOrder []ledger.EmployeeID
	leaveOrder    []ledger.LeaveID
}

func NewMemory() *Memory {
	return &Memory{s: state{
		employees: make(map[ledger.EmployeeID]ledger.Employee),
		leaves:    make(map[ledger.LeaveID]ledger.LeaveRequest),
	}}
}

func (s *state) clone() state {
	employees := make(map[ledger.EmployeeID]ledger.Employee, len(s.employees))
	for k, v := range s.employees {
		employees[k] = v
	}
	leaves := make(map[ledger.LeaveID]ledger.LeaveRequest, len(s.leaves))
	for k, v := range s.leaves {
		leaves[k] = v
	}
	return state{
		employees:     employees,
		leaves:        leaves,
		employeeOrder: append([]ledger.EmployeeID(nil), s.employeeOrder...),
		leaveOrder:    append([]ledger.LeaveID(nil), s.leaveOrder...),
	}
}

// WithTx runs fn against the live state under the write lock and restores a
// snapshot if fn fails. fn receives a view that skips per-call locking.
func (m *Memory) WithTx(ctx context.Context, fn func(ledger.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snapshot := m.s.clone()
	if err := fn(&txView{s: &m.s}); err != nil {
		m.s = snapshot
		return err
	}
	return nil
}

// =============================================================================
// STORE METHODS (locked wrappers over state)
// =============================================================================

func (m *Memory) SaveEmployee(_ context.Context, e ledger.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.saveEmployee(e)
}

func (m *Memory) GetEmployee(_ context.Context, id ledger.EmployeeID) (*ledger.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.s.getEmployee(id)
}

func (m *Memory) ListEmployees(_ context.Context) ([]ledger.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.s.listEmployees()
}

func (m *Memory) UpdateEmployeeHours(_ context.Context, id ledger.EmployeeID, totalHours, usedHours int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.updateEmployeeHours(id, totalHours, usedHours)
}

func (m *Memory) SaveLeave(_ context.Context, r ledger.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.saveLeave(r)
}

func (m *Memory) GetLeave(_ context.Context, id ledger.LeaveID) (*ledger.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.s.getLeave(id)
}

func (m *Memory) ListLeaves(_ context.Context) ([]ledger.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.s.listLeaves()
}

func (m *Memory) ListLeavesByStatus(_ context.Context, status ledger.LeaveStatus) ([]ledger.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.s.listLeavesByStatus(status)
}

func (m *Memory) ActiveLeavesForEmployee(_ context.Context, id ledger.EmployeeID) ([]ledger.LeaveRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.s.activeLeavesForEmployee(id)
}

func (m *Memory) SetLeaveStatus(_ context.Context, id ledger.LeaveID, status ledger.LeaveStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.s.setLeaveStatus(id, status)
}

// =============================================================================
// TX VIEW - Same state, no per-call locking (WithTx already holds the lock)
// =============================================================================

type txView struct {
	s *state
}

func (v *txView) SaveEmployee(_ context.Context, e ledger.Employee) error { return v.s.saveEmployee(e) }
func (v *txView) GetEmployee(_ context.Context, id ledger.EmployeeID) (*ledger.Employee, error) {
	return v.s.getEmployee(id)
}
func (v *txView) ListEmployees(_ context.Context) ([]ledger.Employee, error) {
	return v.s.listEmployees()
}
func (v *txView) UpdateEmployeeHours(_ context.Context, id ledger.EmployeeID, totalHours, usedHours int) error {
	return v.s.updateEmployeeHours(id, totalHours, usedHours)
}
func (v *txView) SaveLeave(_ context.Context, r ledger.LeaveRequest) error { return v.s.saveLeave(r) }
func (v *txView) GetLeave(_ context.Context, id ledger.LeaveID) (*ledger.LeaveRequest, error) {
	return v.s.getLeave(id)
}
func (v *txView) ListLeaves(_ context.Context) ([]ledger.LeaveRequest, error) {
	return v.s.listLeaves()
}
func (v *txView) ListLeavesByStatus(_ context.Context, status ledger.LeaveStatus) ([]ledger.LeaveRequest, error) {
	return v.s.listLeavesByStatus(status)
}
func (v *txView) ActiveLeavesForEmployee(_ context.Context, id ledger.EmployeeID) ([]ledger.LeaveRequest, error) {
	return v.s.activeLeavesForEmployee(id)
}
func (v *txView) SetLeaveStatus(_ context.Context, id ledger.LeaveID, status ledger.LeaveStatus) error {
	return v.s.setLeaveStatus(id, status)
}

// =============================================================================
// STATE OPERATIONS (no locking)
// =============================================================================

func (s *state) saveEmployee(e ledger.Employee) error {
	if _, exists := s.employees[e.ID]; !exists {
		s.employeeOrder = append(s.employeeOrder, e.ID)
	}
	s.employees[e.ID] = e
	return nil
}

func (s *state) getEmployee(id ledger.EmployeeID) (*ledger.Employee, error) {
	e, ok := s.employees[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (s *state) listEmployees() ([]ledger.Employee, error) {
	out := make([]ledger.Employee, 0, len(s.employeeOrder))
	for _, id := range s.employeeOrder {
		out = append(out, s.employees[id])
	}
	return out, nil
}

func (s *state) updateEmployeeHours(id ledger.EmployeeID, totalHours, usedHours int) error {
	e, ok := s.employees[id]
	if !ok {
		return ledger.ErrEmployeeNotFound
	}
	e.TotalHours = totalHours
	e.UsedHours = usedHours
	s.employees[id] = e
	return nil
}

func (s *state) saveLeave(r ledger.LeaveRequest) error {
	if _, exists := s.leaves[r.ID]; !exists {
		s.leaveOrder = append(s.leaveOrder, r.ID)
	}
	s.leaves[r.ID] = r
	return nil
}

func (s *state) getLeave(id ledger.LeaveID) (*ledger.LeaveRequest, error) {
	r, ok := s.leaves[id]
	if !ok {
		return nil, nil
	}
	return &r, nil
}

func (s *state) listLeaves() ([]ledger.LeaveRequest, error) {
	out := make([]ledger.LeaveRequest, 0, len(s.leaveOrder))
	for _, id := range s.leaveOrder {
		out = append(out, s.leaves[id])
	}
	return out, nil
}

func (s *state) listLeavesByStatus(status ledger.LeaveStatus) ([]ledger.LeaveRequest, error) {
	var out []ledger.LeaveRequest
	for _, id := range s.leaveOrder {
		if r := s.leaves[id]; r.Status == status {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *state) activeLeavesForEmployee(id ledger.EmployeeID) ([]ledger.LeaveRequest, error) {
	var out []ledger.LeaveRequest
	for _, lid := range s.leaveOrder {
		if r := s.leaves[lid]; r.EmployeeID == id && r.Status == ledger.LeaveActive {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *state) setLeaveStatus(id ledger.LeaveID, status ledger.LeaveStatus) error {
	r, ok := s.leaves[id]
	if !ok {
		return ledger.ErrLeaveNotFound
	}
	r.Status = status
	s.leaves[id] = r
	return nil
}
