/*
registry.go - Employee registry

PURPOSE:
  Holds employee identity, contract classification, and the two balance
  counters. Leaf component: the registry creates and reads employees but
  never touches balance counters after creation - that is the Ledger's job.

VALIDATION AT CREATION:
  - name must be non-empty (after trimming)
  - start date must be set
  - contract type must be one of the closed enumeration
  - total hours must be non-negative

  The contract-type default entitlement (200/160/120) is a pre-fill concern
  of the API layer; the registry takes the hours it is given.

SEE ALSO:
  - ledger.go: the only writer of balance counters after creation
*/
package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Registry manages employee records.
type Registry struct {
	store Store
	now   func() time.Time
	newID func() string
}

func NewRegistry(store Store) *Registry {
	return &Registry{
		store: store,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// CreateEmployee registers a new employee. New employees start with zero
// used hours; totalHours is the entitlement ceiling.
func (r *Registry) CreateEmployee(ctx context.Context, name string, startDate Date, contract ContractType, totalHours int) (*Employee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidEmployee)
	}
	if startDate.IsZero() {
		return nil, fmt.Errorf("%w: missing start date", ErrInvalidEmployee)
	}
	if !contract.Valid() {
		return nil, fmt.Errorf("%w: unknown contract type %q", ErrInvalidEmployee, contract)
	}
	if totalHours < 0 {
		return nil, fmt.Errorf("%w: negative total hours", ErrInvalidEmployee)
	}

	emp := Employee{
		ID:         EmployeeID(r.newID()),
		Name:       name,
		StartDate:  startDate,
		Contract:   contract,
		TotalHours: totalHours,
		UsedHours:  0,
		CreatedAt:  r.now().UTC(),
	}

	if err := r.store.SaveEmployee(ctx, emp); err != nil {
		return nil, fmt.Errorf("failed to save employee: %w", err)
	}
	return &emp, nil
}

// GetEmployee returns an employee or ErrEmployeeNotFound.
func (r *Registry) GetEmployee(ctx context.Context, id EmployeeID) (*Employee, error) {
	emp, err := r.store.GetEmployee(ctx, id)
	if err != nil {
		return nil, err
	}
	if emp == nil {
		return nil, ErrEmployeeNotFound
	}
	return emp, nil
}

// ListEmployees returns all employees.
func (r *Registry) ListEmployees(ctx context.Context) ([]Employee, error) {
	return r.store.ListEmployees(ctx)
}
