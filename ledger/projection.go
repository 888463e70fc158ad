/*
projection.go - Read-only dashboard aggregation

PURPOSE:
  Derives headcount and attendance numbers from committed registry/ledger
  state. No mutation capability; the only contract is correct arithmetic.

"ON LEAVE" SEMANTIC:
  An employee counts as on leave when they hold an active request whose
  inclusive date range contains the given day. Active requests entirely in
  the past or future do not count. The choice is date-based rather than
  status-based; see DESIGN.md.

SEE ALSO:
  - ledger.go: the state being projected
*/
package ledger

import (
	"context"

	"github.com/shopspring/decimal"
)

// Stats is the dashboard snapshot for a single day.
type Stats struct {
	TotalEmployees     int
	AvailableEmployees int
	EmployeesOnLeave   int
	CurrentLeaves      int // active requests covering the day
	AttendanceRate     int // round(available / total * 100), 0 with no employees
}

// Projection computes dashboard stats over committed state.
type Projection struct {
	store Store
}

func NewProjection(store Store) *Projection {
	return &Projection{store: store}
}

// Stats aggregates counts for the given day (normally Today()).
func (p *Projection) Stats(ctx context.Context, day Date) (Stats, error) {
	employees, err := p.store.ListEmployees(ctx)
	if err != nil {
		return Stats{}, err
	}

	active, err := p.store.ListLeavesByStatus(ctx, LeaveActive)
	if err != nil {
		return Stats{}, err
	}

	onLeave := make(map[EmployeeID]bool)
	currentLeaves := 0
	for _, req := range active {
		if req.Contains(day) {
			onLeave[req.EmployeeID] = true
			currentLeaves++
		}
	}

	total := len(employees)
	available := total - len(onLeave)

	// Exact division so 2/3 of a headcount rounds predictably.
	rate := 0
	if total > 0 {
		rate = int(decimal.NewFromInt(int64(available * 100)).
			Div(decimal.NewFromInt(int64(total))).
			Round(0).IntPart())
	}

	return Stats{
		TotalEmployees:     total,
		AvailableEmployees: available,
		EmployeesOnLeave:   len(onLeave),
		CurrentLeaves:      currentLeaves,
		AttendanceRate:     rate,
	}, nil
}
