/*
seed.go - Sample-data loader for development and demos

PURPOSE:
  Populates an empty database with a plausible staff roster so the frontend
  has something to show. Loading is a no-op when any employee already
  exists; it never touches live data.

SEE ALSO:
  - handlers.go: the Seed endpoint handler
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/leave-ledger/ledger"
)

var sampleNames = []string{
	"Jean Dupont", "Marie Martin", "Pierre Durand", "Sophie Bernard",
	"Michel Dubois", "Isabelle Moreau", "François Laurent", "Catherine Simon",
	"Daniel Thomas", "Nathalie Robert", "Alain Petit", "Sylvie Roux",
}

// Seed loads sample employees into an empty database.
// POST /api/seed
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	n, err := h.LoadSampleData(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to seed sample data", err)
		return
	}
	if n == 0 {
		writeJSON(w, http.StatusOK, map[string]string{"message": "data already initialized"})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"message": fmt.Sprintf("%d employees added", n), "count": n})
}

// LoadSampleData registers the sample roster. Returns the number of
// employees created, zero when data already exists.
func (h *Handler) LoadSampleData(ctx context.Context) (int, error) {
	existing, err := h.Registry.ListEmployees(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	contracts := ledger.ContractTypes()
	for i, name := range sampleNames {
		contract := contracts[i%len(contracts)]
		startDate := ledger.NewDate(2020+(i%5), time.Month(1+((i*3)%12)), 1+(i%28))

		if _, err := h.Registry.CreateEmployee(ctx, name, startDate, contract, contract.DefaultLeaveHours()); err != nil {
			return 0, fmt.Errorf("failed to seed employee %q: %w", name, err)
		}
	}
	return len(sampleNames), nil
}
