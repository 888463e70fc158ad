/*
handlers.go - HTTP API handlers for the leave balance system

PURPOSE:
  Exposes the ledger via REST API. Handles HTTP request/response, JSON
  serialization, and delegates to domain logic.

ENDPOINTS:
  Employees:
    GET    /api/employees               List all employees
    POST   /api/employees               Create employee
    GET    /api/employees/{id}          Get employee details
    PUT    /api/employees/{id}/balance  Administrative balance override

  Leaves:
    GET    /api/leaves                  All requests (cancelled included)
    POST   /api/leaves                  Create leave request
    GET    /api/leaves/active           Active requests, start date ascending
    DELETE /api/leaves/{id}             Cancel (status flip, record kept)

  Dashboard:
    GET    /api/dashboard/stats         Headcount/attendance snapshot

  Misc:
    GET    /api/options                 Static form options
    POST   /api/seed                    Sample-data loader (dev)

ERROR HANDLING:
  Rejection kinds map to HTTP statuses:
  - 400: malformed input (bad dates, bad contract type, negative hours)
  - 404: employee or leave request not found
  - 409: overlap, insufficient balance, already cancelled
  - 500: storage failures
  The body carries {error, code} so clients can branch on code.

SEE ALSO:
  - dto.go: request/response data structures
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/warp/leave-ledger/ledger"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Registry   *ledger.Registry
	Ledger     *ledger.Ledger
	Projection *ledger.Projection
}

// NewHandler creates a new handler on top of the given store.
func NewHandler(store ledger.TxStore) *Handler {
	return &Handler{
		Registry:   ledger.NewRegistry(store),
		Ledger:     ledger.NewLedger(store),
		Projection: ledger.NewProjection(store),
	}
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees with their balance counters.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Registry.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, e := range employees {
		dtos[i] = toEmployeeDTO(e)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id := ledger.EmployeeID(chi.URLParam(r, "id"))

	emp, err := h.Registry.GetEmployee(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// CreateEmployee creates a new employee. Total hours default from the
// contract type when the field is omitted.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	startDate, err := ledger.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}

	contract := ledger.ContractType(req.ContractType)
	totalHours := contract.DefaultLeaveHours()
	if req.TotalLeaveHours != nil {
		totalHours = *req.TotalLeaveHours
	}

	emp, err := h.Registry.CreateEmployee(r.Context(), req.Name, startDate, contract, totalHours)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(*emp))
}

// AdjustBalance is the administrative override of both balance counters.
// It bypasses request-level accounting and does not reconcile outstanding
// active requests.
func (h *Handler) AdjustBalance(w http.ResponseWriter, r *http.Request) {
	id := ledger.EmployeeID(chi.URLParam(r, "id"))

	var req AdjustBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	emp, err := h.Ledger.AdjustBalance(r.Context(), id, req.TotalLeaveHours, req.UsedLeaveHours)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

// CreateLeave creates a leave request against the employee's balance.
func (h *Handler) CreateLeave(w http.ResponseWriter, r *http.Request) {
	var req CreateLeaveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	start, err := ledger.ParseDate(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start_date format (use YYYY-MM-DD)", err)
		return
	}
	end, err := ledger.ParseDate(req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end_date format (use YYYY-MM-DD)", err)
		return
	}

	leaveType := ledger.LeaveType(req.LeaveType)
	if req.LeaveType == "" {
		leaveType = ledger.LeavePaid
	}
	if !leaveType.Valid() {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown leave_type %q", req.LeaveType), nil)
		return
	}

	created, err := h.Ledger.CreateLeaveRequest(r.Context(), ledger.EmployeeID(req.EmployeeID), start, end, req.HoursCount, leaveType)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toLeaveDTO(*created, h.employeeName(r, created.EmployeeID)))
}

// ListLeaves returns every request, cancelled ones included.
func (h *Handler) ListLeaves(w http.ResponseWriter, r *http.Request) {
	leaves, err := h.Ledger.ListLeaves(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list leave requests", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toLeaveDTOs(r, leaves))
}

// ListActiveLeaves returns active requests ordered by start date.
func (h *Handler) ListActiveLeaves(w http.ResponseWriter, r *http.Request) {
	leaves, err := h.Ledger.ListActiveLeaves(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list active leave requests", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toLeaveDTOs(r, leaves))
}

// CancelLeave flips a request to cancelled and restores the hours.
func (h *Handler) CancelLeave(w http.ResponseWriter, r *http.Request) {
	id := ledger.LeaveID(chi.URLParam(r, "id"))

	if err := h.Ledger.CancelLeaveRequest(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

// =============================================================================
// DASHBOARD / OPTIONS
// =============================================================================

// DashboardStats returns the headcount/attendance snapshot for today.
func (h *Handler) DashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Projection.Stats(r.Context(), ledger.Today())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute dashboard stats", err)
		return
	}

	writeJSON(w, http.StatusOK, StatsDTO{
		TotalEmployees:     stats.TotalEmployees,
		AvailableEmployees: stats.AvailableEmployees,
		EmployeesOnLeave:   stats.EmployeesOnLeave,
		CurrentLeaves:      stats.CurrentLeaves,
		AttendanceRate:     stats.AttendanceRate,
	})
}

// Options serves the static form options for the frontend.
func (h *Handler) Options(w http.ResponseWriter, r *http.Request) {
	contracts := make([]ContractOptionDTO, 0, len(ledger.ContractTypes()))
	for _, c := range ledger.ContractTypes() {
		contracts = append(contracts, ContractOptionDTO{
			ContractType:      string(c),
			DefaultLeaveHours: c.DefaultLeaveHours(),
		})
	}

	types := make([]string, 0, len(ledger.LeaveTypes()))
	for _, t := range ledger.LeaveTypes() {
		types = append(types, string(t))
	}

	writeJSON(w, http.StatusOK, OptionsDTO{ContractTypes: contracts, LeaveTypes: types})
}

// =============================================================================
// HELPERS
// =============================================================================

// employeeName resolves a name for response enrichment; lookups that fail
// just leave the name blank rather than failing the whole response.
func (h *Handler) employeeName(r *http.Request, id ledger.EmployeeID) string {
	emp, err := h.Registry.GetEmployee(r.Context(), id)
	if err != nil {
		return ""
	}
	return emp.Name
}

func (h *Handler) toLeaveDTOs(r *http.Request, leaves []ledger.LeaveRequest) []LeaveDTO {
	names := make(map[ledger.EmployeeID]string)
	if employees, err := h.Registry.ListEmployees(r.Context()); err == nil {
		for _, e := range employees {
			names[e.ID] = e.Name
		}
	}

	dtos := make([]LeaveDTO, len(leaves))
	for i, req := range leaves {
		dtos[i] = toLeaveDTO(req, names[req.EmployeeID])
	}
	return dtos
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Error = fmt.Sprintf("%s: %v", message, err)
	}
	writeJSON(w, status, resp)
}

// writeDomainError maps ledger rejection kinds to HTTP statuses and codes.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := "internal"

	switch {
	case ledger.IsNotFound(err):
		status = http.StatusNotFound
		code = "not_found"
	case errors.Is(err, ledger.ErrOverlappingLeave):
		status = http.StatusConflict
		code = "overlapping_leave"
	case errors.Is(err, ledger.ErrInsufficientBalance):
		status = http.StatusConflict
		code = "insufficient_balance"
	case errors.Is(err, ledger.ErrAlreadyCancelled):
		status = http.StatusConflict
		code = "already_cancelled"
	case errors.Is(err, ledger.ErrInvalidDateRange):
		status = http.StatusBadRequest
		code = "invalid_date_range"
	case errors.Is(err, ledger.ErrInvalidEmployee):
		status = http.StatusBadRequest
		code = "invalid_employee"
	case errors.Is(err, ledger.ErrInvalidHours):
		status = http.StatusBadRequest
		code = "invalid_hours"
	}

	writeJSON(w, status, ErrorResponse{Error: err.Error(), Code: code})
}
