/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

VALIDATION:
  Validation is done in handlers and the domain layer, not in DTOs.
  DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: uses these types
*/
package api

import (
	"time"

	"github.com/warp/leave-ledger/ledger"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// EmployeeDTO represents an employee in API responses. Remaining hours are
// derived server-side so clients never compute balances themselves.
type EmployeeDTO struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	StartDate           string `json:"start_date"`
	ContractType        string `json:"contract_type"`
	TotalLeaveHours     int    `json:"total_leave_hours"`
	UsedLeaveHours      int    `json:"used_leave_hours"`
	RemainingLeaveHours int    `json:"remaining_leave_hours"`
	CreatedAt           string `json:"created_at,omitempty"`
}

// CreateEmployeeRequest is the request to create an employee. When
// TotalLeaveHours is omitted, the contract type's recommended default
// (200/160/120) is used as a pre-fill.
type CreateEmployeeRequest struct {
	Name            string `json:"name"`
	StartDate       string `json:"start_date"`
	ContractType    string `json:"contract_type"`
	TotalLeaveHours *int   `json:"total_leave_hours,omitempty"`
}

// LeaveDTO represents a leave request, enriched with the employee name.
type LeaveDTO struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name,omitempty"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	HoursCount   int    `json:"hours_count"`
	LeaveType    string `json:"leave_type"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at,omitempty"`
}

// CreateLeaveRequest is the request to create a leave request.
type CreateLeaveRequest struct {
	EmployeeID string `json:"employee_id"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	HoursCount int    `json:"hours_count"`
	LeaveType  string `json:"leave_type,omitempty"`
}

// AdjustBalanceRequest is the administrative override of both counters.
type AdjustBalanceRequest struct {
	TotalLeaveHours int `json:"total_leave_hours"`
	UsedLeaveHours  int `json:"used_leave_hours"`
}

// StatsDTO is the dashboard snapshot.
type StatsDTO struct {
	TotalEmployees     int `json:"total_employees"`
	AvailableEmployees int `json:"available_employees"`
	EmployeesOnLeave   int `json:"employees_on_leave"`
	CurrentLeaves      int `json:"current_leaves"`
	AttendanceRate     int `json:"attendance_rate"`
}

// ContractOptionDTO is a static form option for employee creation.
type ContractOptionDTO struct {
	ContractType      string `json:"contract_type"`
	DefaultLeaveHours int    `json:"default_leave_hours"`
}

// OptionsDTO carries the static form options.
type OptionsDTO struct {
	ContractTypes []ContractOptionDTO `json:"contract_types"`
	LeaveTypes    []string            `json:"leave_types"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toEmployeeDTO(e ledger.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:                  string(e.ID),
		Name:                e.Name,
		StartDate:           e.StartDate.String(),
		ContractType:        string(e.Contract),
		TotalLeaveHours:     e.TotalHours,
		UsedLeaveHours:      e.UsedHours,
		RemainingLeaveHours: e.RemainingHours(),
		CreatedAt:           e.CreatedAt.Format(time.RFC3339),
	}
}

func toLeaveDTO(r ledger.LeaveRequest, employeeName string) LeaveDTO {
	return LeaveDTO{
		ID:           string(r.ID),
		EmployeeID:   string(r.EmployeeID),
		EmployeeName: employeeName,
		StartDate:    r.Start.String(),
		EndDate:      r.End.String(),
		HoursCount:   r.Hours,
		LeaveType:    string(r.Type),
		Status:       string(r.Status),
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
	}
}
