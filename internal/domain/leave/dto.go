package leave

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-workflow/internal/pkg/validator"
)

type CreateLeaveTypeRequest struct {
	Name           string `json:"name"`
	MaxDaysPerYear *int   `json:"max_days_per_year,omitempty"`
}

func (r *CreateLeaveTypeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs.Add("name", "name is required")
	}
	if len(r.Name) > 255 {
		errs.Add("name", "name must not exceed 255 characters")
	}
	if r.MaxDaysPerYear != nil && *r.MaxDaysPerYear < 0 {
		errs.Add("max_days_per_year", "max_days_per_year must not be negative")
	}

	return errs.Err()
}

type LeaveTypeResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	MaxDaysPerYear *int   `json:"max_days_per_year"`
}

func ToLeaveTypeResponse(t LeaveType) LeaveTypeResponse {
	return LeaveTypeResponse{
		ID:             t.ID,
		Name:           t.Name,
		MaxDaysPerYear: t.MaxDaysPerYear,
	}
}

// BalanceView is the ledger state for one (employee, leave type, year).
type BalanceView struct {
	EmployeeID  string          `json:"employee_id"`
	LeaveTypeID string          `json:"leave_type_id"`
	Year        int             `json:"year"`
	Allocated   decimal.Decimal `json:"allocated"`
	Used        decimal.Decimal `json:"used"`
	Remaining   decimal.Decimal `json:"remaining"`
}

type SetAllocationRequest struct {
	EmployeeID  string          `json:"employee_id"`
	LeaveTypeID string          `json:"leave_type_id"`
	Year        int             `json:"year"`
	Allocated   decimal.Decimal `json:"allocated"`
}

func (r *SetAllocationRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(r.LeaveTypeID) {
		errs.Add("leave_type_id", "leave_type_id is required")
	}
	if r.Year <= 0 {
		errs.Add("year", "year must be a positive integer")
	}
	if r.Allocated.IsNegative() {
		errs.Add("allocated", "allocated must not be negative")
	} else if !validator.FitsNumeric(r.Allocated, 6, 2) {
		errs.Add("allocated", "allocated must be below 10000 with at most 2 decimal places")
	}

	return errs.Err()
}

type ApplyApprovalRequest struct {
	EmployeeID  string
	LeaveTypeID string
	Year        int
	Days        decimal.Decimal
}

type SubmitLeaveRequest struct {
	EmployeeID  string          `json:"-"`
	LeaveTypeID string          `json:"leave_type_id"`
	StartDate   string          `json:"start_date"` // YYYY-MM-DD
	EndDate     string          `json:"end_date"`   // YYYY-MM-DD
	DayType     DayType         `json:"day_type"`
	TotalDays   decimal.Decimal `json:"total_days"`
	Reason      string          `json:"reason"`
}

func (r *SubmitLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(r.LeaveTypeID) {
		errs.Add("leave_type_id", "leave_type_id is required")
	}
	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
	}
	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
	}
	if !r.DayType.IsValid() {
		errs.Add("day_type", "day_type must be one of: full, half")
	}
	if !validator.IsPositive(r.TotalDays) {
		errs.Add("total_days", "total_days must be greater than zero")
	} else if !validator.FitsNumeric(r.TotalDays, 6, 2) {
		errs.Add("total_days", "total_days must be below 10000 with at most 2 decimal places")
	}
	if len(r.Reason) > 1000 {
		errs.Add("reason", "reason must not exceed 1000 characters")
	}

	return errs.Err()
}

type RejectLeaveRequest struct {
	RequestID  string `json:"-"`
	ApproverID string `json:"-"`
	Reason     string `json:"reason"`
}

type LeaveRequestFilter struct {
	Status *string `json:"status,omitempty"`
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && *f.Status != "" && !RequestStatus(*f.Status).IsValid() {
		errs.Add("status", "status must be one of: pending, approved, rejected, cancelled")
	}

	return errs.Err()
}

type LeaveRequestResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	LeaveTypeID     string          `json:"leave_type_id"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	DayType         DayType         `json:"day_type"`
	TotalDays       decimal.Decimal `json:"total_days"`
	Reason          string          `json:"reason"`
	Status          RequestStatus   `json:"status"`
	ApprovedBy      *string         `json:"approved_by,omitempty"`
	ApprovedAt      *string         `json:"approved_at,omitempty"`
	RejectionReason *string         `json:"rejection_reason,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

func ToLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		LeaveTypeID:     r.LeaveTypeID,
		StartDate:       r.StartDate.Format("2006-01-02"),
		EndDate:         r.EndDate.Format("2006-01-02"),
		DayType:         r.DayType,
		TotalDays:       r.TotalDays,
		Reason:          r.Reason,
		Status:          r.Status,
		ApprovedBy:      r.ApprovedBy,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt.UTC().Format(time.RFC3339),
	}
	if r.ApprovedAt != nil {
		s := r.ApprovedAt.UTC().Format(time.RFC3339)
		resp.ApprovedAt = &s
	}
	return resp
}

type WarningResponse struct {
	SideEffect string `json:"side_effect"`
	Message    string `json:"message"`
}

type OutcomeResponse struct {
	Request  LeaveRequestResponse `json:"request"`
	Warnings []WarningResponse    `json:"warnings,omitempty"`
}

// warningMessage is the client-facing text for a failed side effect. The
// underlying cause is only logged.
func warningMessage(sideEffect string) string {
	switch sideEffect {
	case SideEffectBalance:
		return "Leave balance could not be updated"
	case SideEffectNotification:
		return "Notification could not be delivered"
	default:
		return "A follow-up step could not be completed"
	}
}

func ToOutcomeResponse(o Outcome) OutcomeResponse {
	resp := OutcomeResponse{Request: ToLeaveRequestResponse(o.Request)}
	for _, w := range o.Warnings {
		resp.Warnings = append(resp.Warnings, WarningResponse{
			SideEffect: w.SideEffect,
			Message:    warningMessage(w.SideEffect),
		})
	}
	return resp
}
