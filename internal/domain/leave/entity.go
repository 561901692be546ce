package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnlimitedRemaining is reported for leave types without a yearly cap.
var UnlimitedRemaining = decimal.NewFromInt(999)

// LeaveType entity
type LeaveType struct {
	ID             string
	Name           string
	MaxDaysPerYear *int // nil = unlimited
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (t LeaveType) IsUnlimited() bool {
	return t.MaxDaysPerYear == nil
}

// LeaveBalance entity, one row per (employee, leave type, year)
type LeaveBalance struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	Year        int
	Allocated   decimal.Decimal
	Used        decimal.Decimal
	Balance     decimal.Decimal // Allocated - Used
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type DayType string

const (
	DayTypeFull DayType = "full"
	DayTypeHalf DayType = "half"
)

func (d DayType) IsValid() bool {
	return d == DayTypeFull || d == DayTypeHalf
}

type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
)

func (s RequestStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition may leave s.
func (s RequestStatus) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCancelled
}

// ActiveStatuses block a new submission while the request has not ended.
var ActiveStatuses = []RequestStatus{StatusPending, StatusApproved}

// LeaveRequest entity. StartDate and EndDate are civil dates at 00:00 UTC.
type LeaveRequest struct {
	ID              string
	EmployeeID      string
	LeaveTypeID     string
	StartDate       time.Time
	EndDate         time.Time
	DayType         DayType
	TotalDays       decimal.Decimal
	Reason          string
	Status          RequestStatus
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// StatusTransition is a compare-and-set on a request's status.
// OwnerID, when set, restricts the update to that employee's request.
type StatusTransition struct {
	RequestID       string
	From            RequestStatus
	To              RequestStatus
	OwnerID         *string
	ApprovedBy      *string
	ApprovedAt      *time.Time
	RejectionReason *string
	UpdatedAt       time.Time
}

// SideEffectWarning records a best-effort step that failed after the
// request's transition was already persisted.
type SideEffectWarning struct {
	SideEffect string
	Err        error
}

const (
	SideEffectBalance      = "balance"
	SideEffectNotification = "notification"
)

// Outcome is the result of a workflow operation whose core transition succeeded.
type Outcome struct {
	Request  LeaveRequest
	Warnings []SideEffectWarning
}

func (o *Outcome) Warn(sideEffect string, err error) {
	o.Warnings = append(o.Warnings, SideEffectWarning{SideEffect: sideEffect, Err: err})
}
