package leave

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// LeaveTypeRepository - interface for leave_types table
type LeaveTypeRepository interface {
	Create(ctx context.Context, leaveType LeaveType) (LeaveType, error)
	GetByID(ctx context.Context, id string) (LeaveType, error)
	List(ctx context.Context) ([]LeaveType, error)
}

// LeaveBalanceRepository - interface for leave_balances table
type LeaveBalanceRepository interface {
	// Get returns nil when no row exists for the key.
	Get(ctx context.Context, employeeID, leaveTypeID string, year int) (*LeaveBalance, error)
	ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]LeaveBalance, error)

	// UpsertAllocation sets allocated and recomputes balance, keeping used.
	UpsertAllocation(ctx context.Context, balance LeaveBalance) (LeaveBalance, error)

	// InsertIfMissing creates the row with used = 0 unless the key already
	// exists. It reports whether a row was inserted and never touches an
	// existing row.
	InsertIfMissing(ctx context.Context, balance LeaveBalance) (bool, error)

	// IncrementUsed adds days to used and subtracts them from balance in a
	// single statement. Returns ErrBalanceNotFound when the row is missing.
	IncrementUsed(ctx context.Context, employeeID, leaveTypeID string, year int, days decimal.Decimal) error
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	List(ctx context.Context, status *RequestStatus) ([]LeaveRequest, error)

	// LockEmployee serialises submissions for one employee until the
	// surrounding transaction ends.
	LockEmployee(ctx context.Context, employeeID string) error

	// FindActive returns the employee's pending or approved request whose
	// end date is on or after today, or nil.
	FindActive(ctx context.Context, employeeID string, today time.Time) (*LeaveRequest, error)

	// Transition applies t only while the request is still in t.From.
	// Returns ErrInvalidTransition when no row matched.
	Transition(ctx context.Context, t StatusTransition) (LeaveRequest, error)
}
