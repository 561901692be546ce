package leave

import (
	"context"
)

type LeaveTypeService interface {
	CreateLeaveType(ctx context.Context, req CreateLeaveTypeRequest) (LeaveTypeResponse, error)
	GetLeaveType(ctx context.Context, id string) (LeaveTypeResponse, error)
	ListLeaveTypes(ctx context.Context) ([]LeaveTypeResponse, error)
}

type BalanceService interface {
	GetBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (BalanceView, error)
	ListBalances(ctx context.Context, employeeID string, year int) ([]BalanceView, error)
	SetAllocation(ctx context.Context, req SetAllocationRequest) (BalanceView, error)
	ApplyApproval(ctx context.Context, req ApplyApprovalRequest) error

	// ProvisionYear creates the missing balance rows for year, allocating each
	// capped leave type's yearly maximum. Returns how many rows were created.
	ProvisionYear(ctx context.Context, employeeIDs []string, year int) (int, error)
}

type RequestService interface {
	Submit(ctx context.Context, req SubmitLeaveRequest) (Outcome, error)
	Cancel(ctx context.Context, requestID, employeeID string) (Outcome, error)
	Approve(ctx context.Context, requestID, approverID string) (Outcome, error)
	Reject(ctx context.Context, req RejectLeaveRequest) (Outcome, error)

	GetRequest(ctx context.Context, requestID string) (LeaveRequest, error)
	ListMyRequests(ctx context.Context, employeeID string) ([]LeaveRequest, error)
	ListRequests(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequest, error)
}
