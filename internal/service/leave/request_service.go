package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow/internal/domain/notification"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/database"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/worktime"
)

// RequestService drives a leave request from pending to a terminal state.
// The status change is the core transition; balance and notification
// updates that follow it are best-effort and reported as warnings.
type RequestService struct {
	tx database.Transactor
	leave.LeaveTypeRepository
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	balances leave.BalanceService
	notifier notification.Notifier
	engine   *worktime.Engine
}

func NewRequestService(
	tx database.Transactor,
	leaveTypeRepository leave.LeaveTypeRepository,
	leaveRequestRepository leave.LeaveRequestRepository,
	employeeRepository employee.EmployeeRepository,
	balances leave.BalanceService,
	notifier notification.Notifier,
	engine *worktime.Engine,
) *RequestService {
	return &RequestService{
		tx:                     tx,
		LeaveTypeRepository:    leaveTypeRepository,
		LeaveRequestRepository: leaveRequestRepository,
		EmployeeRepository:     employeeRepository,
		balances:               balances,
		notifier:               notifier,
		engine:                 engine,
	}
}

// Submit implements leave.RequestService.
func (r *RequestService) Submit(ctx context.Context, req leave.SubmitLeaveRequest) (leave.Outcome, error) {
	if err := req.Validate(); err != nil {
		return leave.Outcome{}, err
	}

	startDate, err := r.engine.ParseDate(req.StartDate)
	if err != nil {
		return leave.Outcome{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	endDate, err := r.engine.ParseDate(req.EndDate)
	if err != nil {
		return leave.Outcome{}, fmt.Errorf("failed to parse end date: %w", err)
	}
	if endDate.Before(startDate) {
		return leave.Outcome{}, leave.ErrInvalidDateRange
	}

	emp, err := r.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return leave.Outcome{}, err
		}
		return leave.Outcome{}, fmt.Errorf("failed to get employee: %w", err)
	}

	leaveType, err := r.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeNotFound) {
			return leave.Outcome{}, err
		}
		return leave.Outcome{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return leave.Outcome{}, fmt.Errorf("failed to generate leave request id: %w", err)
	}

	now := r.engine.NowUTC()
	today := r.engine.LocalDate(now)
	request := leave.LeaveRequest{
		ID:          id.String(),
		EmployeeID:  emp.ID,
		LeaveTypeID: leaveType.ID,
		StartDate:   startDate,
		EndDate:     endDate,
		DayType:     req.DayType,
		TotalDays:   req.TotalDays,
		Reason:      strings.TrimSpace(req.Reason),
		Status:      leave.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var created leave.LeaveRequest
	err = r.tx.WithinTx(ctx, func(txCtx context.Context) error {
		if err := r.LeaveRequestRepository.LockEmployee(txCtx, emp.ID); err != nil {
			return fmt.Errorf("failed to lock employee leave requests: %w", err)
		}

		active, err := r.LeaveRequestRepository.FindActive(txCtx, emp.ID, today)
		if err != nil {
			return fmt.Errorf("failed to check active leave request: %w", err)
		}
		if active != nil {
			return &leave.ActiveRequestError{RequestID: active.ID, Status: active.Status}
		}

		created, err = r.LeaveRequestRepository.Create(txCtx, request)
		if err != nil {
			return fmt.Errorf("failed to create leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.Outcome{}, err
	}

	outcome := leave.Outcome{Request: created}

	hrAdmins, err := r.EmployeeRepository.ListIDsByRole(ctx, employee.RoleHRAdmin)
	if err != nil {
		r.warn(&outcome, leave.SideEffectNotification, fmt.Errorf("failed to list hr admins: %w", err))
		return outcome, nil
	}
	notice := notification.Notice{
		Kind:              notification.KindLeaveSubmitted,
		Title:             "New leave request",
		Description:       fmt.Sprintf("%s requested %s from %s to %s", emp.FullName, leaveType.Name, worktime.FormatDate(startDate), worktime.FormatDate(endDate)),
		RelatedEntityType: notification.EntityLeaveRequest,
		RelatedEntityID:   created.ID,
	}
	var failed []error
	for _, adminID := range hrAdmins {
		notice.UserID = adminID
		if err := r.notifier.Notify(ctx, notice); err != nil {
			failed = append(failed, fmt.Errorf("notify %s: %w", adminID, err))
		}
	}
	if len(failed) > 0 {
		r.warn(&outcome, leave.SideEffectNotification, errors.Join(failed...))
	}

	return outcome, nil
}

// Cancel implements leave.RequestService. Only the owner may cancel, and only
// while the request is pending.
func (r *RequestService) Cancel(ctx context.Context, requestID, employeeID string) (leave.Outcome, error) {
	if _, err := r.getRequest(ctx, requestID); err != nil {
		return leave.Outcome{}, err
	}

	updated, err := r.LeaveRequestRepository.Transition(ctx, leave.StatusTransition{
		RequestID: requestID,
		From:      leave.StatusPending,
		To:        leave.StatusCancelled,
		OwnerID:   &employeeID,
		UpdatedAt: r.engine.NowUTC(),
	})
	if err != nil {
		return leave.Outcome{}, r.transitionError(err)
	}

	return leave.Outcome{Request: updated}, nil
}

// Approve implements leave.RequestService.
func (r *RequestService) Approve(ctx context.Context, requestID, approverID string) (leave.Outcome, error) {
	if _, err := r.getRequest(ctx, requestID); err != nil {
		return leave.Outcome{}, err
	}

	now := r.engine.NowUTC()
	updated, err := r.LeaveRequestRepository.Transition(ctx, leave.StatusTransition{
		RequestID:  requestID,
		From:       leave.StatusPending,
		To:         leave.StatusApproved,
		ApprovedBy: &approverID,
		ApprovedAt: &now,
		UpdatedAt:  now,
	})
	if err != nil {
		return leave.Outcome{}, r.transitionError(err)
	}

	outcome := leave.Outcome{Request: updated}

	// The approval stands even when the balance row is missing.
	err = r.balances.ApplyApproval(ctx, leave.ApplyApprovalRequest{
		EmployeeID:  updated.EmployeeID,
		LeaveTypeID: updated.LeaveTypeID,
		Year:        r.engine.YearOf(now),
		Days:        updated.TotalDays,
	})
	if err != nil {
		r.warn(&outcome, leave.SideEffectBalance, err)
	}

	r.notifyEmployee(ctx, &outcome, notification.Notice{
		UserID:            updated.EmployeeID,
		Kind:              notification.KindLeaveApproved,
		Title:             "Leave request approved",
		Description:       fmt.Sprintf("Your %s from %s to %s has been approved", r.leaveTypeName(ctx, updated.LeaveTypeID), worktime.FormatDate(updated.StartDate), worktime.FormatDate(updated.EndDate)),
		RelatedEntityType: notification.EntityLeaveRequest,
		RelatedEntityID:   updated.ID,
	})

	return outcome, nil
}

// Reject implements leave.RequestService.
func (r *RequestService) Reject(ctx context.Context, req leave.RejectLeaveRequest) (leave.Outcome, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return leave.Outcome{}, leave.ErrMissingReason
	}

	if _, err := r.getRequest(ctx, req.RequestID); err != nil {
		return leave.Outcome{}, err
	}

	now := r.engine.NowUTC()
	updated, err := r.LeaveRequestRepository.Transition(ctx, leave.StatusTransition{
		RequestID:       req.RequestID,
		From:            leave.StatusPending,
		To:              leave.StatusRejected,
		ApprovedBy:      &req.ApproverID,
		ApprovedAt:      &now,
		RejectionReason: &reason,
		UpdatedAt:       now,
	})
	if err != nil {
		return leave.Outcome{}, r.transitionError(err)
	}

	outcome := leave.Outcome{Request: updated}
	r.notifyEmployee(ctx, &outcome, notification.Notice{
		UserID:            updated.EmployeeID,
		Kind:              notification.KindLeaveRejected,
		Title:             "Leave request rejected",
		Description:       fmt.Sprintf("Your %s from %s to %s was rejected: %s", r.leaveTypeName(ctx, updated.LeaveTypeID), worktime.FormatDate(updated.StartDate), worktime.FormatDate(updated.EndDate), reason),
		RelatedEntityType: notification.EntityLeaveRequest,
		RelatedEntityID:   updated.ID,
	})

	return outcome, nil
}

// GetRequest implements leave.RequestService.
func (r *RequestService) GetRequest(ctx context.Context, requestID string) (leave.LeaveRequest, error) {
	return r.getRequest(ctx, requestID)
}

// ListMyRequests implements leave.RequestService.
func (r *RequestService) ListMyRequests(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	requests, err := r.LeaveRequestRepository.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return requests, nil
}

// ListRequests implements leave.RequestService.
func (r *RequestService) ListRequests(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var status *leave.RequestStatus
	if filter.Status != nil && *filter.Status != "" {
		s := leave.RequestStatus(*filter.Status)
		status = &s
	}

	requests, err := r.LeaveRequestRepository.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return requests, nil
}

func (r *RequestService) getRequest(ctx context.Context, requestID string) (leave.LeaveRequest, error) {
	request, err := r.LeaveRequestRepository.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequest{}, err
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return request, nil
}

func (r *RequestService) transitionError(err error) error {
	if errors.Is(err, leave.ErrInvalidTransition) {
		return err
	}
	return fmt.Errorf("failed to update leave request: %w", err)
}

func (r *RequestService) leaveTypeName(ctx context.Context, leaveTypeID string) string {
	leaveType, err := r.LeaveTypeRepository.GetByID(ctx, leaveTypeID)
	if err != nil {
		return "leave"
	}
	return leaveType.Name
}

func (r *RequestService) notifyEmployee(ctx context.Context, outcome *leave.Outcome, notice notification.Notice) {
	if err := r.notifier.Notify(ctx, notice); err != nil {
		r.warn(outcome, leave.SideEffectNotification, err)
	}
}

func (r *RequestService) warn(outcome *leave.Outcome, sideEffect string, err error) {
	slog.Warn("Leave request side effect failed",
		"request_id", outcome.Request.ID,
		"side_effect", sideEffect,
		"error", err,
	)
	outcome.Warn(sideEffect, err)
}
