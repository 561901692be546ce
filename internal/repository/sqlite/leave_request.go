package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/leave"
)

type leaveRequestRepository struct {
	*Store
}

func NewLeaveRequestRepository(s *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepository{Store: s}
}

const leaveRequestColumns = `
	id, employee_id, leave_type_id, start_date, end_date, day_type, total_days,
	reason, status, approved_by, approved_at, rejection_reason, created_at, updated_at
`

func scanLeaveRequest(row rowScanner) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID,
		&lr.EmployeeID,
		&lr.LeaveTypeID,
		&lr.StartDate,
		&lr.EndDate,
		&lr.DayType,
		&lr.TotalDays,
		&lr.Reason,
		&lr.Status,
		&lr.ApprovedBy,
		&lr.ApprovedAt,
		&lr.RejectionReason,
		&lr.CreatedAt,
		&lr.UpdatedAt,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	lr.StartDate = civilDate(lr.StartDate)
	lr.EndDate = civilDate(lr.EndDate)
	return lr, nil
}

func (r *leaveRequestRepository) queryRequests(ctx context.Context, query string, args ...any) ([]leave.LeaveRequest, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type_id,
			start_date, end_date, day_type, total_days,
			reason, status,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.querier(ctx).ExecContext(ctx, query,
		request.ID,
		request.EmployeeID,
		request.LeaveTypeID,
		civilDate(request.StartDate),
		civilDate(request.EndDate),
		string(request.DayType),
		request.TotalDays,
		request.Reason,
		string(request.Status),
		request.CreatedAt.UTC(),
		request.UpdatedAt.UTC(),
	)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to insert leave request: %w", err)
	}
	return request, nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = ?`
	lr, err := scanLeaveRequest(r.querier(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return lr, nil
}

func (r *leaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = ?
		ORDER BY created_at DESC, id DESC
	`
	requests, err := r.queryRequests(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return requests, nil
}

func (r *leaveRequestRepository) List(ctx context.Context, status *leave.RequestStatus) ([]leave.LeaveRequest, error) {
	var statusArg sql.NullString
	if status != nil {
		statusArg = sql.NullString{String: string(*status), Valid: true}
	}
	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE (? IS NULL OR status = ?)
		ORDER BY created_at DESC, id DESC
	`
	requests, err := r.queryRequests(ctx, query, statusArg, statusArg)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return requests, nil
}

// LockEmployee is a no-op: write transactions begin IMMEDIATE and SQLite
// allows a single writer.
func (r *leaveRequestRepository) LockEmployee(ctx context.Context, employeeID string) error {
	return nil
}

func (r *leaveRequestRepository) FindActive(ctx context.Context, employeeID string, today time.Time) (*leave.LeaveRequest, error) {
	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = ?
			AND status IN ('pending', 'approved')
			AND end_date >= ?
		ORDER BY created_at DESC
		LIMIT 1
	`
	lr, err := scanLeaveRequest(r.querier(ctx).QueryRowContext(ctx, query, employeeID, civilDate(today)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find active leave request: %w", err)
	}
	return &lr, nil
}

func (r *leaveRequestRepository) Transition(ctx context.Context, t leave.StatusTransition) (leave.LeaveRequest, error) {
	var owner sql.NullString
	if t.OwnerID != nil {
		owner = sql.NullString{String: *t.OwnerID, Valid: true}
	}

	var updated leave.LeaveRequest
	err := r.WithinTx(ctx, func(ctx context.Context) error {
		res, err := r.querier(ctx).ExecContext(ctx, `
			UPDATE leave_requests
			SET status = ?, approved_by = ?, approved_at = ?, rejection_reason = ?, updated_at = ?
			WHERE id = ? AND status = ? AND (? IS NULL OR employee_id = ?)
		`,
			string(t.To),
			t.ApprovedBy,
			utcPtr(t.ApprovedAt),
			t.RejectionReason,
			t.UpdatedAt.UTC(),
			t.RequestID,
			string(t.From),
			owner, owner,
		)
		if err != nil {
			return fmt.Errorf("failed to transition leave request: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return leave.ErrInvalidTransition
		}
		updated, err = r.GetByID(ctx, t.RequestID)
		return err
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return updated, nil
}
