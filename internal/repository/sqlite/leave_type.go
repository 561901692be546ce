package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/leave"
)

type leaveTypeRepository struct {
	*Store
}

func NewLeaveTypeRepository(s *Store) leave.LeaveTypeRepository {
	return &leaveTypeRepository{Store: s}
}

func (r *leaveTypeRepository) Create(ctx context.Context, leaveType leave.LeaveType) (leave.LeaveType, error) {
	query := `
		INSERT INTO leave_types (id, name, max_days_per_year, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.querier(ctx).ExecContext(ctx, query,
		leaveType.ID,
		leaveType.Name,
		leaveType.MaxDaysPerYear,
		leaveType.CreatedAt.UTC(),
		leaveType.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
		}
		return leave.LeaveType{}, fmt.Errorf("failed to create leave type: %w", err)
	}
	return leaveType, nil
}

func (r *leaveTypeRepository) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	query := `
		SELECT id, name, max_days_per_year, created_at, updated_at
		FROM leave_types
		WHERE id = ?
	`
	var t leave.LeaveType
	err := r.querier(ctx).QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.MaxDaysPerYear, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	return t, nil
}

func (r *leaveTypeRepository) List(ctx context.Context) ([]leave.LeaveType, error) {
	query := `
		SELECT id, name, max_days_per_year, created_at, updated_at
		FROM leave_types
		ORDER BY name
	`
	rows, err := r.querier(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	defer rows.Close()

	var types []leave.LeaveType
	for rows.Next() {
		var t leave.LeaveType
		if err := rows.Scan(&t.ID, &t.Name, &t.MaxDaysPerYear, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan leave type: %w", err)
		}
		types = append(types, t)
	}
	return types, rows.Err()
}
