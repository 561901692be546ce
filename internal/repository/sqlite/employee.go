package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/employee"
)

type employeeRepository struct {
	*Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{Store: s}
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	query := `
		SELECT id, full_name, role, shift_start_hour, shift_end_hour, created_at, updated_at
		FROM employees
		WHERE id = ?
	`
	var emp employee.Employee
	err := r.querier(ctx).QueryRowContext(ctx, query, id).Scan(
		&emp.ID,
		&emp.FullName,
		&emp.Role,
		&emp.ShiftStartHour,
		&emp.ShiftEndHour,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp, nil
}

func (r *employeeRepository) ListIDs(ctx context.Context) ([]string, error) {
	return r.listIDs(ctx, `SELECT id FROM employees ORDER BY id`)
}

func (r *employeeRepository) ListIDsByRole(ctx context.Context, role employee.Role) ([]string, error) {
	return r.listIDs(ctx, `SELECT id FROM employees WHERE role = ? ORDER BY id`, string(role))
}

func (r *employeeRepository) listIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	query := `
		INSERT INTO employees (id, full_name, role, shift_start_hour, shift_end_hour, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.querier(ctx).ExecContext(ctx, query,
		newEmployee.ID,
		newEmployee.FullName,
		string(newEmployee.Role),
		newEmployee.ShiftStartHour,
		newEmployee.ShiftEndHour,
		newEmployee.CreatedAt.UTC(),
		newEmployee.UpdatedAt.UTC(),
	)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return newEmployee, nil
}

func (r *employeeRepository) UpdateShift(ctx context.Context, id string, shift employee.ShiftSchedule) error {
	res, err := r.querier(ctx).ExecContext(ctx,
		`UPDATE employees SET shift_start_hour = ?, shift_end_hour = ? WHERE id = ?`,
		shift.StartHour, shift.EndHour, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update shift: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
