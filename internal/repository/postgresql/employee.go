package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/database"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, full_name, role, shift_start_hour, shift_end_hour, created_at, updated_at
		FROM employees
		WHERE id = $1
	`
	var emp employee.Employee
	var startHour, endHour *int16
	err := q.QueryRow(ctx, query, id).Scan(
		&emp.ID,
		&emp.FullName,
		&emp.Role,
		&startHour,
		&endHour,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	emp.ShiftStartHour = widen(startHour)
	emp.ShiftEndHour = widen(endHour)
	return emp, nil
}

// ListIDs implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListIDs(ctx context.Context) ([]string, error) {
	return r.listIDs(ctx, `SELECT id FROM employees ORDER BY id`)
}

// ListIDsByRole implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListIDsByRole(ctx context.Context, role employee.Role) ([]string, error) {
	return r.listIDs(ctx, `SELECT id FROM employees WHERE role = $1 ORDER BY id`, string(role))
}

func (r *employeeRepositoryImpl) listIDs(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee ids: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to scan employee ids: %w", err)
	}
	return ids, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (id, full_name, role, shift_start_hour, shift_end_hour, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := q.Exec(ctx, query,
		newEmployee.ID,
		newEmployee.FullName,
		string(newEmployee.Role),
		newEmployee.ShiftStartHour,
		newEmployee.ShiftEndHour,
		newEmployee.CreatedAt,
		newEmployee.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return newEmployee, nil
}

// UpdateShift implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) UpdateShift(ctx context.Context, id string, shift employee.ShiftSchedule) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET shift_start_hour = $2, shift_end_hour = $3, updated_at = now()
		WHERE id = $1
	`
	commandTag, err := q.Exec(ctx, query, id, shift.StartHour, shift.EndHour)
	if err != nil {
		return fmt.Errorf("failed to update shift for employee %s: %w", id, err)
	}
	if commandTag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func widen(v *int16) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}
