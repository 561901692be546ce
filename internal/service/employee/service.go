package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/worktime"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	engine       *worktime.Engine
}

func NewEmployeeService(employeeRepo employee.EmployeeRepository, engine *worktime.Engine) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		engine:       engine,
	}
}

// CreateEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) CreateEmployee(ctx context.Context, req employee.CreateEmployeeRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to generate employee id: %w", err)
	}

	now := s.engine.NowUTC()
	created, err := s.employeeRepo.Create(ctx, employee.Employee{
		ID:             id.String(),
		FullName:       strings.TrimSpace(req.FullName),
		Role:           req.Role,
		ShiftStartHour: req.ShiftStartHour,
		ShiftEndHour:   req.ShiftEndHour,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return employee.EmployeeResponse{}, fmt.Errorf("failed to create employee: %w", err)
	}

	slog.Info("Created employee", "employee_id", created.ID, "role", string(created.Role))
	return employee.ToResponse(created), nil
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id string) (employee.EmployeeResponse, error) {
	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return employee.ToResponse(emp), nil
}

// UpdateShift implements employee.EmployeeService.
func (s *EmployeeServiceImpl) UpdateShift(ctx context.Context, req employee.UpdateShiftRequest) (employee.EmployeeResponse, error) {
	if err := req.Validate(); err != nil {
		return employee.EmployeeResponse{}, err
	}

	shift := employee.ShiftSchedule{StartHour: req.ShiftStartHour, EndHour: req.ShiftEndHour}
	if err := s.employeeRepo.UpdateShift(ctx, req.EmployeeID, shift); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.EmployeeResponse{}, err
		}
		return employee.EmployeeResponse{}, fmt.Errorf("failed to update shift: %w", err)
	}

	slog.Info("Updated employee shift",
		"employee_id", req.EmployeeID,
		"shift_start_hour", shift.StartHour,
		"shift_end_hour", shift.EndHour,
	)
	return s.GetEmployee(ctx, req.EmployeeID)
}
