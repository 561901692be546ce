package employee

import (
	"context"
)

// EmployeeService defines directory operations exposed over HTTP.
type EmployeeService interface {
	// CreateEmployee registers a directory record (HR only)
	CreateEmployee(ctx context.Context, req CreateEmployeeRequest) (EmployeeResponse, error)

	// GetEmployee retrieves a single employee by ID
	GetEmployee(ctx context.Context, id string) (EmployeeResponse, error)

	// UpdateShift sets the employee's shift hours (HR only)
	UpdateShift(ctx context.Context, req UpdateShiftRequest) (EmployeeResponse, error)
}
