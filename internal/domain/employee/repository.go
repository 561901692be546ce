package employee

import "context"

// EmployeeRepository is the read-mostly employee directory.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	ListIDs(ctx context.Context) ([]string, error)
	ListIDsByRole(ctx context.Context, role Role) ([]string, error)
	Create(ctx context.Context, newEmployee Employee) (Employee, error)
	UpdateShift(ctx context.Context, id string, shift ShiftSchedule) error
}
