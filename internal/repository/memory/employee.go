package memory

import (
	"context"
	"sort"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/employee"
)

type employeeRepository struct {
	*Store
}

func NewEmployeeRepository(s *Store) employee.EmployeeRepository {
	return &employeeRepository{Store: s}
}

func (r *employeeRepository) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepository) ListIDs(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.employees))
	for id := range r.employees {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *employeeRepository) ListIDsByRole(ctx context.Context, role employee.Role) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for id, e := range r.employees {
		if e.Role == role {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *employeeRepository) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.employees[newEmployee.ID] = newEmployee
	return newEmployee, nil
}

func (r *employeeRepository) UpdateShift(ctx context.Context, id string, shift employee.ShiftSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.employees[id]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	start, end := shift.StartHour, shift.EndHour
	e.ShiftStartHour = &start
	e.ShiftEndHour = &end
	r.employees[id] = e
	return nil
}
