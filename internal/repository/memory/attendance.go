package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/attendance"
)

type attendanceRepository struct {
	*Store
}

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepository{Store: s}
}

// Create checks for an existing (employee, date) row under the write lock,
// which stands in for the unique index of the SQL stores.
func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.attendances {
		if existing.EmployeeID == a.EmployeeID && existing.Date.Equal(a.Date) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
	}
	r.attendances[a.ID] = a
	return a, nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.attendances {
		if a.EmployeeID == employeeID && a.Date.Equal(date) {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

func (r *attendanceRepository) CheckOut(ctx context.Context, a attendance.Attendance) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.attendances[a.ID]
	if !ok {
		return attendance.ErrAttendanceNotFound
	}
	if current.CheckOutTime != nil {
		return attendance.ErrAlreadyCheckedOut
	}
	current.CheckOutTime = a.CheckOutTime
	current.CheckOutStatus = a.CheckOutStatus
	current.TotalHours = a.TotalHours
	current.OvertimeHours = a.OvertimeHours
	current.UpdatedAt = a.UpdatedAt
	r.attendances[a.ID] = current
	return nil
}

func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []attendance.Attendance
	for _, a := range r.attendances {
		if a.EmployeeID != employeeID || a.Date.Before(from) || a.Date.After(to) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}
