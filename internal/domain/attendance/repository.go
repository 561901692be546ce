package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
type AttendanceRepository interface {
	// Create inserts a checked-in record. A second record for the same
	// (employee, date) must fail with ErrAlreadyCheckedIn.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByEmployeeAndDate returns nil when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// CheckOut writes the check-out columns only while check_out_time is
	// still null; otherwise it returns ErrAlreadyCheckedOut.
	CheckOut(ctx context.Context, attendance Attendance) error

	// ListByEmployee returns records in [from, to], newest first.
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)
}
