package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn records the employee's arrival for today
	CheckIn(ctx context.Context, employeeID string) (AttendanceResponse, error)

	// CheckOut finalizes today's record
	CheckOut(ctx context.Context, employeeID string) (AttendanceResponse, error)

	// GetTodaysAttendance returns nil when the employee has no record today
	GetTodaysAttendance(ctx context.Context, employeeID string) (*AttendanceResponse, error)

	// ListMyAttendance returns the employee's own history
	ListMyAttendance(ctx context.Context, filter MyAttendanceFilter) ([]AttendanceResponse, error)
}
