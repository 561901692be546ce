package employee

import (
	"time"
)

const (
	DefaultShiftStartHour = 9
	DefaultShiftEndHour   = 18
)

type Role string

const (
	RoleEmployee Role = "employee"
	RoleHRAdmin  Role = "hr_admin"
)

func (r Role) IsValid() bool {
	return r == RoleEmployee || r == RoleHRAdmin
}

type Employee struct {
	ID             string
	FullName       string
	Role           Role
	ShiftStartHour *int
	ShiftEndHour   *int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ShiftSchedule is the local-time working window used for attendance status.
type ShiftSchedule struct {
	StartHour int
	EndHour   int
}

// Length returns the nominal shift length in hours.
func (s ShiftSchedule) Length() int {
	return s.EndHour - s.StartHour
}

// Shift returns the employee's schedule, defaulting each unset hour.
func (e Employee) Shift() ShiftSchedule {
	shift := ShiftSchedule{StartHour: DefaultShiftStartHour, EndHour: DefaultShiftEndHour}
	if e.ShiftStartHour != nil {
		shift.StartHour = *e.ShiftStartHour
	}
	if e.ShiftEndHour != nil {
		shift.EndHour = *e.ShiftEndHour
	}
	return shift
}
