package employee

import (
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/validator"
)

type CreateEmployeeRequest struct {
	FullName       string `json:"full_name"`
	Role           Role   `json:"role"`
	ShiftStartHour *int   `json:"shift_start_hour,omitempty"`
	ShiftEndHour   *int   `json:"shift_end_hour,omitempty"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs.Add("full_name", "full_name is required")
	}
	if len(r.FullName) > 255 {
		errs.Add("full_name", "full_name must not exceed 255 characters")
	}
	if !r.Role.IsValid() {
		errs.Add("role", "role must be one of: employee, hr_admin")
	}
	if (r.ShiftStartHour == nil) != (r.ShiftEndHour == nil) {
		errs.Add("shift_end_hour", "shift_start_hour and shift_end_hour must be set together")
	} else if r.ShiftStartHour != nil {
		validateShift(&errs, *r.ShiftStartHour, *r.ShiftEndHour)
	}

	return errs.Err()
}

func validateShift(errs *validator.ValidationErrors, start, end int) {
	if !validator.IsHour(start) {
		errs.Add("shift_start_hour", "shift_start_hour must be between 0 and 23")
	}
	if !validator.IsHour(end) {
		errs.Add("shift_end_hour", "shift_end_hour must be between 0 and 23")
	}
	if validator.IsHour(start) && validator.IsHour(end) && end <= start {
		errs.Add("shift_end_hour", "shift_end_hour must be after shift_start_hour")
	}
}

type UpdateShiftRequest struct {
	EmployeeID     string `json:"-"`
	ShiftStartHour int    `json:"shift_start_hour"`
	ShiftEndHour   int    `json:"shift_end_hour"`
}

func (r *UpdateShiftRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	validateShift(&errs, r.ShiftStartHour, r.ShiftEndHour)

	return errs.Err()
}

type EmployeeResponse struct {
	ID             string `json:"id"`
	FullName       string `json:"full_name"`
	Role           string `json:"role"`
	ShiftStartHour int    `json:"shift_start_hour"`
	ShiftEndHour   int    `json:"shift_end_hour"`
}

func ToResponse(e Employee) EmployeeResponse {
	shift := e.Shift()
	return EmployeeResponse{
		ID:             e.ID,
		FullName:       e.FullName,
		Role:           string(e.Role),
		ShiftStartHour: shift.StartHour,
		ShiftEndHour:   shift.EndHour,
	}
}
