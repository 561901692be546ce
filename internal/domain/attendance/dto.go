package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-workflow/internal/pkg/validator"
)

type AttendanceResponse struct {
	ID             string  `json:"id"`
	EmployeeID     string  `json:"employee_id"`
	Date           string  `json:"date"`
	CheckInTime    *string `json:"check_in_time,omitempty"`
	CheckOutTime   *string `json:"check_out_time,omitempty"`
	CheckInStatus  string  `json:"check_in_status"`
	CheckOutStatus *string `json:"check_out_status,omitempty"`
	TotalHours     *string `json:"total_hours,omitempty"`
	OvertimeHours  *string `json:"overtime_hours,omitempty"`
}

func ToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:            a.ID,
		EmployeeID:    a.EmployeeID,
		Date:          a.Date.Format("2006-01-02"),
		CheckInTime:   timePtrToString(a.CheckInTime),
		CheckOutTime:  timePtrToString(a.CheckOutTime),
		CheckInStatus: string(a.CheckInStatus),
	}
	if a.CheckOutStatus != nil {
		s := string(*a.CheckOutStatus)
		resp.CheckOutStatus = &s
	}
	if a.TotalHours != nil {
		s := a.TotalHours.StringFixed(2)
		resp.TotalHours = &s
	}
	if a.OvertimeHours != nil {
		s := a.OvertimeHours.StringFixed(2)
		resp.OvertimeHours = &s
	}
	return resp
}

// timePtrToString renders instants as RFC3339 UTC.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.UTC().Format(time.RFC3339)
	return &format
}

type MyAttendanceFilter struct {
	EmployeeID string  `json:"-"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD
}

func (f *MyAttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(f.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}

	var start, end time.Time
	var startOK, endOK bool
	if f.StartDate != nil && *f.StartDate != "" {
		if start, startOK = validator.IsValidDate(*f.StartDate); !startOK {
			errs.Add("start_date", "start_date must be in YYYY-MM-DD format")
		}
	}
	if f.EndDate != nil && *f.EndDate != "" {
		if end, endOK = validator.IsValidDate(*f.EndDate); !endOK {
			errs.Add("end_date", "end_date must be in YYYY-MM-DD format")
		}
	}
	if startOK && endOK && end.Before(start) {
		errs.Add("end_date", "end_date must not be before start_date")
	}

	return errs.Err()
}
