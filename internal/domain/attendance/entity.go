package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type CheckInStatus string

const (
	CheckInOnTime CheckInStatus = "ontime"
	CheckInLate   CheckInStatus = "late"
)

type CheckOutStatus string

const (
	CheckOutLeftEarly CheckOutStatus = "leftearly"
	CheckOutOnTime    CheckOutStatus = "ontime"
	CheckOutOvertime  CheckOutStatus = "overtime"
)

// Attendance is one employee's record for one calendar day.
// Date is the civil date in the application timezone at 00:00 UTC.
type Attendance struct {
	ID             string
	EmployeeID     string
	Date           time.Time
	CheckInTime    *time.Time
	CheckOutTime   *time.Time
	CheckInStatus  CheckInStatus
	CheckOutStatus *CheckOutStatus
	TotalHours     *decimal.Decimal
	OvertimeHours  *decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (a Attendance) HasCheckedIn() bool {
	return a.CheckInTime != nil
}

func (a Attendance) HasCheckedOut() bool {
	return a.CheckOutTime != nil
}
