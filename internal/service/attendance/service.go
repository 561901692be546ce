package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workflow/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/worktime"
)

// DefaultTolerance is the grace window after a shift boundary.
const DefaultTolerance = time.Minute

var millisPerHour = decimal.NewFromInt(int64(time.Hour / time.Millisecond))

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	engine    *worktime.Engine
	tolerance time.Duration
}

// checkInStatus is the decision table for arrivals.
func checkInStatus(b worktime.Boundary) attendance.CheckInStatus {
	if b == worktime.After {
		return attendance.CheckInLate
	}
	return attendance.CheckInOnTime
}

// checkOutStatus is the decision table for departures.
func checkOutStatus(b worktime.Boundary) attendance.CheckOutStatus {
	switch b {
	case worktime.Before:
		return attendance.CheckOutLeftEarly
	case worktime.WithinTolerance:
		return attendance.CheckOutOnTime
	default:
		return attendance.CheckOutOvertime
	}
}

// workedHours returns the elapsed time in hours rounded to 2 places.
func workedHours(from, to time.Time) decimal.Decimal {
	return decimal.NewFromInt(to.Sub(from).Milliseconds()).Div(millisPerHour).Round(2)
}

// overtimeHours is total minus the nominal shift length, floored at zero.
func overtimeHours(total decimal.Decimal, shift employee.ShiftSchedule) decimal.Decimal {
	overtime := total.Sub(decimal.NewFromInt(int64(shift.Length())))
	if overtime.IsNegative() {
		return decimal.Zero.Round(2)
	}
	return overtime.Round(2)
}

func (a *AttendanceServiceImpl) shiftFor(ctx context.Context, employeeID string) (employee.ShiftSchedule, error) {
	emp, err := a.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.ShiftSchedule{}, err
		}
		return employee.ShiftSchedule{}, fmt.Errorf("failed to get employee: %w", err)
	}
	return emp.Shift(), nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	nowUTC := a.engine.NowUTC()
	today := a.engine.LocalDate(nowUTC)

	shift, err := a.shiftFor(ctx, employeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	existing, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing != nil && existing.HasCheckedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}

	boundary := a.engine.CompareToShiftBoundary(nowUTC, shift.StartHour, a.tolerance)
	record := attendance.Attendance{
		ID:            id.String(),
		EmployeeID:    employeeID,
		Date:          today,
		CheckInTime:   &nowUTC,
		CheckInStatus: checkInStatus(boundary),
		CreatedAt:     nowUTC,
		UpdatedAt:     nowUTC,
	}

	created, err := a.AttendanceRepository.Create(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return attendance.ToResponse(created), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, employeeID string) (attendance.AttendanceResponse, error) {
	nowUTC := a.engine.NowUTC()
	today := a.engine.LocalDate(nowUTC)

	shift, err := a.shiftFor(ctx, employeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if record == nil || !record.HasCheckedIn() {
		return attendance.AttendanceResponse{}, attendance.ErrNoCheckInFound
	}
	if record.HasCheckedOut() {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	boundary := a.engine.CompareToShiftBoundary(nowUTC, shift.EndHour, a.tolerance)
	status := checkOutStatus(boundary)
	total := workedHours(*record.CheckInTime, nowUTC)
	overtime := overtimeHours(total, shift)

	record.CheckOutTime = &nowUTC
	record.CheckOutStatus = &status
	record.TotalHours = &total
	record.OvertimeHours = &overtime
	record.UpdatedAt = nowUTC

	if err := a.AttendanceRepository.CheckOut(ctx, *record); err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedOut) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return attendance.ToResponse(*record), nil
}

// GetTodaysAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetTodaysAttendance(ctx context.Context, employeeID string) (*attendance.AttendanceResponse, error) {
	record, err := a.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, a.engine.Today())
	if err != nil {
		return nil, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if record == nil {
		return nil, nil
	}
	resp := attendance.ToResponse(*record)
	return &resp, nil
}

// ListMyAttendance implements attendance.AttendanceService. Without a range it
// returns the last 30 days up to today.
func (a *AttendanceServiceImpl) ListMyAttendance(ctx context.Context, filter attendance.MyAttendanceFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	to := a.engine.Today()
	if filter.EndDate != nil && *filter.EndDate != "" {
		d, err := a.engine.ParseDate(*filter.EndDate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse end date: %w", err)
		}
		to = d
	}
	from := to.AddDate(0, 0, -30)
	if filter.StartDate != nil && *filter.StartDate != "" {
		d, err := a.engine.ParseDate(*filter.StartDate)
		if err != nil {
			return nil, fmt.Errorf("failed to parse start date: %w", err)
		}
		from = d
	}

	records, err := a.AttendanceRepository.ListByEmployee(ctx, filter.EmployeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, attendance.ToResponse(r))
	}
	return responses, nil
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	engine *worktime.Engine,
	tolerance time.Duration,
) attendance.AttendanceService {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		engine:               engine,
		tolerance:            tolerance,
	}
}
