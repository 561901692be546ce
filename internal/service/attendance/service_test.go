package attendance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workflow/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/worktime"
	"github.com/cmlabs-hris/hris-workflow/internal/repository/memory"
)

const testEmployeeID = "emp-1"

type fixture struct {
	clock   *worktime.StaticClock
	loc     *time.Location
	service attendance.AttendanceService
}

func newFixture(t *testing.T, shift *employee.ShiftSchedule) fixture {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)

	clock := worktime.NewStaticClock(time.Date(2026, 3, 2, 8, 0, 0, 0, loc))
	engine := worktime.MustEngine("Asia/Jakarta", clock)

	store := memory.NewStore()
	employees := memory.NewEmployeeRepository(store)
	emp := employee.Employee{ID: testEmployeeID, FullName: "Sari Wulandari", Role: employee.RoleEmployee}
	if shift != nil {
		emp.ShiftStartHour = &shift.StartHour
		emp.ShiftEndHour = &shift.EndHour
	}
	_, err = employees.Create(context.Background(), emp)
	require.NoError(t, err)

	svc := NewAttendanceService(memory.NewAttendanceRepository(store), employees, engine, time.Minute)
	return fixture{clock: clock, loc: loc, service: svc}
}

func (f fixture) at(hour, min, sec int) {
	f.clock.Set(time.Date(2026, 3, 2, hour, min, sec, 0, f.loc))
}

func dec(t *testing.T, s *string) decimal.Decimal {
	t.Helper()
	require.NotNil(t, s)
	return decimal.RequireFromString(*s)
}

func TestCheckIn_CheckOut_OnTimeRoundTrip(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	f.at(9, 0, 0)
	in, err := f.service.CheckIn(ctx, testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, "ontime", in.CheckInStatus)
	assert.Equal(t, "2026-03-02", in.Date)

	f.at(18, 0, 0)
	out, err := f.service.CheckOut(ctx, testEmployeeID)
	require.NoError(t, err)
	require.NotNil(t, out.CheckOutStatus)
	assert.Equal(t, "ontime", *out.CheckOutStatus)
	assert.Equal(t, "9.00", *out.TotalHours)
	assert.Equal(t, "0.00", *out.OvertimeHours)
}

func TestCheckIn_LateAfterTolerance(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	f.at(9, 1, 5)
	in, err := f.service.CheckIn(ctx, testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, "late", in.CheckInStatus)
}

func TestCheckIn_EarlyArrivalIsOnTime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	f.at(7, 45, 0)
	in, err := f.service.CheckIn(ctx, testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, "ontime", in.CheckInStatus)
}

func TestCheckOut_Overtime(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	f.at(9, 0, 0)
	_, err := f.service.CheckIn(ctx, testEmployeeID)
	require.NoError(t, err)

	f.at(19, 30, 0)
	out, err := f.service.CheckOut(ctx, testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, "overtime", *out.CheckOutStatus)
	assert.True(t, decimal.RequireFromString("10.50").Equal(dec(t, out.TotalHours)))
	assert.True(t, decimal.RequireFromString("1.50").Equal(dec(t, out.OvertimeHours)))
}

func TestCheckOut_LeftEarly(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	f.at(9, 0, 0)
	_, err := f.service.CheckIn(ctx, testEmployeeID)
	require.NoError(t, err)

	f.at(16, 20, 0)
	out, err := f.service.CheckOut(ctx, testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, "leftearly", *out.CheckOutStatus)
	assert.Equal(t, "7.33", *out.TotalHours)
	assert.Equal(t, "0.00", *out.OvertimeHours)
}

func TestCheckOut_UsesEmployeeShift(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, &employee.ShiftSchedule{StartHour: 7, EndHour: 15})

	f.at(7, 0, 30)
	in, err := f.service.CheckIn(ctx, testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, "ontime", in.CheckInStatus)

	f.at(15, 0, 0)
	out, err := f.service.CheckOut(ctx, testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, "ontime", *out.CheckOutStatus)
	assert.Equal(t, "0.00", *out.OvertimeHours)
}

func TestCheckOut_OvertimeApproximationCanDisagreeWithStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	// Late arrival, overtime departure, but still under nine worked hours.
	f.at(10, 0, 0)
	_, err := f.service.CheckIn(ctx, testEmployeeID)
	require.NoError(t, err)

	f.at(18, 30, 0)
	out, err := f.service.CheckOut(ctx, testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, "overtime", *out.CheckOutStatus)
	assert.Equal(t, "8.50", *out.TotalHours)
	assert.Equal(t, "0.00", *out.OvertimeHours)
}

func TestCheckIn_Twice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	f.at(9, 0, 0)
	_, err := f.service.CheckIn(ctx, testEmployeeID)
	require.NoError(t, err)

	f.at(9, 0, 1)
	_, err = f.service.CheckIn(ctx, testEmployeeID)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckIn_ConcurrentCallsOnlyOneSucceeds(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)
	f.at(9, 0, 0)

	const callers = 16
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.CheckIn(ctx, testEmployeeID)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
	}
	assert.Equal(t, 1, succeeded)
}

func TestCheckOut_WithoutCheckIn(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	f.at(18, 0, 0)
	_, err := f.service.CheckOut(ctx, testEmployeeID)
	assert.ErrorIs(t, err, attendance.ErrNoCheckInFound)
}

func TestCheckOut_Twice(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	f.at(9, 0, 0)
	_, err := f.service.CheckIn(ctx, testEmployeeID)
	require.NoError(t, err)

	f.at(18, 0, 0)
	_, err = f.service.CheckOut(ctx, testEmployeeID)
	require.NoError(t, err)

	f.at(18, 5, 0)
	_, err = f.service.CheckOut(ctx, testEmployeeID)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestCheckIn_CalendarDayFollowsApplicationZone(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	// 23:30 UTC on the 1st is 06:30 on the 2nd in Jakarta.
	f.clock.Set(time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC))
	in, err := f.service.CheckIn(ctx, testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-02", in.Date)

	today, err := f.service.GetTodaysAttendance(ctx, testEmployeeID)
	require.NoError(t, err)
	require.NotNil(t, today)
	assert.Equal(t, in.ID, today.ID)
}

func TestCheckIn_IgnoresHostTimezone(t *testing.T) {
	original := time.Local
	time.Local = time.FixedZone("Elsewhere", -10*60*60)
	t.Cleanup(func() { time.Local = original })

	ctx := context.Background()
	f := newFixture(t, nil)

	f.at(9, 0, 0)
	in, err := f.service.CheckIn(ctx, testEmployeeID)
	require.NoError(t, err)
	assert.Equal(t, "ontime", in.CheckInStatus)
	assert.Equal(t, "2026-03-02", in.Date)
}

func TestGetTodaysAttendance_NoneYet(t *testing.T) {
	f := newFixture(t, nil)

	today, err := f.service.GetTodaysAttendance(context.Background(), testEmployeeID)
	require.NoError(t, err)
	assert.Nil(t, today)
}

func TestCheckIn_UnknownEmployee(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.service.CheckIn(context.Background(), "nobody")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestListMyAttendance_NewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, nil)

	for day := 2; day <= 4; day++ {
		f.clock.Set(time.Date(2026, 3, day, 9, 0, 0, 0, f.loc))
		_, err := f.service.CheckIn(ctx, testEmployeeID)
		require.NoError(t, err)
	}

	start, end := "2026-03-03", "2026-03-04"
	list, err := f.service.ListMyAttendance(ctx, attendance.MyAttendanceFilter{
		EmployeeID: testEmployeeID,
		StartDate:  &start,
		EndDate:    &end,
	})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "2026-03-04", list[0].Date)
	assert.Equal(t, "2026-03-03", list[1].Date)

	all, err := f.service.ListMyAttendance(ctx, attendance.MyAttendanceFilter{EmployeeID: testEmployeeID})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListMyAttendance_RejectsInvertedRange(t *testing.T) {
	f := newFixture(t, nil)

	start, end := "2026-03-05", "2026-03-01"
	_, err := f.service.ListMyAttendance(context.Background(), attendance.MyAttendanceFilter{
		EmployeeID: testEmployeeID,
		StartDate:  &start,
		EndDate:    &end,
	})
	assert.Error(t, err)
}

func TestDecisionTables(t *testing.T) {
	assert.Equal(t, attendance.CheckInOnTime, checkInStatus(worktime.Before))
	assert.Equal(t, attendance.CheckInOnTime, checkInStatus(worktime.WithinTolerance))
	assert.Equal(t, attendance.CheckInLate, checkInStatus(worktime.After))

	assert.Equal(t, attendance.CheckOutLeftEarly, checkOutStatus(worktime.Before))
	assert.Equal(t, attendance.CheckOutOnTime, checkOutStatus(worktime.WithinTolerance))
	assert.Equal(t, attendance.CheckOutOvertime, checkOutStatus(worktime.After))
}
