package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/worktime"
	"github.com/cmlabs-hris/hris-workflow/internal/repository/memory"
	leaveService "github.com/cmlabs-hris/hris-workflow/internal/service/leave"
)

func TestScheduler_RunOnceJoinsErrors(t *testing.T) {
	s := NewScheduler()
	var ran atomic.Int32
	boom := errors.New("boom")

	s.AddJob("ok", time.Hour, func(context.Context) error { ran.Add(1); return nil })
	s.AddJob("fails", time.Hour, func(context.Context) error { ran.Add(1); return boom })

	err := s.RunOnce(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "job fails")
	assert.Equal(t, int32(2), ran.Load())
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	s := NewScheduler()
	started := make(chan struct{}, 1)
	s.AddJob("tick", time.Hour, func(context.Context) error {
		select {
		case started <- struct{}{}:
		default:
		}
		return nil
	})

	s.Start(context.Background())
	select {
	case <-started:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	s.Stop()
}

func TestScheduler_StopWithoutStart(t *testing.T) {
	assert.NotPanics(t, NewScheduler().Stop)
}

func TestLeaveJobs_ProvisionLeaveBalances(t *testing.T) {
	ctx := context.Background()
	clock := worktime.NewStaticClock(time.Date(2026, 12, 31, 18, 0, 0, 0, time.UTC)) // 01:00 Jan 1 in Jakarta
	engine := worktime.MustEngine("Asia/Jakarta", clock)

	store := memory.NewStore()
	employees := memory.NewEmployeeRepository(store)
	for _, id := range []string{"emp-1", "emp-2"} {
		_, err := employees.Create(ctx, employee.Employee{ID: id, FullName: id, Role: employee.RoleEmployee})
		require.NoError(t, err)
	}

	leaveTypes := memory.NewLeaveTypeRepository(store)
	maxDays := 12
	annual, err := leaveService.NewLeaveTypeService(leaveTypes, engine).CreateLeaveType(ctx, leave.CreateLeaveTypeRequest{
		Name: "Annual Leave", MaxDaysPerYear: &maxDays,
	})
	require.NoError(t, err)

	balances := leaveService.NewBalanceService(leaveTypes, memory.NewLeaveBalanceRepository(store), engine)
	jobs := NewLeaveJobs(employees, balances, engine)

	s := NewScheduler()
	jobs.RegisterJobs(s, 0)
	require.NoError(t, s.RunOnce(ctx))

	for _, id := range []string{"emp-1", "emp-2"} {
		view, err := balances.GetBalance(ctx, id, annual.ID, 2027)
		require.NoError(t, err)
		assert.Equal(t, "12", view.Allocated.String(), id)
	}
}
