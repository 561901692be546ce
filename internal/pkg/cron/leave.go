package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/worktime"
)

// LeaveJobs keeps every employee's current-year balances provisioned.
type LeaveJobs struct {
	employeeRepo employee.EmployeeRepository
	balanceSvc   leave.BalanceService
	engine       *worktime.Engine
}

func NewLeaveJobs(employeeRepo employee.EmployeeRepository, balanceSvc leave.BalanceService, engine *worktime.Engine) *LeaveJobs {
	return &LeaveJobs{
		employeeRepo: employeeRepo,
		balanceSvc:   balanceSvc,
		engine:       engine,
	}
}

func (j *LeaveJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	scheduler.AddJob("provision_leave_balances", interval, j.ProvisionLeaveBalances)
}

// ProvisionLeaveBalances allocates the yearly maximum of each capped leave
// type to employees that have no balance row for the current local year.
func (j *LeaveJobs) ProvisionLeaveBalances(ctx context.Context) error {
	employeeIDs, err := j.employeeRepo.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list employees: %w", err)
	}
	if len(employeeIDs) == 0 {
		return nil
	}

	if _, err := j.balanceSvc.ProvisionYear(ctx, employeeIDs, j.engine.CurrentYear()); err != nil {
		return err
	}
	return nil
}
