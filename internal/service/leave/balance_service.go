package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/worktime"
)

// BalanceServiceImpl is the per-employee, per-type, per-year leave ledger.
type BalanceServiceImpl struct {
	leave.LeaveTypeRepository
	leave.LeaveBalanceRepository
	engine *worktime.Engine
}

func NewBalanceService(leaveTypeRepository leave.LeaveTypeRepository, leaveBalanceRepository leave.LeaveBalanceRepository, engine *worktime.Engine) *BalanceServiceImpl {
	return &BalanceServiceImpl{
		LeaveTypeRepository:    leaveTypeRepository,
		LeaveBalanceRepository: leaveBalanceRepository,
		engine:                 engine,
	}
}

func toView(leaveType leave.LeaveType, employeeID string, year int, b *leave.LeaveBalance) leave.BalanceView {
	view := leave.BalanceView{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveType.ID,
		Year:        year,
		Allocated:   decimal.Zero,
		Used:        decimal.Zero,
		Remaining:   decimal.Zero,
	}
	if b != nil {
		view.Allocated = b.Allocated
		view.Used = b.Used
		view.Remaining = b.Allocated.Sub(b.Used)
	}
	if leaveType.IsUnlimited() {
		view.Remaining = leave.UnlimitedRemaining
	}
	return view
}

// GetBalance implements leave.BalanceService. A missing row reads as zero.
func (q *BalanceServiceImpl) GetBalance(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.BalanceView, error) {
	leaveType, err := q.LeaveTypeRepository.GetByID(ctx, leaveTypeID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeNotFound) {
			return leave.BalanceView{}, err
		}
		return leave.BalanceView{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	balance, err := q.LeaveBalanceRepository.Get(ctx, employeeID, leaveTypeID, year)
	if err != nil {
		return leave.BalanceView{}, fmt.Errorf("failed to get leave balance: %w", err)
	}

	return toView(leaveType, employeeID, year, balance), nil
}

// ListBalances implements leave.BalanceService. Every leave type is listed,
// with zero rows for types the employee has no allocation for. A year <= 0
// means the current year in the application timezone.
func (q *BalanceServiceImpl) ListBalances(ctx context.Context, employeeID string, year int) ([]leave.BalanceView, error) {
	if year <= 0 {
		year = q.engine.CurrentYear()
	}

	types, err := q.LeaveTypeRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	rows, err := q.LeaveBalanceRepository.ListByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	byType := make(map[string]*leave.LeaveBalance, len(rows))
	for i := range rows {
		byType[rows[i].LeaveTypeID] = &rows[i]
	}

	views := make([]leave.BalanceView, 0, len(types))
	for _, t := range types {
		views = append(views, toView(t, employeeID, year, byType[t.ID]))
	}
	return views, nil
}

// SetAllocation implements leave.BalanceService.
func (q *BalanceServiceImpl) SetAllocation(ctx context.Context, req leave.SetAllocationRequest) (leave.BalanceView, error) {
	if err := req.Validate(); err != nil {
		return leave.BalanceView{}, err
	}

	leaveType, err := q.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeNotFound) {
			return leave.BalanceView{}, err
		}
		return leave.BalanceView{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	now := q.engine.NowUTC()
	saved, err := q.LeaveBalanceRepository.UpsertAllocation(ctx, leave.LeaveBalance{
		EmployeeID:  req.EmployeeID,
		LeaveTypeID: req.LeaveTypeID,
		Year:        req.Year,
		Allocated:   req.Allocated,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	if err != nil {
		return leave.BalanceView{}, fmt.Errorf("failed to save leave allocation: %w", err)
	}

	slog.Info("Set leave allocation",
		"employee_id", req.EmployeeID,
		"leave_type_id", req.LeaveTypeID,
		"year", req.Year,
		"allocated", req.Allocated.String(),
	)
	return toView(leaveType, req.EmployeeID, req.Year, &saved), nil
}

// ApplyApproval implements leave.BalanceService. The increment is a single
// atomic write in the repository.
func (q *BalanceServiceImpl) ApplyApproval(ctx context.Context, req leave.ApplyApprovalRequest) error {
	err := q.LeaveBalanceRepository.IncrementUsed(ctx, req.EmployeeID, req.LeaveTypeID, req.Year, req.Days)
	if err != nil {
		if errors.Is(err, leave.ErrBalanceNotFound) {
			return err
		}
		return fmt.Errorf("failed to apply approval to balance: %w", err)
	}
	return nil
}

// ProvisionYear implements leave.BalanceService. Rows that already exist keep
// their allocation, and uncapped leave types are skipped.
func (q *BalanceServiceImpl) ProvisionYear(ctx context.Context, employeeIDs []string, year int) (int, error) {
	if year <= 0 {
		year = q.engine.CurrentYear()
	}

	leaveTypes, err := q.LeaveTypeRepository.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list leave types: %w", err)
	}

	created := 0
	now := q.engine.NowUTC()
	for _, leaveType := range leaveTypes {
		if leaveType.IsUnlimited() {
			continue
		}
		allocated := decimal.NewFromInt(int64(*leaveType.MaxDaysPerYear))

		for _, employeeID := range employeeIDs {
			inserted, err := q.LeaveBalanceRepository.InsertIfMissing(ctx, leave.LeaveBalance{
				EmployeeID:  employeeID,
				LeaveTypeID: leaveType.ID,
				Year:        year,
				Allocated:   allocated,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
			if err != nil {
				return created, fmt.Errorf("failed to provision leave balance: %w", err)
			}
			if inserted {
				created++
			}
		}
	}

	slog.Info("Provisioned leave balances", "year", year, "created", created)
	return created, nil
}
