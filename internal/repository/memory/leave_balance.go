package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/leave"
)

type leaveBalanceRepository struct {
	*Store
}

func NewLeaveBalanceRepository(s *Store) leave.LeaveBalanceRepository {
	return &leaveBalanceRepository{Store: s}
}

func balanceKey(employeeID, leaveTypeID string, year int) string {
	return fmt.Sprintf("%s|%s|%d", employeeID, leaveTypeID, year)
}

func (r *leaveBalanceRepository) Get(ctx context.Context, employeeID, leaveTypeID string, year int) (*leave.LeaveBalance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.balances[balanceKey(employeeID, leaveTypeID, year)]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (r *leaveBalanceRepository) ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []leave.LeaveBalance
	for _, b := range r.balances {
		if b.EmployeeID == employeeID && b.Year == year {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LeaveTypeID < out[j].LeaveTypeID })
	return out, nil
}

func (r *leaveBalanceRepository) UpsertAllocation(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := balanceKey(balance.EmployeeID, balance.LeaveTypeID, balance.Year)
	existing, ok := r.balances[key]
	if !ok {
		if balance.ID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				return leave.LeaveBalance{}, err
			}
			balance.ID = id.String()
		}
		balance.Used = decimal.Zero
		balance.Balance = balance.Allocated
		r.balances[key] = balance
		return balance, nil
	}

	existing.Allocated = balance.Allocated
	existing.Balance = balance.Allocated.Sub(existing.Used)
	existing.UpdatedAt = balance.UpdatedAt
	r.balances[key] = existing
	return existing, nil
}

func (r *leaveBalanceRepository) InsertIfMissing(ctx context.Context, balance leave.LeaveBalance) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := balanceKey(balance.EmployeeID, balance.LeaveTypeID, balance.Year)
	if _, ok := r.balances[key]; ok {
		return false, nil
	}
	if balance.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return false, err
		}
		balance.ID = id.String()
	}
	balance.Used = decimal.Zero
	balance.Balance = balance.Allocated
	r.balances[key] = balance
	return true, nil
}

func (r *leaveBalanceRepository) IncrementUsed(ctx context.Context, employeeID, leaveTypeID string, year int, days decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := balanceKey(employeeID, leaveTypeID, year)
	b, ok := r.balances[key]
	if !ok {
		return leave.ErrBalanceNotFound
	}
	b.Used = b.Used.Add(days)
	b.Balance = b.Balance.Sub(days)
	r.balances[key] = b
	return nil
}
