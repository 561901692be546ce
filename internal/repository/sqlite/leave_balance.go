package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

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

const leaveBalanceColumns = `id, employee_id, leave_type_id, year, allocated, used, balance, created_at, updated_at`

func scanLeaveBalance(row rowScanner) (leave.LeaveBalance, error) {
	var b leave.LeaveBalance
	err := row.Scan(
		&b.ID,
		&b.EmployeeID,
		&b.LeaveTypeID,
		&b.Year,
		&b.Allocated,
		&b.Used,
		&b.Balance,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

func (r *leaveBalanceRepository) Get(ctx context.Context, employeeID, leaveTypeID string, year int) (*leave.LeaveBalance, error) {
	query := `SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = ? AND leave_type_id = ? AND year = ?
	`
	b, err := scanLeaveBalance(r.querier(ctx).QueryRowContext(ctx, query, employeeID, leaveTypeID, year))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return &b, nil
}

func (r *leaveBalanceRepository) ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	query := `SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = ? AND year = ?
		ORDER BY leave_type_id
	`
	rows, err := r.querier(ctx).QueryContext(ctx, query, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	var balances []leave.LeaveBalance
	for rows.Next() {
		b, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

// UpsertAllocation reads and writes inside one transaction because decimal
// arithmetic happens in Go, not in SQL.
func (r *leaveBalanceRepository) UpsertAllocation(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	var saved leave.LeaveBalance
	err := r.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := r.Get(ctx, balance.EmployeeID, balance.LeaveTypeID, balance.Year)
		if err != nil {
			return err
		}

		if existing != nil {
			saved = *existing
			saved.Allocated = balance.Allocated
			saved.Balance = balance.Allocated.Sub(existing.Used)
			saved.UpdatedAt = balance.UpdatedAt
			_, err := r.querier(ctx).ExecContext(ctx,
				`UPDATE leave_balances SET allocated = ?, balance = ?, updated_at = ? WHERE id = ?`,
				saved.Allocated, saved.Balance, saved.UpdatedAt.UTC(), saved.ID,
			)
			return err
		}

		saved = balance
		if saved.ID == "" {
			id, err := uuid.NewV7()
			if err != nil {
				return err
			}
			saved.ID = id.String()
		}
		saved.Used = decimal.Zero
		saved.Balance = saved.Allocated
		_, err = r.querier(ctx).ExecContext(ctx,
			`INSERT INTO leave_balances (`+leaveBalanceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			saved.ID, saved.EmployeeID, saved.LeaveTypeID, saved.Year,
			saved.Allocated, saved.Used, saved.Balance,
			saved.CreatedAt.UTC(), saved.UpdatedAt.UTC(),
		)
		return err
	})
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to upsert leave balance: %w", err)
	}
	return saved, nil
}

func (r *leaveBalanceRepository) InsertIfMissing(ctx context.Context, balance leave.LeaveBalance) (bool, error) {
	if balance.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return false, err
		}
		balance.ID = id.String()
	}

	result, err := r.querier(ctx).ExecContext(ctx,
		`INSERT OR IGNORE INTO leave_balances (`+leaveBalanceColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		balance.ID, balance.EmployeeID, balance.LeaveTypeID, balance.Year,
		balance.Allocated, decimal.Zero, balance.Allocated,
		balance.CreatedAt.UTC(), balance.UpdatedAt.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert leave balance: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to insert leave balance: %w", err)
	}
	return n == 1, nil
}

func (r *leaveBalanceRepository) IncrementUsed(ctx context.Context, employeeID, leaveTypeID string, year int, days decimal.Decimal) error {
	return r.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := r.Get(ctx, employeeID, leaveTypeID, year)
		if err != nil {
			return err
		}
		if existing == nil {
			return leave.ErrBalanceNotFound
		}

		_, err = r.querier(ctx).ExecContext(ctx,
			`UPDATE leave_balances SET used = ?, balance = ?, updated_at = ? WHERE id = ?`,
			existing.Used.Add(days), existing.Balance.Sub(days), time.Now().UTC(), existing.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to increment leave balance: %w", err)
		}
		return nil
	})
}
