package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/database"
)

type leaveBalanceRepositoryImpl struct {
	db *database.DB
}

func NewLeaveBalanceRepository(db *database.DB) leave.LeaveBalanceRepository {
	return &leaveBalanceRepositoryImpl{db: db}
}

const leaveBalanceColumns = `id, employee_id, leave_type_id, year, allocated, used, balance, created_at, updated_at`

func scanLeaveBalance(row pgx.Row) (leave.LeaveBalance, error) {
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

// Get implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) Get(ctx context.Context, employeeID, leaveTypeID string, year int) (*leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
	`
	b, err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, leaveTypeID, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get leave balance: %w", err)
	}
	return &b, nil
}

// ListByEmployeeYear implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND year = $2
		ORDER BY leave_type_id
	`
	rows, err := q.Query(ctx, query, employeeID, year)
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

// UpsertAllocation implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) UpsertAllocation(ctx context.Context, balance leave.LeaveBalance) (leave.LeaveBalance, error) {
	q := GetQuerier(ctx, r.db)

	if balance.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return leave.LeaveBalance{}, err
		}
		balance.ID = id.String()
	}

	query := `
		INSERT INTO leave_balances (id, employee_id, leave_type_id, year, allocated, used, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, $5, $6, $7)
		ON CONFLICT (employee_id, leave_type_id, year) DO UPDATE
		SET allocated = EXCLUDED.allocated,
			balance = EXCLUDED.allocated - leave_balances.used,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + leaveBalanceColumns
	saved, err := scanLeaveBalance(q.QueryRow(ctx, query,
		balance.ID,
		balance.EmployeeID,
		balance.LeaveTypeID,
		balance.Year,
		balance.Allocated,
		balance.CreatedAt,
		balance.UpdatedAt,
	))
	if err != nil {
		return leave.LeaveBalance{}, fmt.Errorf("failed to upsert leave balance: %w", err)
	}
	return saved, nil
}

// InsertIfMissing implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) InsertIfMissing(ctx context.Context, balance leave.LeaveBalance) (bool, error) {
	q := GetQuerier(ctx, r.db)

	if balance.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return false, err
		}
		balance.ID = id.String()
	}

	query := `
		INSERT INTO leave_balances (id, employee_id, leave_type_id, year, allocated, used, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, 0, $5, $6, $7)
		ON CONFLICT (employee_id, leave_type_id, year) DO NOTHING
	`
	commandTag, err := q.Exec(ctx, query,
		balance.ID,
		balance.EmployeeID,
		balance.LeaveTypeID,
		balance.Year,
		balance.Allocated,
		balance.CreatedAt,
		balance.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert leave balance: %w", err)
	}
	return commandTag.RowsAffected() == 1, nil
}

// IncrementUsed implements leave.LeaveBalanceRepository.
func (r *leaveBalanceRepositoryImpl) IncrementUsed(ctx context.Context, employeeID, leaveTypeID string, year int, days decimal.Decimal) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances
		SET used = used + $4, balance = balance - $4, updated_at = now()
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
	`
	commandTag, err := q.Exec(ctx, query, employeeID, leaveTypeID, year, days)
	if err != nil {
		return fmt.Errorf("failed to increment leave balance: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}
	return nil
}
