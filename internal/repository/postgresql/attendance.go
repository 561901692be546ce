package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/database"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `
	id, employee_id, date, check_in_time, check_out_time,
	check_in_status, check_out_status, total_hours, overtime_hours,
	created_at, updated_at
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	var checkOutStatus *string
	var totalHours, overtimeHours decimal.NullDecimal
	err := row.Scan(
		&a.ID,
		&a.EmployeeID,
		&a.Date,
		&a.CheckInTime,
		&a.CheckOutTime,
		&a.CheckInStatus,
		&checkOutStatus,
		&totalHours,
		&overtimeHours,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}
	if checkOutStatus != nil {
		s := attendance.CheckOutStatus(*checkOutStatus)
		a.CheckOutStatus = &s
	}
	if totalHours.Valid {
		a.TotalHours = &totalHours.Decimal
	}
	if overtimeHours.Valid {
		a.OvertimeHours = &overtimeHours.Decimal
	}
	a.Date = civilDate(a.Date)
	return a, nil
}

// Create implements attendance.AttendanceRepository. The unique constraint on
// (employee_id, date) decides concurrent check-ins.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (id, employee_id, date, check_in_time, check_in_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := q.Exec(ctx, query,
		a.ID,
		a.EmployeeID,
		a.Date,
		a.CheckInTime,
		string(a.CheckInStatus),
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to insert attendance: %w", err)
	}
	return a, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE employee_id = $1 AND date = $2`
	a, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return &a, nil
}

// CheckOut implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CheckOut(ctx context.Context, a attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	var checkOutStatus *string
	if a.CheckOutStatus != nil {
		s := string(*a.CheckOutStatus)
		checkOutStatus = &s
	}

	query := `
		UPDATE attendances
		SET check_out_time = $2, check_out_status = $3, total_hours = $4, overtime_hours = $5, updated_at = $6
		WHERE id = $1 AND check_in_time IS NOT NULL AND check_out_time IS NULL
	`
	commandTag, err := q.Exec(ctx, query,
		a.ID,
		a.CheckOutTime,
		checkOutStatus,
		a.TotalHours,
		a.OvertimeHours,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return attendance.ErrAlreadyCheckedOut
	}
	return nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date DESC
	`
	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return records, nil
}

// civilDate normalises a DATE column to 00:00 UTC.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
