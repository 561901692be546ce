package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/attendance"
)

type attendanceRepository struct {
	*Store
}

func NewAttendanceRepository(s *Store) attendance.AttendanceRepository {
	return &attendanceRepository{Store: s}
}

const attendanceColumns = `
	id, employee_id, date, check_in_time, check_out_time,
	check_in_status, check_out_status, total_hours, overtime_hours,
	created_at, updated_at
`

func scanAttendance(row rowScanner) (attendance.Attendance, error) {
	var a attendance.Attendance
	var checkOutStatus sql.NullString
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
	if checkOutStatus.Valid {
		s := attendance.CheckOutStatus(checkOutStatus.String)
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

// Create relies on the unique index over (employee_id, date).
func (r *attendanceRepository) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	query := `
		INSERT INTO attendances (id, employee_id, date, check_in_time, check_in_status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.querier(ctx).ExecContext(ctx, query,
		a.ID,
		a.EmployeeID,
		civilDate(a.Date),
		utcPtr(a.CheckInTime),
		string(a.CheckInStatus),
		a.CreatedAt.UTC(),
		a.UpdatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to insert attendance: %w", err)
	}
	return a, nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE employee_id = ? AND date = ?`
	a, err := scanAttendance(r.querier(ctx).QueryRowContext(ctx, query, employeeID, civilDate(date)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}
	return &a, nil
}

func (r *attendanceRepository) CheckOut(ctx context.Context, a attendance.Attendance) error {
	var checkOutStatus sql.NullString
	if a.CheckOutStatus != nil {
		checkOutStatus = sql.NullString{String: string(*a.CheckOutStatus), Valid: true}
	}

	query := `
		UPDATE attendances
		SET check_out_time = ?, check_out_status = ?, total_hours = ?, overtime_hours = ?, updated_at = ?
		WHERE id = ? AND check_in_time IS NOT NULL AND check_out_time IS NULL
	`
	res, err := r.querier(ctx).ExecContext(ctx, query,
		utcPtr(a.CheckOutTime),
		checkOutStatus,
		a.TotalHours,
		a.OvertimeHours,
		a.UpdatedAt.UTC(),
		a.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return attendance.ErrAlreadyCheckedOut
	}
	return nil
}

func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = ? AND date BETWEEN ? AND ?
		ORDER BY date DESC
	`
	rows, err := r.querier(ctx).QueryContext(ctx, query, employeeID, civilDate(from), civilDate(to))
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
	return records, rows.Err()
}

// civilDate normalises a date to 00:00 UTC so stored values compare as text.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
