// Package sqlite implements the repositories on a single SQLite database.
// The schema is created on New. Decimals are stored as TEXT and calendar
// dates as DATE values at 00:00 UTC.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mattn/go-sqlite3"

	"github.com/cmlabs-hris/hris-workflow/internal/pkg/database"
)

type txKey struct{}

// Store owns the connection and the transaction context for every
// SQLite repository.
type Store struct {
	db *sql.DB
}

// New wraps an open database and applies the schema.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// WithinTx runs fn in one transaction, reusing an outer one when present.
// The connection is opened with _txlock=immediate, so concurrent units of
// work queue on BEGIN.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("Failed to rollback transaction", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// querier returns the transaction carried by ctx, or the database.
func (s *Store) querier(ctx context.Context) database.SQLQuerier {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return s.db
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

const schema = `
CREATE TABLE IF NOT EXISTS employees (
	id               TEXT PRIMARY KEY,
	full_name        TEXT NOT NULL,
	role             TEXT NOT NULL CHECK (role IN ('employee', 'hr_admin')),
	shift_start_hour INTEGER CHECK (shift_start_hour BETWEEN 0 AND 23),
	shift_end_hour   INTEGER CHECK (shift_end_hour BETWEEN 0 AND 23),
	created_at       TIMESTAMP NOT NULL,
	updated_at       TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_employees_role ON employees (role);

CREATE TABLE IF NOT EXISTS attendances (
	id               TEXT PRIMARY KEY,
	employee_id      TEXT NOT NULL REFERENCES employees (id),
	date             DATE NOT NULL,
	check_in_time    TIMESTAMP,
	check_out_time   TIMESTAMP,
	check_in_status  TEXT NOT NULL,
	check_out_status TEXT,
	total_hours      TEXT,
	overtime_hours   TEXT,
	created_at       TIMESTAMP NOT NULL,
	updated_at       TIMESTAMP NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS uq_attendances_employee_date ON attendances (employee_id, date);

CREATE TABLE IF NOT EXISTS leave_types (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	max_days_per_year INTEGER,
	created_at        TIMESTAMP NOT NULL,
	updated_at        TIMESTAMP NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS uq_leave_types_name ON leave_types (name COLLATE NOCASE);

CREATE TABLE IF NOT EXISTS leave_balances (
	id            TEXT PRIMARY KEY,
	employee_id   TEXT NOT NULL REFERENCES employees (id),
	leave_type_id TEXT NOT NULL REFERENCES leave_types (id),
	year          INTEGER NOT NULL,
	allocated     TEXT NOT NULL,
	used          TEXT NOT NULL,
	balance       TEXT NOT NULL,
	created_at    TIMESTAMP NOT NULL,
	updated_at    TIMESTAMP NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS uq_leave_balances_key ON leave_balances (employee_id, leave_type_id, year);

CREATE TABLE IF NOT EXISTS leave_requests (
	id               TEXT PRIMARY KEY,
	employee_id      TEXT NOT NULL REFERENCES employees (id),
	leave_type_id    TEXT NOT NULL REFERENCES leave_types (id),
	start_date       DATE NOT NULL,
	end_date         DATE NOT NULL,
	day_type         TEXT NOT NULL,
	total_days       TEXT NOT NULL,
	reason           TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL,
	approved_by      TEXT,
	approved_at      TIMESTAMP,
	rejection_reason TEXT,
	created_at       TIMESTAMP NOT NULL,
	updated_at       TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_leave_requests_employee_active
	ON leave_requests (employee_id, end_date)
	WHERE status IN ('pending', 'approved');
CREATE INDEX IF NOT EXISTS idx_leave_requests_status ON leave_requests (status, created_at);

CREATE TABLE IF NOT EXISTS notifications (
	id                  TEXT PRIMARY KEY,
	user_id             TEXT NOT NULL,
	kind                TEXT NOT NULL,
	title               TEXT NOT NULL,
	description         TEXT NOT NULL DEFAULT '',
	related_entity_type TEXT NOT NULL DEFAULT '',
	related_entity_id   TEXT NOT NULL DEFAULT '',
	is_read             BOOLEAN NOT NULL DEFAULT FALSE,
	read_at             TIMESTAMP,
	created_at          TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications (user_id, created_at);
`
