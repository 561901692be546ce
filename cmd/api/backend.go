package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-workflow/internal/config"
	"github.com/cmlabs-hris/hris-workflow/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workflow/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow/internal/domain/notification"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/database"
	"github.com/cmlabs-hris/hris-workflow/internal/repository/memory"
	"github.com/cmlabs-hris/hris-workflow/internal/repository/postgresql"
	"github.com/cmlabs-hris/hris-workflow/internal/repository/sqlite"
)

// backend bundles the repositories of one storage driver.
type backend struct {
	tx            database.Transactor
	employees     employee.EmployeeRepository
	attendances   attendance.AttendanceRepository
	leaveTypes    leave.LeaveTypeRepository
	leaveBalances leave.LeaveBalanceRepository
	leaveRequests leave.LeaveRequestRepository
	notifications notification.Repository
	close         func()
}

func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if cfg.Database.AutoMigrate {
			if err := database.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, fmt.Errorf("failed to migrate postgres: %w", err)
			}
		}
		return &backend{
			tx:            postgresql.NewTransactor(db),
			employees:     postgresql.NewEmployeeRepository(db),
			attendances:   postgresql.NewAttendanceRepository(db),
			leaveTypes:    postgresql.NewLeaveTypeRepository(db),
			leaveBalances: postgresql.NewLeaveBalanceRepository(db),
			leaveRequests: postgresql.NewLeaveRequestRepository(db),
			notifications: postgresql.NewNotificationRepository(db),
			close:         db.Close,
		}, nil

	case config.DriverSQLite:
		db, err := database.NewSQLiteDB(ctx, cfg.Database.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		store, err := sqlite.New(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to prepare sqlite schema: %w", err)
		}
		return &backend{
			tx:            store,
			employees:     sqlite.NewEmployeeRepository(store),
			attendances:   sqlite.NewAttendanceRepository(store),
			leaveTypes:    sqlite.NewLeaveTypeRepository(store),
			leaveBalances: sqlite.NewLeaveBalanceRepository(store),
			leaveRequests: sqlite.NewLeaveRequestRepository(store),
			notifications: sqlite.NewNotificationRepository(store),
			close: func() {
				if err := store.Close(); err != nil {
					slog.Error("Failed to close sqlite", "error", err)
				}
			},
		}, nil

	case config.DriverMemory:
		store := memory.NewStore()
		return &backend{
			tx:            store,
			employees:     memory.NewEmployeeRepository(store),
			attendances:   memory.NewAttendanceRepository(store),
			leaveTypes:    memory.NewLeaveTypeRepository(store),
			leaveBalances: memory.NewLeaveBalanceRepository(store),
			leaveRequests: memory.NewLeaveRequestRepository(store),
			notifications: memory.NewNotificationRepository(store),
			close:         func() {},
		}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}
