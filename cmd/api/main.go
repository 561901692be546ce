package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-workflow/internal/config"
	"github.com/cmlabs-hris/hris-workflow/internal/fixtures"
	appHTTP "github.com/cmlabs-hris/hris-workflow/internal/handler/http"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/worktime"
	attendanceService "github.com/cmlabs-hris/hris-workflow/internal/service/attendance"
	employeeService "github.com/cmlabs-hris/hris-workflow/internal/service/employee"
	leaveService "github.com/cmlabs-hris/hris-workflow/internal/service/leave"
	notificationService "github.com/cmlabs-hris/hris-workflow/internal/service/notification"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})).With(
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
	))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := worktime.NewEngine(cfg.Attendance.Timezone, worktime.SystemClock{})
	if err != nil {
		return err
	}

	repos, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()
	slog.Info("Storage ready", "driver", cfg.Database.Driver)

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)

	notificationSvc := notificationService.NewNotificationService(repos.notifications, repos.employees, engine)
	attendanceSvc := attendanceService.NewAttendanceService(repos.attendances, repos.employees, engine, cfg.Tolerance())
	leaveTypeSvc := leaveService.NewLeaveTypeService(repos.leaveTypes, engine)
	balanceSvc := leaveService.NewBalanceService(repos.leaveTypes, repos.leaveBalances, engine)
	requestSvc := leaveService.NewRequestService(
		repos.tx,
		repos.leaveTypes,
		repos.leaveRequests,
		repos.employees,
		balanceSvc,
		notificationSvc,
		engine,
	)
	employeeSvc := employeeService.NewEmployeeService(repos.employees, engine)

	if cfg.App.SeedLeaveTypes {
		if _, err := fixtures.SeedLeaveTypes(ctx, leaveTypeSvc); err != nil {
			return err
		}
	}

	router := appHTTP.NewRouter(appHTTP.RouterConfig{
		AppName:        cfg.App.Name,
		Version:        cfg.App.Version,
		Env:            cfg.App.Env,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		LogLevel:       cfg.SlogLevel(),
	}, JWTService, appHTTP.Handlers{
		Attendance:   appHTTP.NewAttendanceHandler(attendanceSvc),
		Leave:        appHTTP.NewLeaveHandler(leaveTypeSvc, balanceSvc, requestSvc),
		Notification: appHTTP.NewNotificationHandler(notificationSvc),
		Employee:     appHTTP.NewEmployeeHandler(employeeSvc),
	})

	if cfg.Jobs.Enabled {
		scheduler := cron.NewScheduler()
		cron.NewLeaveJobs(repos.employees, balanceSvc, engine).RegisterJobs(scheduler, cfg.Jobs.LeaveProvisionInterval)
		scheduler.Start(ctx)
		defer scheduler.Stop()
	}

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("Server running", "addr", server.Addr, "timezone", cfg.Attendance.Timezone)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
