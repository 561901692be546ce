package response

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workflow/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow/internal/domain/notification"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	var activeErr *leave.ActiveRequestError
	if errors.As(err, &activeErr) {
		Conflict(w, "Employee already has an active leave request", map[string]string{
			"request_id": activeErr.RequestID,
			"status":     string(activeErr.Status),
		})
		return
	}

	var parseErr *time.ParseError
	if errors.As(err, &parseErr) {
		BadRequest(w, "Invalid date", map[string]string{"value": parseErr.Value})
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out today", nil)
	case errors.Is(err, attendance.ErrNoCheckInFound):
		BadRequest(w, "No check-in found for today", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance not found")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")
	case errors.Is(err, leave.ErrLeaveTypeNameExists):
		Conflict(w, "Leave type name already exists", nil)
	case errors.Is(err, leave.ErrInvalidTransition):
		Conflict(w, "Leave request is not in a state that allows this action", nil)
	case errors.Is(err, leave.ErrActiveRequestExists):
		Conflict(w, "Employee already has an active leave request", nil)
	case errors.Is(err, leave.ErrMissingReason):
		BadRequest(w, "Rejection reason is required", nil)
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, "end_date must not be before start_date", nil)

	// Notification domain errors
	case errors.Is(err, notification.ErrInvalidKind), errors.Is(err, notification.ErrMissingRecipient):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
