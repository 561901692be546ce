package leave

import (
	"errors"
	"fmt"
)

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrLeaveTypeNotFound    = errors.New("leave type not found")
	ErrLeaveTypeNameExists  = errors.New("leave type name already exists")
	ErrBalanceNotFound      = errors.New("leave balance not found")

	ErrActiveRequestExists = errors.New("employee already has an active leave request")
	ErrInvalidTransition   = errors.New("leave request is not pending, it may have already been processed")
	ErrMissingReason       = errors.New("rejection reason is required")
	ErrInvalidDateRange    = errors.New("start date must not be after end date")
)

// ActiveRequestError names the request that blocks a new submission.
type ActiveRequestError struct {
	RequestID string
	Status    RequestStatus
}

func (e *ActiveRequestError) Error() string {
	return fmt.Sprintf("%s: request %s is %s", ErrActiveRequestExists.Error(), e.RequestID, e.Status)
}

func (e *ActiveRequestError) Is(target error) bool {
	return target == ErrActiveRequestExists
}
