package notification

import "errors"

// Notification domain errors
var (
	ErrInvalidKind      = errors.New("invalid notification kind")
	ErrMissingRecipient = errors.New("notification recipient is required")
)
