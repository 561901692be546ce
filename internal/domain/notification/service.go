package notification

import (
	"context"
)

// Notifier is the side-effect boundary business operations call on state
// changes. Callers treat a returned error as a warning, never as a failure
// of their own operation.
type Notifier interface {
	Notify(ctx context.Context, notice Notice) error
}

// Service defines the notification service interface
type Service interface {
	Notifier

	// NotifyMany delivers the same notice to every recipient.
	NotifyMany(ctx context.Context, userIDs []string, notice Notice) error

	AnnounceToAll(ctx context.Context, req AnnouncementRequest) (AnnouncementResponse, error)
	PayslipReady(ctx context.Context, req PayslipReadyRequest) error

	GetNotifications(ctx context.Context, req ListNotificationsRequest) (NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, userID string) (int, error)
	MarkAsRead(ctx context.Context, userID string, req MarkAsReadRequest) error
}
