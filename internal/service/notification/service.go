package notification

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow/internal/domain/notification"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/worktime"
)

type service struct {
	repo      notification.Repository
	employees employee.EmployeeRepository
	engine    *worktime.Engine
}

// NewNotificationService persists every notice synchronously. Delivery to
// devices is not handled here.
func NewNotificationService(repo notification.Repository, employees employee.EmployeeRepository, engine *worktime.Engine) notification.Service {
	return &service{
		repo:      repo,
		employees: employees,
		engine:    engine,
	}
}

func (s *service) build(userID string, notice notification.Notice) (notification.Notification, error) {
	if userID == "" {
		return notification.Notification{}, notification.ErrMissingRecipient
	}
	if !notice.Kind.IsValid() {
		return notification.Notification{}, fmt.Errorf("%w: %q", notification.ErrInvalidKind, notice.Kind)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return notification.Notification{}, fmt.Errorf("failed to generate notification id: %w", err)
	}

	return notification.Notification{
		ID:                id.String(),
		UserID:            userID,
		Kind:              notice.Kind,
		Title:             notice.Title,
		Description:       notice.Description,
		RelatedEntityType: notice.RelatedEntityType,
		RelatedEntityID:   notice.RelatedEntityID,
		CreatedAt:         s.engine.NowUTC(),
	}, nil
}

// Notify implements notification.Notifier.
func (s *service) Notify(ctx context.Context, notice notification.Notice) error {
	n, err := s.build(notice.UserID, notice)
	if err != nil {
		return err
	}

	if err := s.repo.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to store notification: %w", err)
	}

	slog.Info("Notification recorded",
		"notification_id", n.ID,
		"user_id", n.UserID,
		"kind", string(n.Kind),
		"related_entity_id", n.RelatedEntityID,
	)
	return nil
}

// NotifyMany implements notification.Service.
func (s *service) NotifyMany(ctx context.Context, userIDs []string, notice notification.Notice) error {
	if len(userIDs) == 0 {
		return nil
	}

	batch := make([]notification.Notification, 0, len(userIDs))
	for _, userID := range userIDs {
		n, err := s.build(userID, notice)
		if err != nil {
			return err
		}
		batch = append(batch, n)
	}

	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		return fmt.Errorf("failed to store notifications: %w", err)
	}

	slog.Info("Notifications recorded", "kind", string(notice.Kind), "count", len(batch))
	return nil
}

// AnnounceToAll implements notification.Service.
func (s *service) AnnounceToAll(ctx context.Context, req notification.AnnouncementRequest) (notification.AnnouncementResponse, error) {
	if err := req.Validate(); err != nil {
		return notification.AnnouncementResponse{}, err
	}

	recipients, err := s.employees.ListIDs(ctx)
	if err != nil {
		return notification.AnnouncementResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return notification.AnnouncementResponse{}, fmt.Errorf("failed to generate announcement id: %w", err)
	}

	err = s.NotifyMany(ctx, recipients, notification.Notice{
		Kind:              notification.KindAnnouncementCreated,
		Title:             req.Title,
		Description:       req.Body,
		RelatedEntityType: notification.EntityAnnouncement,
		RelatedEntityID:   id.String(),
	})
	if err != nil {
		return notification.AnnouncementResponse{}, err
	}

	return notification.AnnouncementResponse{ID: id.String(), Recipients: len(recipients)}, nil
}

// PayslipReady implements notification.Service.
func (s *service) PayslipReady(ctx context.Context, req notification.PayslipReadyRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	if _, err := s.employees.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return err
		}
		return fmt.Errorf("failed to get employee: %w", err)
	}

	return s.Notify(ctx, notification.Notice{
		UserID:            req.EmployeeID,
		Kind:              notification.KindPayslipReady,
		Title:             "Payslip ready",
		Description:       fmt.Sprintf("Your payslip for %s is ready", req.Period),
		RelatedEntityType: notification.EntityPayslip,
		RelatedEntityID:   req.PayslipID,
	})
}

// GetNotifications retrieves paginated notifications for a user
func (s *service) GetNotifications(ctx context.Context, req notification.ListNotificationsRequest) (notification.NotificationListResponse, error) {
	page, pageSize := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	notifications, total, err := s.repo.GetByUserID(ctx, req.UserID, page, pageSize, req.UnreadOnly)
	if err != nil {
		return notification.NotificationListResponse{}, fmt.Errorf("failed to list notifications: %w", err)
	}

	unreadCount, err := s.repo.GetUnreadCount(ctx, req.UserID)
	if err != nil {
		return notification.NotificationListResponse{}, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = notification.ToResponse(n)
	}

	return notification.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unreadCount,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

// GetUnreadCount returns the count of unread notifications
func (s *service) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	count, err := s.repo.GetUnreadCount(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkAsRead marks specified notifications as read
func (s *service) MarkAsRead(ctx context.Context, userID string, req notification.MarkAsReadRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := s.repo.MarkAsRead(ctx, req.NotificationIDs, userID); err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return nil
}
