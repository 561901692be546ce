package notification

import (
	"time"

	"github.com/cmlabs-hris/hris-workflow/internal/pkg/validator"
)

// ============= Request DTOs =============

// MarkAsReadRequest represents a request to mark notifications as read
type MarkAsReadRequest struct {
	NotificationIDs []string `json:"notification_ids"`
}

func (r *MarkAsReadRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.NotificationIDs) == 0 {
		errs.Add("notification_ids", "notification_ids must contain at least one id")
	}
	for _, id := range r.NotificationIDs {
		if validator.IsEmpty(id) {
			errs.Add("notification_ids", "notification_ids must not contain empty ids")
			break
		}
	}

	return errs.Err()
}

// ListNotificationsRequest represents a request to list notifications
type ListNotificationsRequest struct {
	UserID     string
	Page       int
	PageSize   int
	UnreadOnly bool
}

// AnnouncementRequest publishes an announcement to every employee
type AnnouncementRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

func (r *AnnouncementRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs.Add("title", "title is required")
	}
	if len(r.Title) > 255 {
		errs.Add("title", "title must not exceed 255 characters")
	}
	if validator.IsEmpty(r.Body) {
		errs.Add("body", "body is required")
	}

	return errs.Err()
}

// PayslipReadyRequest tells one employee their payslip can be viewed
type PayslipReadyRequest struct {
	EmployeeID string `json:"employee_id"`
	PayslipID  string `json:"payslip_id"`
	Period     string `json:"period"` // e.g. 2026-03
}

func (r *PayslipReadyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(r.PayslipID) {
		errs.Add("payslip_id", "payslip_id is required")
	}
	if validator.IsEmpty(r.Period) {
		errs.Add("period", "period is required")
	}

	return errs.Err()
}

// ============= Response DTOs =============

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID                string     `json:"id"`
	Kind              Kind       `json:"kind"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	RelatedEntityType string     `json:"related_entity_type,omitempty"`
	RelatedEntityID   string     `json:"related_entity_id,omitempty"`
	IsRead            bool       `json:"is_read"`
	ReadAt            *time.Time `json:"read_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func ToResponse(n Notification) NotificationResponse {
	return NotificationResponse{
		ID:                n.ID,
		Kind:              n.Kind,
		Title:             n.Title,
		Description:       n.Description,
		RelatedEntityType: n.RelatedEntityType,
		RelatedEntityID:   n.RelatedEntityID,
		IsRead:            n.IsRead,
		ReadAt:            n.ReadAt,
		CreatedAt:         n.CreatedAt,
	}
}

// NotificationListResponse represents a paginated list of notifications
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
	UnreadCount   int                    `json:"unread_count"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}

// UnreadCountResponse represents unread count response
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

type AnnouncementResponse struct {
	ID         string `json:"id"`
	Recipients int    `json:"recipients"`
}
