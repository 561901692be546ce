package http

import (
	"net/http"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/notification"
	"github.com/cmlabs-hris/hris-workflow/internal/handler/http/middleware"
	"github.com/cmlabs-hris/hris-workflow/internal/handler/http/response"
)

// NotificationHandler defines the notification handler interface
type NotificationHandler interface {
	// Inbox
	List(w http.ResponseWriter, r *http.Request)
	UnreadCount(w http.ResponseWriter, r *http.Request)
	MarkAsRead(w http.ResponseWriter, r *http.Request)

	// HR triggers
	Announce(w http.ResponseWriter, r *http.Request)
	PayslipReady(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	notifService notification.Service
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notifService notification.Service) NotificationHandler {
	return &notificationHandlerImpl{
		notifService: notifService,
	}
}

// List returns paginated notifications for the authenticated employee
func (h *notificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.notifService.GetNotifications(r.Context(), notification.ListNotificationsRequest{
		UserID:     middleware.EmployeeID(r),
		Page:       getIntQueryParam(r, "page", 1),
		PageSize:   getIntQueryParam(r, "page_size", 20),
		UnreadOnly: getBoolQueryParam(r, "unread", false),
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	totalPages := (result.Total + result.PageSize - 1) / result.PageSize
	response.SuccessWithMeta(w, result, &response.Meta{
		Page:       result.Page,
		Limit:      result.PageSize,
		TotalItems: int64(result.Total),
		TotalPages: totalPages,
	})
}

// UnreadCount returns the count of unread notifications
func (h *notificationHandlerImpl) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.notifService.GetUnreadCount(r.Context(), middleware.EmployeeID(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, notification.UnreadCountResponse{UnreadCount: count})
}

// MarkAsRead marks specified notifications as read
func (h *notificationHandlerImpl) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	var req notification.MarkAsReadRequest
	if !decodeJSON(w, r, &req, "MarkAsRead") {
		return
	}

	if err := h.notifService.MarkAsRead(r.Context(), middleware.EmployeeID(r), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notifications marked as read", nil)
}

// Announce sends an announcement to every employee
func (h *notificationHandlerImpl) Announce(w http.ResponseWriter, r *http.Request) {
	var req notification.AnnouncementRequest
	if !decodeJSON(w, r, &req, "Announce") {
		return
	}

	result, err := h.notifService.AnnounceToAll(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Announcement published", result)
}

// PayslipReady tells one employee that a payslip is available
func (h *notificationHandlerImpl) PayslipReady(w http.ResponseWriter, r *http.Request) {
	var req notification.PayslipReadyRequest
	if !decodeJSON(w, r, &req, "PayslipReady") {
		return
	}

	if err := h.notifService.PayslipReady(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Payslip notification sent", nil)
}
