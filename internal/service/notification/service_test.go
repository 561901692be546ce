package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow/internal/domain/notification"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/worktime"
	"github.com/cmlabs-hris/hris-workflow/internal/repository/memory"
)

func newTestService(t *testing.T) (notification.Service, *worktime.StaticClock) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	employees := memory.NewEmployeeRepository(store)
	for _, e := range []employee.Employee{
		{ID: "emp-1", FullName: "Sari Wulandari", Role: employee.RoleEmployee},
		{ID: "emp-2", FullName: "Budi Santoso", Role: employee.RoleEmployee},
		{ID: "hr-1", FullName: "Dewi Lestari", Role: employee.RoleHRAdmin},
	} {
		_, err := employees.Create(ctx, e)
		require.NoError(t, err)
	}

	clock := worktime.NewStaticClock(time.Date(2026, 3, 2, 3, 0, 0, 0, time.UTC))
	engine := worktime.MustEngine("Asia/Jakarta", clock)
	return NewNotificationService(memory.NewNotificationRepository(store), employees, engine), clock
}

func TestNotify_StoresNotice(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	err := svc.Notify(ctx, notification.Notice{
		UserID:            "emp-1",
		Kind:              notification.KindLeaveApproved,
		Title:             "Leave request approved",
		Description:       "Your Annual Leave has been approved",
		RelatedEntityType: notification.EntityLeaveRequest,
		RelatedEntityID:   "req-1",
	})
	require.NoError(t, err)

	list, err := svc.GetNotifications(ctx, notification.ListNotificationsRequest{UserID: "emp-1"})
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	got := list.Notifications[0]
	assert.Equal(t, notification.KindLeaveApproved, got.Kind)
	assert.Equal(t, "req-1", got.RelatedEntityID)
	assert.False(t, got.IsRead)
	assert.Equal(t, 1, list.UnreadCount)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 20, list.PageSize)
}

func TestNotify_RejectsUnknownKindAndMissingRecipient(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	err := svc.Notify(ctx, notification.Notice{UserID: "emp-1", Kind: "birthday"})
	assert.ErrorIs(t, err, notification.ErrInvalidKind)

	err = svc.Notify(ctx, notification.Notice{Kind: notification.KindLeaveApproved})
	assert.ErrorIs(t, err, notification.ErrMissingRecipient)
}

func TestAnnounceToAll_ReachesEveryEmployee(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	resp, err := svc.AnnounceToAll(ctx, notification.AnnouncementRequest{
		Title: "Office closed",
		Body:  "The office is closed on Friday for maintenance",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, resp.Recipients)
	assert.NotEmpty(t, resp.ID)

	for _, id := range []string{"emp-1", "emp-2", "hr-1"} {
		list, err := svc.GetNotifications(ctx, notification.ListNotificationsRequest{UserID: id})
		require.NoError(t, err)
		require.Len(t, list.Notifications, 1, id)
		assert.Equal(t, notification.KindAnnouncementCreated, list.Notifications[0].Kind)
		assert.Equal(t, resp.ID, list.Notifications[0].RelatedEntityID)
	}
}

func TestAnnounceToAll_Validation(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.AnnounceToAll(context.Background(), notification.AnnouncementRequest{Title: " "})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "title")
	assert.Contains(t, verrs.ToMap(), "body")
}

func TestPayslipReady(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	err := svc.PayslipReady(ctx, notification.PayslipReadyRequest{EmployeeID: "emp-2", PayslipID: "slip-9", Period: "2026-02"})
	require.NoError(t, err)

	list, err := svc.GetNotifications(ctx, notification.ListNotificationsRequest{UserID: "emp-2"})
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, notification.KindPayslipReady, list.Notifications[0].Kind)
	assert.Contains(t, list.Notifications[0].Description, "2026-02")

	err = svc.PayslipReady(ctx, notification.PayslipReadyRequest{EmployeeID: "ghost", PayslipID: "slip-1", Period: "2026-02"})
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestMarkAsRead_OnlyOwnNotifications(t *testing.T) {
	ctx := context.Background()
	svc, clock := newTestService(t)

	for _, user := range []string{"emp-1", "emp-1", "emp-2"} {
		require.NoError(t, svc.Notify(ctx, notification.Notice{UserID: user, Kind: notification.KindPayslipReady, Title: "Payslip ready"}))
		clock.Advance(time.Second)
	}

	mine, err := svc.GetNotifications(ctx, notification.ListNotificationsRequest{UserID: "emp-1"})
	require.NoError(t, err)
	require.Len(t, mine.Notifications, 2)
	theirs, err := svc.GetNotifications(ctx, notification.ListNotificationsRequest{UserID: "emp-2"})
	require.NoError(t, err)

	err = svc.MarkAsRead(ctx, "emp-1", notification.MarkAsReadRequest{
		NotificationIDs: []string{mine.Notifications[0].ID, theirs.Notifications[0].ID},
	})
	require.NoError(t, err)

	count, err := svc.GetUnreadCount(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = svc.GetUnreadCount(ctx, "emp-2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	unread, err := svc.GetNotifications(ctx, notification.ListNotificationsRequest{UserID: "emp-1", UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, unread.Notifications, 1)
	assert.Equal(t, mine.Notifications[1].ID, unread.Notifications[0].ID)
}

func TestMarkAsRead_RequiresIDs(t *testing.T) {
	svc, _ := newTestService(t)

	err := svc.MarkAsRead(context.Background(), "emp-1", notification.MarkAsReadRequest{})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestGetNotifications_Pagination(t *testing.T) {
	ctx := context.Background()
	svc, clock := newTestService(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, svc.Notify(ctx, notification.Notice{UserID: "emp-1", Kind: notification.KindPayslipReady, Title: "Payslip ready"}))
		clock.Advance(time.Minute)
	}

	page, err := svc.GetNotifications(ctx, notification.ListNotificationsRequest{UserID: "emp-1", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, page.Notifications, 2)
	assert.Equal(t, 5, page.Total)

	last, err := svc.GetNotifications(ctx, notification.ListNotificationsRequest{UserID: "emp-1", Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, last.Notifications, 1)
}
