package leave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow/internal/domain/notification"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/worktime"
	"github.com/cmlabs-hris/hris-workflow/internal/repository/memory"
	notificationService "github.com/cmlabs-hris/hris-workflow/internal/service/notification"
)

const (
	employeeID = "emp-1"
	hrID       = "hr-1"
)

// switchableNotifier fails every call while failing is set.
type switchableNotifier struct {
	mu      sync.Mutex
	next    notification.Notifier
	failing bool
}

func (n *switchableNotifier) Notify(ctx context.Context, notice notification.Notice) error {
	n.mu.Lock()
	failing := n.failing
	n.mu.Unlock()
	if failing {
		return errors.New("notification store unavailable")
	}
	return n.next.Notify(ctx, notice)
}

func (n *switchableNotifier) setFailing(v bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failing = v
}

// steppingClock moves the wrapped clock forward by step after every read
// once step is set.
type steppingClock struct {
	*worktime.StaticClock
	mu   sync.Mutex
	step time.Duration
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.StaticClock.Now()
	if c.step > 0 {
		c.StaticClock.Advance(c.step)
	}
	return now
}

func (c *steppingClock) setStep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step = d
}

type workflow struct {
	clock         *worktime.StaticClock
	stepper       *steppingClock
	requests      *RequestService
	balances      *BalanceServiceImpl
	types         leave.LeaveTypeService
	notifications notification.Service
	notifier      *switchableNotifier
	annualID      string
	sickID        string
}

func newWorkflow(t *testing.T) workflow {
	t.Helper()
	ctx := context.Background()

	clock := worktime.NewStaticClock(time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC)) // 09:00 in Jakarta
	stepper := &steppingClock{StaticClock: clock}
	engine := worktime.MustEngine("Asia/Jakarta", stepper)

	store := memory.NewStore()
	employees := memory.NewEmployeeRepository(store)
	for _, e := range []employee.Employee{
		{ID: employeeID, FullName: "Sari Wulandari", Role: employee.RoleEmployee},
		{ID: "emp-2", FullName: "Budi Santoso", Role: employee.RoleEmployee},
		{ID: hrID, FullName: "Dewi Lestari", Role: employee.RoleHRAdmin},
		{ID: "hr-2", FullName: "Agus Pratama", Role: employee.RoleHRAdmin},
	} {
		_, err := employees.Create(ctx, e)
		require.NoError(t, err)
	}

	leaveTypes := memory.NewLeaveTypeRepository(store)
	types := NewLeaveTypeService(leaveTypes, engine)
	maxDays := 12
	annual, err := types.CreateLeaveType(ctx, leave.CreateLeaveTypeRequest{Name: "Annual Leave", MaxDaysPerYear: &maxDays})
	require.NoError(t, err)
	sick, err := types.CreateLeaveType(ctx, leave.CreateLeaveTypeRequest{Name: "Sick Leave"})
	require.NoError(t, err)

	notifications := notificationService.NewNotificationService(memory.NewNotificationRepository(store), employees, engine)
	notifier := &switchableNotifier{next: notifications}

	balances := NewBalanceService(leaveTypes, memory.NewLeaveBalanceRepository(store), engine)
	requests := NewRequestService(store, leaveTypes, memory.NewLeaveRequestRepository(store), employees, balances, notifier, engine)

	return workflow{
		clock:         clock,
		stepper:       stepper,
		requests:      requests,
		balances:      balances,
		types:         types,
		notifications: notifications,
		notifier:      notifier,
		annualID:      annual.ID,
		sickID:        sick.ID,
	}
}

func (w workflow) submit(t *testing.T, empID, start, end, days string) (leave.Outcome, error) {
	t.Helper()
	return w.requests.Submit(context.Background(), leave.SubmitLeaveRequest{
		EmployeeID:  empID,
		LeaveTypeID: w.annualID,
		StartDate:   start,
		EndDate:     end,
		DayType:     leave.DayTypeFull,
		TotalDays:   decimal.RequireFromString(days),
		Reason:      "Family trip",
	})
}

func (w workflow) allocate(t *testing.T, empID string, allocated int64) {
	t.Helper()
	_, err := w.balances.SetAllocation(context.Background(), leave.SetAllocationRequest{
		EmployeeID:  empID,
		LeaveTypeID: w.annualID,
		Year:        2026,
		Allocated:   decimal.NewFromInt(allocated),
	})
	require.NoError(t, err)
}

func (w workflow) inbox(t *testing.T, userID string) []notification.NotificationResponse {
	t.Helper()
	list, err := w.notifications.GetNotifications(context.Background(), notification.ListNotificationsRequest{UserID: userID})
	require.NoError(t, err)
	return list.Notifications
}

func TestScenario_SubmitApproveUpdatesBalanceAndNotifies(t *testing.T) {
	ctx := context.Background()
	w := newWorkflow(t)
	w.allocate(t, employeeID, 10)

	submitted, err := w.submit(t, employeeID, "2026-03-10", "2026-03-11", "2")
	require.NoError(t, err)
	assert.Empty(t, submitted.Warnings)
	assert.Equal(t, leave.StatusPending, submitted.Request.Status)

	before, err := w.balances.GetBalance(ctx, employeeID, w.annualID, 2026)
	require.NoError(t, err)
	assert.True(t, before.Used.IsZero(), "submission must not touch the balance")

	approved, err := w.requests.Approve(ctx, submitted.Request.ID, hrID)
	require.NoError(t, err)
	assert.Empty(t, approved.Warnings)
	assert.Equal(t, leave.StatusApproved, approved.Request.Status)
	require.NotNil(t, approved.Request.ApprovedBy)
	assert.Equal(t, hrID, *approved.Request.ApprovedBy)
	require.NotNil(t, approved.Request.ApprovedAt)
	assert.Equal(t, w.clock.Now(), *approved.Request.ApprovedAt)

	balance, err := w.balances.GetBalance(ctx, employeeID, w.annualID, 2026)
	require.NoError(t, err)
	assert.Equal(t, "10", balance.Allocated.String())
	assert.Equal(t, "2", balance.Used.String())
	assert.Equal(t, "8", balance.Remaining.String())

	inbox := w.inbox(t, employeeID)
	require.Len(t, inbox, 1)
	assert.Equal(t, notification.KindLeaveApproved, inbox[0].Kind)
	assert.Equal(t, submitted.Request.ID, inbox[0].RelatedEntityID)
}

func TestSubmit_NotifiesEveryHRAdmin(t *testing.T) {
	w := newWorkflow(t)

	out, err := w.submit(t, employeeID, "2026-03-10", "2026-03-10", "1")
	require.NoError(t, err)

	for _, admin := range []string{hrID, "hr-2"} {
		inbox := w.inbox(t, admin)
		require.Len(t, inbox, 1, admin)
		assert.Equal(t, notification.KindLeaveSubmitted, inbox[0].Kind)
		assert.Equal(t, out.Request.ID, inbox[0].RelatedEntityID)
		assert.Contains(t, inbox[0].Description, "Sari Wulandari")
	}
	assert.Empty(t, w.inbox(t, employeeID))
}

func TestSubmit_ActiveRequestBlocksNewSubmission(t *testing.T) {
	w := newWorkflow(t)

	first, err := w.submit(t, employeeID, "2026-03-10", "2026-03-11", "2")
	require.NoError(t, err)

	_, err = w.submit(t, employeeID, "2026-04-01", "2026-04-01", "1")
	require.ErrorIs(t, err, leave.ErrActiveRequestExists)

	var active *leave.ActiveRequestError
	require.ErrorAs(t, err, &active)
	assert.Equal(t, first.Request.ID, active.RequestID)
	assert.Equal(t, leave.StatusPending, active.Status)

	// Another employee is unaffected.
	_, err = w.submit(t, "emp-2", "2026-03-10", "2026-03-11", "2")
	assert.NoError(t, err)
}

func TestSubmit_ApprovedRequestStillActiveUntilItEnds(t *testing.T) {
	ctx := context.Background()
	w := newWorkflow(t)
	w.allocate(t, employeeID, 10)

	first, err := w.submit(t, employeeID, "2026-03-10", "2026-03-11", "2")
	require.NoError(t, err)
	_, err = w.requests.Approve(ctx, first.Request.ID, hrID)
	require.NoError(t, err)

	_, err = w.submit(t, employeeID, "2026-05-01", "2026-05-01", "1")
	assert.ErrorIs(t, err, leave.ErrActiveRequestExists)

	// 2026-03-11 still counts as active on its last day.
	w.clock.Set(time.Date(2026, 3, 11, 16, 0, 0, 0, time.UTC)) // 23:00 in Jakarta
	_, err = w.submit(t, employeeID, "2026-05-01", "2026-05-01", "1")
	assert.ErrorIs(t, err, leave.ErrActiveRequestExists)

	w.clock.Set(time.Date(2026, 3, 11, 17, 0, 0, 0, time.UTC)) // 00:00 on the 12th in Jakarta
	_, err = w.submit(t, employeeID, "2026-05-01", "2026-05-01", "1")
	assert.NoError(t, err)
}

func TestSubmit_StalePendingRequestDoesNotBlock(t *testing.T) {
	w := newWorkflow(t)

	_, err := w.submit(t, employeeID, "2026-03-03", "2026-03-04", "2")
	require.NoError(t, err)

	w.clock.Set(time.Date(2026, 3, 20, 2, 0, 0, 0, time.UTC))
	_, err = w.submit(t, employeeID, "2026-03-25", "2026-03-25", "1")
	assert.NoError(t, err)
}

func TestSubmit_ResolvedRequestsDoNotBlock(t *testing.T) {
	ctx := context.Background()
	w := newWorkflow(t)

	first, err := w.submit(t, employeeID, "2026-03-10", "2026-03-11", "2")
	require.NoError(t, err)
	_, err = w.requests.Cancel(ctx, first.Request.ID, employeeID)
	require.NoError(t, err)

	second, err := w.submit(t, employeeID, "2026-03-10", "2026-03-11", "2")
	require.NoError(t, err)
	_, err = w.requests.Reject(ctx, leave.RejectLeaveRequest{RequestID: second.Request.ID, ApproverID: hrID, Reason: "Team offsite"})
	require.NoError(t, err)

	_, err = w.submit(t, employeeID, "2026-03-12", "2026-03-12", "1")
	assert.NoError(t, err)
}

func TestSubmit_ConcurrentSubmissionsOnlyOneSucceeds(t *testing.T) {
	w := newWorkflow(t)

	const callers = 12
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := w.submit(t, employeeID, "2026-03-10", "2026-03-11", "2")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, leave.ErrActiveRequestExists)
	}
	assert.Equal(t, 1, succeeded)
}

func TestSubmit_DateRangeAndValidation(t *testing.T) {
	w := newWorkflow(t)

	_, err := w.submit(t, employeeID, "2026-03-12", "2026-03-10", "1")
	assert.ErrorIs(t, err, leave.ErrInvalidDateRange)

	_, err = w.requests.Submit(context.Background(), leave.SubmitLeaveRequest{
		EmployeeID:  employeeID,
		LeaveTypeID: w.annualID,
		StartDate:   "10/03/2026",
		EndDate:     "2026-03-10",
		DayType:     "quarter",
		TotalDays:   decimal.Zero,
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := verrs.ToMap()
	assert.Contains(t, fields, "start_date")
	assert.Contains(t, fields, "day_type")
	assert.Contains(t, fields, "total_days")

	for _, days := range []string{"0.125", "10000"} {
		_, err = w.submit(t, employeeID, "2026-03-10", "2026-03-11", days)
		require.ErrorAs(t, err, &verrs, days)
		assert.Contains(t, verrs.ToMap(), "total_days", days)
	}
}

func TestSubmit_UnknownLeaveTypeAndEmployee(t *testing.T) {
	ctx := context.Background()
	w := newWorkflow(t)

	_, err := w.requests.Submit(ctx, leave.SubmitLeaveRequest{
		EmployeeID: employeeID, LeaveTypeID: "missing", StartDate: "2026-03-10", EndDate: "2026-03-10",
		DayType: leave.DayTypeHalf, TotalDays: decimal.RequireFromString("0.5"),
	})
	assert.ErrorIs(t, err, leave.ErrLeaveTypeNotFound)

	_, err = w.submit(t, "ghost", "2026-03-10", "2026-03-10", "1")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestApprove_TwiceFailsAndKeepsBalance(t *testing.T) {
	ctx := context.Background()
	w := newWorkflow(t)
	w.allocate(t, employeeID, 10)

	out, err := w.submit(t, employeeID, "2026-03-10", "2026-03-12", "3")
	require.NoError(t, err)

	_, err = w.requests.Approve(ctx, out.Request.ID, hrID)
	require.NoError(t, err)

	_, err = w.requests.Approve(ctx, out.Request.ID, hrID)
	assert.ErrorIs(t, err, leave.ErrInvalidTransition)

	balance, err := w.balances.GetBalance(ctx, employeeID, w.annualID, 2026)
	require.NoError(t, err)
	assert.Equal(t, "3", balance.Used.String())
	assert.Equal(t, "7", balance.Remaining.String())
}

func TestApprove_ConcurrentApprovalsApplyOnce(t *testing.T) {
	ctx := context.Background()
	w := newWorkflow(t)
	w.allocate(t, employeeID, 10)

	out, err := w.submit(t, employeeID, "2026-03-10", "2026-03-11", "2")
	require.NoError(t, err)

	const callers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := w.requests.Approve(ctx, out.Request.ID, hrID); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, succeeded)

	balance, err := w.balances.GetBalance(ctx, employeeID, w.annualID, 2026)
	require.NoError(t, err)
	assert.Equal(t, "2", balance.Used.String())
}

func TestApprove_MissingBalanceRowIsAWarning(t *testing.T) {
	ctx := context.Background()
	w := newWorkflow(t)

	out, err := w.submit(t, employeeID, "2026-03-10", "2026-03-11", "2")
	require.NoError(t, err)

	approved, err := w.requests.Approve(ctx, out.Request.ID, hrID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, approved.Request.Status)
	require.Len(t, approved.Warnings, 1)
	assert.Equal(t, leave.SideEffectBalance, approved.Warnings[0].SideEffect)
	assert.ErrorIs(t, approved.Warnings[0].Err, leave.ErrBalanceNotFound)

	stored, err := w.requests.GetRequest(ctx, out.Request.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, stored.Status)
}

func TestApprove_ChargesYearOfApprovalInstant(t *testing.T) {
	ctx := context.Background()
	w := newWorkflow(t)
	w.clock.Set(time.Date(2026, 12, 31, 16, 59, 30, 0, time.UTC)) // 23:59:30 in Jakarta
	w.allocate(t, employeeID, 10)
	_, err := w.balances.SetAllocation(ctx, leave.SetAllocationRequest{
		EmployeeID:  employeeID,
		LeaveTypeID: w.annualID,
		Year:        2027,
		Allocated:   decimal.NewFromInt(12),
	})
	require.NoError(t, err)

	out, err := w.submit(t, employeeID, "2027-01-04", "2027-01-05", "2")
	require.NoError(t, err)

	// Any later clock read lands in 2027.
	w.stepper.setStep(time.Minute)
	approved, err := w.requests.Approve(ctx, out.Request.ID, hrID)
	require.NoError(t, err)
	assert.Empty(t, approved.Warnings)
	require.NotNil(t, approved.Request.ApprovedAt)
	assert.Equal(t, 2026, approved.Request.ApprovedAt.Year())

	charged, err := w.balances.GetBalance(ctx, employeeID, w.annualID, 2026)
	require.NoError(t, err)
	assert.Equal(t, "2", charged.Used.String())

	untouched, err := w.balances.GetBalance(ctx, employeeID, w.annualID, 2027)
	require.NoError(t, err)
	assert.True(t, untouched.Used.IsZero())
}

func TestApprove_NotifierFailureIsAWarning(t *testing.T) {
	ctx := context.Background()
	w := newWorkflow(t)
	w.allocate(t, employeeID, 10)

	out, err := w.submit(t, employeeID, "2026-03-10", "2026-03-11", "2")
	require.NoError(t, err)

	w.notifier.setFailing(true)
	approved, err := w.requests.Approve(ctx, out.Request.ID, hrID)
	require.NoError(t, err)
	require.Len(t, approved.Warnings, 1)
	assert.Equal(t, leave.SideEffectNotification, approved.Warnings[0].SideEffect)

	balance, err := w.balances.GetBalance(ctx, employeeID, w.annualID, 2026)
	require.NoError(t, err)
	assert.Equal(t, "2", balance.Used.String())
}

func TestSubmit_NotifierFailureIsAWarning(t *testing.T) {
	w := newWorkflow(t)
	w.notifier.setFailing(true)

	out, err := w.submit(t, employeeID, "2026-03-10", "2026-03-11", "2")
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, out.Request.Status)
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, leave.SideEffectNotification, out.Warnings[0].SideEffect)
}

func TestApprove_UnknownRequest(t *testing.T) {
	w := newWorkflow(t)

	_, err := w.requests.Approve(context.Background(), "missing", hrID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestReject_BlankReasonKeepsRequestPending(t *testing.T) {
	ctx := context.Background()
	w := newWorkflow(t)

	out, err := w.submit(t, employeeID, "2026-03-10", "2026-03-11", "2")
	require.NoError(t, err)

	for _, reason := range []string{"", "   ", "\t\n"} {
		_, err = w.requests.Reject(ctx, leave.RejectLeaveRequest{RequestID: out.Request.ID, ApproverID: hrID, Reason: reason})
		assert.ErrorIs(t, err, leave.ErrMissingReason, "reason %q", reason)
	}

	stored, err := w.requests.GetRequest(ctx, out.Request.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, stored.Status)
	assert.Nil(t, stored.RejectionReason)
}

func TestReject_RecordsReasonAndNotifies(t *testing.T) {
	ctx := context.Background()
	w := newWorkflow(t)
	w.allocate(t, employeeID, 10)

	out, err := w.submit(t, employeeID, "2026-03-10", "2026-03-11", "2")
	require.NoError(t, err)

	rejected, err := w.requests.Reject(ctx, leave.RejectLeaveRequest{RequestID: out.Request.ID, ApproverID: hrID, Reason: "  Quarter-end close  "})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, rejected.Request.Status)
	require.NotNil(t, rejected.Request.RejectionReason)
	assert.Equal(t, "Quarter-end close", *rejected.Request.RejectionReason)
	require.NotNil(t, rejected.Request.ApprovedBy)
	require.NotNil(t, rejected.Request.ApprovedAt)

	inbox := w.inbox(t, employeeID)
	require.Len(t, inbox, 1)
	assert.Equal(t, notification.KindLeaveRejected, inbox[0].Kind)
	assert.Contains(t, inbox[0].Description, "Quarter-end close")

	_, err = w.requests.Approve(ctx, out.Request.ID, hrID)
	assert.ErrorIs(t, err, leave.ErrInvalidTransition)

	balance, err := w.balances.GetBalance(ctx, employeeID, w.annualID, 2026)
	require.NoError(t, err)
	assert.True(t, balance.Used.IsZero())
}

func TestCancel(t *testing.T) {
	ctx := context.Background()
	w := newWorkflow(t)

	out, err := w.submit(t, employeeID, "2026-03-10", "2026-03-11", "2")
	require.NoError(t, err)

	_, err = w.requests.Cancel(ctx, out.Request.ID, "emp-2")
	assert.ErrorIs(t, err, leave.ErrInvalidTransition, "only the owner may cancel")

	cancelled, err := w.requests.Cancel(ctx, out.Request.ID, employeeID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelled, cancelled.Request.Status)

	_, err = w.requests.Cancel(ctx, out.Request.ID, employeeID)
	assert.ErrorIs(t, err, leave.ErrInvalidTransition)

	_, err = w.requests.Approve(ctx, out.Request.ID, hrID)
	assert.ErrorIs(t, err, leave.ErrInvalidTransition)

	_, err = w.requests.Cancel(ctx, "missing", employeeID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestCancel_ApprovedRequestCannotBeCancelled(t *testing.T) {
	ctx := context.Background()
	w := newWorkflow(t)

	out, err := w.submit(t, employeeID, "2026-03-10", "2026-03-11", "2")
	require.NoError(t, err)
	_, err = w.requests.Approve(ctx, out.Request.ID, hrID)
	require.NoError(t, err)

	_, err = w.requests.Cancel(ctx, out.Request.ID, employeeID)
	assert.ErrorIs(t, err, leave.ErrInvalidTransition)
}

func TestListRequests(t *testing.T) {
	ctx := context.Background()
	w := newWorkflow(t)

	a, err := w.submit(t, employeeID, "2026-03-10", "2026-03-11", "2")
	require.NoError(t, err)
	w.clock.Advance(time.Minute)
	b, err := w.submit(t, "emp-2", "2026-03-10", "2026-03-11", "2")
	require.NoError(t, err)
	_, err = w.requests.Approve(ctx, b.Request.ID, hrID)
	require.NoError(t, err)

	all, err := w.requests.ListRequests(ctx, leave.LeaveRequestFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, b.Request.ID, all[0].ID)

	pending := string(leave.StatusPending)
	onlyPending, err := w.requests.ListRequests(ctx, leave.LeaveRequestFilter{Status: &pending})
	require.NoError(t, err)
	require.Len(t, onlyPending, 1)
	assert.Equal(t, a.Request.ID, onlyPending[0].ID)

	bogus := "archived"
	_, err = w.requests.ListRequests(ctx, leave.LeaveRequestFilter{Status: &bogus})
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)

	mine, err := w.requests.ListMyRequests(ctx, employeeID)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, a.Request.ID, mine[0].ID)
}
