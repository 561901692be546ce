// Package memory holds in-process repositories used by tests and by the
// "memory" database driver.
package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-workflow/internal/domain/employee"
	"github.com/cmlabs-hris/hris-workflow/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow/internal/domain/notification"
)

// Store is the shared state behind every memory repository.
type Store struct {
	mu sync.RWMutex
	tx sync.Mutex

	employees     map[string]employee.Employee
	attendances   map[string]attendance.Attendance
	leaveTypes    map[string]leave.LeaveType
	balances      map[string]leave.LeaveBalance
	requests      map[string]leave.LeaveRequest
	notifications []notification.Notification
}

func NewStore() *Store {
	return &Store{
		employees:   make(map[string]employee.Employee),
		attendances: make(map[string]attendance.Attendance),
		leaveTypes:  make(map[string]leave.LeaveType),
		balances:    make(map[string]leave.LeaveBalance),
		requests:    make(map[string]leave.LeaveRequest),
	}
}

// WithinTx serialises units of work. Writes are applied immediately, so a
// failing fn does not undo what it already wrote.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	s.tx.Lock()
	defer s.tx.Unlock()
	return fn(ctx)
}
