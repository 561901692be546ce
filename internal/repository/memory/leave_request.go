package memory

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/leave"
)

type leaveRequestRepository struct {
	*Store
}

func NewLeaveRequestRepository(s *Store) leave.LeaveRequestRepository {
	return &leaveRequestRepository{Store: s}
}

func (r *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.requests[request.ID] = request
	return request, nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	req, ok := r.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (r *leaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string) ([]leave.LeaveRequest, error) {
	return r.filter(func(req leave.LeaveRequest) bool { return req.EmployeeID == employeeID }), nil
}

func (r *leaveRequestRepository) List(ctx context.Context, status *leave.RequestStatus) ([]leave.LeaveRequest, error) {
	return r.filter(func(req leave.LeaveRequest) bool { return status == nil || req.Status == *status }), nil
}

// LockEmployee is a no-op: Store.WithinTx already serialises units of work.
func (r *leaveRequestRepository) LockEmployee(ctx context.Context, employeeID string) error {
	return nil
}

func (r *leaveRequestRepository) FindActive(ctx context.Context, employeeID string, today time.Time) (*leave.LeaveRequest, error) {
	active := r.filter(func(req leave.LeaveRequest) bool {
		return req.EmployeeID == employeeID &&
			(req.Status == leave.StatusPending || req.Status == leave.StatusApproved) &&
			!req.EndDate.Before(today)
	})
	if len(active) == 0 {
		return nil, nil
	}
	return &active[0], nil
}

func (r *leaveRequestRepository) Transition(ctx context.Context, t leave.StatusTransition) (leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	req, ok := r.requests[t.RequestID]
	if !ok || req.Status != t.From {
		return leave.LeaveRequest{}, leave.ErrInvalidTransition
	}
	if t.OwnerID != nil && req.EmployeeID != *t.OwnerID {
		return leave.LeaveRequest{}, leave.ErrInvalidTransition
	}

	req.Status = t.To
	req.ApprovedBy = t.ApprovedBy
	req.ApprovedAt = t.ApprovedAt
	req.RejectionReason = t.RejectionReason
	req.UpdatedAt = t.UpdatedAt
	r.requests[req.ID] = req
	return req, nil
}

// filter returns matches newest first.
func (r *leaveRequestRepository) filter(match func(leave.LeaveRequest) bool) []leave.LeaveRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []leave.LeaveRequest
	for _, req := range r.requests {
		if match(req) {
			out = append(out, req)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
