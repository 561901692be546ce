package memory

import (
	"context"
	"sort"
	"strings"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/leave"
)

type leaveTypeRepository struct {
	*Store
}

func NewLeaveTypeRepository(s *Store) leave.LeaveTypeRepository {
	return &leaveTypeRepository{Store: s}
}

func (r *leaveTypeRepository) Create(ctx context.Context, leaveType leave.LeaveType) (leave.LeaveType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.leaveTypes {
		if strings.EqualFold(existing.Name, leaveType.Name) {
			return leave.LeaveType{}, leave.ErrLeaveTypeNameExists
		}
	}
	r.leaveTypes[leaveType.ID] = leaveType
	return leaveType, nil
}

func (r *leaveTypeRepository) GetByID(ctx context.Context, id string) (leave.LeaveType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.leaveTypes[id]
	if !ok {
		return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
	}
	return t, nil
}

func (r *leaveTypeRepository) List(ctx context.Context) ([]leave.LeaveType, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]leave.LeaveType, 0, len(r.leaveTypes))
	for _, t := range r.leaveTypes {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
