package leave

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/worktime"
)

type LeaveTypeServiceImpl struct {
	leave.LeaveTypeRepository
	engine *worktime.Engine
}

func NewLeaveTypeService(leaveTypeRepository leave.LeaveTypeRepository, engine *worktime.Engine) leave.LeaveTypeService {
	return &LeaveTypeServiceImpl{
		LeaveTypeRepository: leaveTypeRepository,
		engine:              engine,
	}
}

// CreateLeaveType implements leave.LeaveTypeService.
func (l *LeaveTypeServiceImpl) CreateLeaveType(ctx context.Context, req leave.CreateLeaveTypeRequest) (leave.LeaveTypeResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveTypeResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to generate leave type id: %w", err)
	}

	now := l.engine.NowUTC()
	created, err := l.LeaveTypeRepository.Create(ctx, leave.LeaveType{
		ID:             id.String(),
		Name:           strings.TrimSpace(req.Name),
		MaxDaysPerYear: req.MaxDaysPerYear,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeNameExists) {
			return leave.LeaveTypeResponse{}, err
		}
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to create leave type: %w", err)
	}

	return leave.ToLeaveTypeResponse(created), nil
}

// GetLeaveType implements leave.LeaveTypeService.
func (l *LeaveTypeServiceImpl) GetLeaveType(ctx context.Context, id string) (leave.LeaveTypeResponse, error) {
	leaveType, err := l.LeaveTypeRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveTypeNotFound) {
			return leave.LeaveTypeResponse{}, err
		}
		return leave.LeaveTypeResponse{}, fmt.Errorf("failed to get leave type: %w", err)
	}
	return leave.ToLeaveTypeResponse(leaveType), nil
}

// ListLeaveTypes implements leave.LeaveTypeService.
func (l *LeaveTypeServiceImpl) ListLeaveTypes(ctx context.Context) ([]leave.LeaveTypeResponse, error) {
	types, err := l.LeaveTypeRepository.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}

	responses := make([]leave.LeaveTypeResponse, 0, len(types))
	for _, t := range types {
		responses = append(responses, leave.ToLeaveTypeResponse(t))
	}
	return responses, nil
}
