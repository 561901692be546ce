package fixtures

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/leave"
	"github.com/cmlabs-hris/hris-workflow/internal/pkg/worktime"
	"github.com/cmlabs-hris/hris-workflow/internal/repository/memory"
	leaveService "github.com/cmlabs-hris/hris-workflow/internal/service/leave"
)

func newLeaveTypeService() leave.LeaveTypeService {
	engine := worktime.MustEngine("Asia/Jakarta", worktime.NewStaticClock(time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC)))
	return leaveService.NewLeaveTypeService(memory.NewLeaveTypeRepository(memory.NewStore()), engine)
}

func TestDefaultLeaveTypes_AreValid(t *testing.T) {
	seen := map[string]bool{}
	for _, req := range DefaultLeaveTypes() {
		assert.NoError(t, req.Validate(), req.Name)
		assert.False(t, seen[req.Name], "duplicate %s", req.Name)
		seen[req.Name] = true
	}
}

func TestSeedLeaveTypes_OnlyIntoEmptyCatalogue(t *testing.T) {
	ctx := context.Background()
	svc := newLeaveTypeService()

	created, err := SeedLeaveTypes(ctx, svc)
	require.NoError(t, err)
	assert.Equal(t, len(DefaultLeaveTypes()), created)

	created, err = SeedLeaveTypes(ctx, svc)
	require.NoError(t, err)
	assert.Zero(t, created)

	types, err := svc.ListLeaveTypes(ctx)
	require.NoError(t, err)
	assert.Len(t, types, len(DefaultLeaveTypes()))
}

func TestSeedLeaveTypes_SkipsCustomCatalogue(t *testing.T) {
	ctx := context.Background()
	svc := newLeaveTypeService()
	_, err := svc.CreateLeaveType(ctx, leave.CreateLeaveTypeRequest{Name: "Annual Leave"})
	require.NoError(t, err)

	created, err := SeedLeaveTypes(ctx, svc)
	require.NoError(t, err)
	assert.Zero(t, created)
}
