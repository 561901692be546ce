package fixtures

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-workflow/internal/domain/leave"
)

func intPtr(i int) *int { return &i }

// DefaultLeaveTypes returns the statutory leave catalogue under Indonesian
// labor law. A nil cap means the type is unlimited.
func DefaultLeaveTypes() []leave.CreateLeaveTypeRequest {
	return []leave.CreateLeaveTypeRequest{
		{Name: "Cuti Tahunan", MaxDaysPerYear: intPtr(12)}, // annual, after 12 months of service
		{Name: "Cuti Sakit"},                               // sick, doctor's note past day one
		{Name: "Cuti Menikah", MaxDaysPerYear: intPtr(3)},
		{Name: "Cuti Melahirkan", MaxDaysPerYear: intPtr(90)},
		{Name: "Cuti Ayah", MaxDaysPerYear: intPtr(2)},
		{Name: "Cuti Duka Keluarga Inti", MaxDaysPerYear: intPtr(2)},
		{Name: "Cuti Duka Keluarga Lain", MaxDaysPerYear: intPtr(1)},
		{Name: "Cuti Khitanan/Pembaptisan Anak", MaxDaysPerYear: intPtr(2)},
		{Name: "Cuti Tanpa Gaji"},
	}
}

// SeedLeaveTypes creates the default catalogue when no leave type exists yet.
// It returns the number of types created.
func SeedLeaveTypes(ctx context.Context, svc leave.LeaveTypeService) (int, error) {
	existing, err := svc.ListLeaveTypes(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list leave types: %w", err)
	}
	if len(existing) > 0 {
		return 0, nil
	}

	created := 0
	for _, req := range DefaultLeaveTypes() {
		if _, err := svc.CreateLeaveType(ctx, req); err != nil {
			return created, fmt.Errorf("failed to seed leave type %q: %w", req.Name, err)
		}
		created++
	}

	slog.Info("Seeded default leave types", "count", created)
	return created, nil
}
