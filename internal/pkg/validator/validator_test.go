package validator

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		got := IsEmpty(c.input)
		if got != c.want {
			t.Errorf("IsEmpty(%q) = %v, want %v", c.input, got, c.want)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"2023-01-01", "2000-12-31", "2024-02-29"}
	invalid := []string{"2023-13-01", "2023-01-32", "2023/01/01", "01-01-2023", "2023-02-29", ""}
	for _, s := range valid {
		_, ok := IsValidDate(s)
		if !ok {
			t.Errorf("IsValidDate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		_, ok := IsValidDate(s)
		if ok {
			t.Errorf("IsValidDate(%q) = true, want false", s)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"full", "half"}
	if !IsInSlice("full", slice) {
		t.Errorf("IsInSlice('full') = false, want true")
	}
	if IsInSlice("quarter", slice) {
		t.Errorf("IsInSlice('quarter') = true, want false")
	}
}

func TestIsHour(t *testing.T) {
	for _, h := range []int{0, 9, 18, 23} {
		if !IsHour(h) {
			t.Errorf("IsHour(%d) = false, want true", h)
		}
	}
	for _, h := range []int{-1, 24, 100} {
		if IsHour(h) {
			t.Errorf("IsHour(%d) = true, want false", h)
		}
	}
}

func TestIsPositive(t *testing.T) {
	if !IsPositive(decimal.RequireFromString("0.5")) {
		t.Errorf("IsPositive(0.5) = false, want true")
	}
	if IsPositive(decimal.Zero) {
		t.Errorf("IsPositive(0) = true, want false")
	}
	if IsPositive(decimal.NewFromInt(-2)) {
		t.Errorf("IsPositive(-2) = true, want false")
	}
}

func TestFitsNumeric(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"0.5", true},
		{"12", true},
		{"9999.99", true},
		{"0.125", false},
		{"10000", false},
		{"-9999.99", true},
	}
	for _, tt := range tests {
		if got := FitsNumeric(decimal.RequireFromString(tt.value), 6, 2); got != tt.want {
			t.Errorf("FitsNumeric(%s, 6, 2) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "start_date", Message: "invalid"},
		{Field: "reason", Message: "required"},
	}
	got := errs.Error()
	want := "start_date: invalid; reason: required"
	if got != want {
		t.Errorf("ValidationErrors.Error() = %q, want %q", got, want)
	}
}

func TestValidationErrors_ToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "start_date", Message: "invalid"},
		{Field: "reason", Message: "required"},
	}
	got := errs.ToMap()
	want := map[string]string{"start_date": "invalid", "reason": "required"}
	if len(got) != len(want) {
		t.Errorf("ValidationErrors.ToMap() length = %d, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("ValidationErrors.ToMap()[%q] = %q, want %q", k, got[k], v)
		}
	}
}

func TestValidationErrors_AddAndErr(t *testing.T) {
	var errs ValidationErrors
	if errs.Err() != nil {
		t.Errorf("empty ValidationErrors.Err() = %v, want nil", errs.Err())
	}
	errs.Add("day_type", "must be one of: full, half")
	if errs.Err() == nil {
		t.Errorf("ValidationErrors.Err() = nil after Add, want error")
	}
	if len(errs) != 1 || errs[0].Field != "day_type" {
		t.Errorf("ValidationErrors after Add = %+v", errs)
	}
}
