package validator

import (
	"testing"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
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

func TestIsValidPin(t *testing.T) {
	valid := []string{"1234", "12345", "123456", "0000"}
	invalid := []string{"123", "1234567", "12a4", "12 34", "", "    "}
	for _, pin := range valid {
		if !IsValidPin(pin) {
			t.Errorf("IsValidPin(%q) = false, want true", pin)
		}
	}
	for _, pin := range invalid {
		if IsValidPin(pin) {
			t.Errorf("IsValidPin(%q) = true, want false", pin)
		}
	}
}

func TestIsValidUUID(t *testing.T) {
	valid := []string{
		"0b6c9df8-2e4f-4f0b-9a3e-6d1c2b7e8f90",
		"0B6C9DF8-2E4F-4F0B-9A3E-6D1C2B7E8F90",
	}
	invalid := []string{
		"",
		"not-a-uuid",
		"0b6c9df82e4f4f0b9a3e6d1c2b7e8f90",           // missing dashes
		"0b6c9df8-2e4f-7f0b-9a3e-6d1c2b7e8f90",       // wrong version
		"0b6c9df8-2e4f-4f0b-9a3e-6d1c2b7e8f90-extra", // trailing garbage
	}
	for _, id := range valid {
		if !IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = false, want true", id)
		}
	}
	for _, id := range invalid {
		if IsValidUUID(id) {
			t.Errorf("IsValidUUID(%q) = true, want false", id)
		}
	}
}

func TestIsValidDate(t *testing.T) {
	if _, ok := IsValidDate("2026-03-15"); !ok {
		t.Error("IsValidDate(2026-03-15) = false, want true")
	}
	invalid := []string{"15-03-2026", "2026/03/15", "2026-13-01", "2026-03-15T09:00:00Z", ""}
	for _, d := range invalid {
		if _, ok := IsValidDate(d); ok {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestIsValidDateTime(t *testing.T) {
	valid := []string{
		"2026-03-15T09:00:00Z",
		"2026-03-15T09:00:00+08:00",
		"2026-03-15T09:00:00.123456Z",
	}
	invalid := []string{"2026-03-15", "2026-03-15 09:00:00", "yesterday", ""}
	for _, d := range valid {
		if _, ok := IsValidDateTime(d); !ok {
			t.Errorf("IsValidDateTime(%q) = false, want true", d)
		}
	}
	for _, d := range invalid {
		if _, ok := IsValidDateTime(d); ok {
			t.Errorf("IsValidDateTime(%q) = true, want false", d)
		}
	}
}

func TestIsInSlice(t *testing.T) {
	slice := []string{"pending", "approved", "rejected"}
	if !IsInSlice("approved", slice) {
		t.Error("IsInSlice(approved) = false, want true")
	}
	if IsInSlice("draft", slice) {
		t.Error("IsInSlice(draft) = true, want false")
	}
	if IsInSlice("pending", nil) {
		t.Error("IsInSlice on nil slice = true, want false")
	}
}

func TestValidationErrorsToMap(t *testing.T) {
	errs := ValidationErrors{
		{Field: "employee_id", Message: "is required"},
		{Field: "pin", Message: "must be 4 to 6 digits"},
	}
	m := errs.ToMap()
	if len(m) != 2 {
		t.Fatalf("ToMap() returned %d entries, want 2", len(m))
	}
	if m["employee_id"] != "is required" {
		t.Errorf("ToMap()[employee_id] = %q", m["employee_id"])
	}
	if errs.Error() == "" {
		t.Error("Error() returned empty string")
	}
}
