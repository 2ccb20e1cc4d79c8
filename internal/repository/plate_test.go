package repository

import "testing"

func TestSanitizeTimezone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Asia/Bangkok", "Asia/Bangkok"},
		{"UTC", "UTC"},
		{"America/New_York", "America/New_York"},
		{"Etc/GMT+7", "Etc/GMT+7"},
		{"'; DROP TABLE plates; --", "UTC"},
		{"Asia/Bangkok' OR 1=1", "UTC"},
	}

	for _, tt := range tests {
		if got := sanitizeTimezone(tt.in); got != tt.want {
			t.Errorf("sanitizeTimezone(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNullIfEmpty(t *testing.T) {
	if nullIfEmpty("") != nil {
		t.Error("expected nil for empty string")
	}

	got := nullIfEmpty("value")
	if got == nil || *got != "value" {
		t.Errorf("expected pointer to \"value\", got %v", got)
	}
}

func TestDeref(t *testing.T) {
	if deref(nil) != "" {
		t.Error("expected empty string for nil pointer")
	}

	s := "value"
	if deref(&s) != "value" {
		t.Error("expected dereferenced value")
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if isUniqueViolation(nil) {
		t.Error("nil error is not a unique violation")
	}
}
