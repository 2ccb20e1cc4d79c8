package cache

import "testing"

func TestHashIP(t *testing.T) {
	a := hashIP("203.0.113.10")
	b := hashIP("203.0.113.11")

	if a == b {
		t.Error("expected different IPs to hash differently")
	}

	if a != hashIP("203.0.113.10") {
		t.Error("expected hashing to be deterministic")
	}

	if len(a) != 16 {
		t.Errorf("expected 16 hex chars, got %d", len(a))
	}
}

func TestRateLimitResult_ZeroValue(t *testing.T) {
	var result RateLimitResult
	if result.Allowed {
		t.Error("zero value should not be allowed")
	}
	if result.RetryAfter != 0 {
		t.Error("zero value should have no retry delay")
	}
}
