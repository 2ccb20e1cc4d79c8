package activity

import (
	"strings"
	"testing"
	"time"
)

func validPayload() EventPayload {
	return EventPayload{
		UserID:      "user-1",
		Action:      "login",
		Description: "เข้าสู่ระบบ: somchai",
		IPAddress:   "203.0.113.10",
		UserAgent:   "test-agent",
		OccurredAt:  time.Now().UnixMilli(),
	}
}

func TestValidateEventPayload_Valid(t *testing.T) {
	if err := ValidateEventPayload(validPayload()); err != nil {
		t.Errorf("expected valid payload, got %v", err)
	}
}

func TestValidateEventPayload_MissingFields(t *testing.T) {
	p := validPayload()
	p.UserID = ""
	if err := ValidateEventPayload(p); err == nil {
		t.Error("expected error for missing user_id")
	}

	p = validPayload()
	p.Action = ""
	if err := ValidateEventPayload(p); err == nil {
		t.Error("expected error for missing action")
	}

	p = validPayload()
	p.OccurredAt = 0
	if err := ValidateEventPayload(p); err == nil {
		t.Error("expected error for missing occurred_at")
	}
}

func TestValidateEventPayload_TooLong(t *testing.T) {
	p := validPayload()
	p.Description = strings.Repeat("x", maxDescriptionLength+1)
	if err := ValidateEventPayload(p); err == nil {
		t.Error("expected error for oversized description")
	}

	p = validPayload()
	p.UserAgent = strings.Repeat("x", maxMetaLength+1)
	if err := ValidateEventPayload(p); err == nil {
		t.Error("expected error for oversized user_agent")
	}
}

func TestDeterministicID(t *testing.T) {
	a := deterministicID("1693651200000-0")
	if a != "al_1693651200000_0" {
		t.Errorf("unexpected id: %s", a)
	}

	if a != deterministicID("1693651200000-0") {
		t.Error("expected stable id for the same stream message")
	}

	if deterministicID("") == deterministicID("") {
		t.Error("expected fresh ids for empty stream ids")
	}
}

func TestNewConsumerID(t *testing.T) {
	a := NewConsumerID()
	b := NewConsumerID()

	if a == "" {
		t.Fatal("expected non-empty consumer id")
	}
	if a == b {
		t.Error("expected unique consumer ids")
	}
}

func TestIsConsumerGroupExistsError(t *testing.T) {
	if isConsumerGroupExistsError(nil) {
		t.Error("nil is not a BUSYGROUP error")
	}
}
