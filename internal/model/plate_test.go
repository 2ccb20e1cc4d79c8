package model

import (
	"testing"
	"time"
)

func TestPlate_DisplayTimestamp(t *testing.T) {
	bangkok, err := time.LoadLocation("Asia/Bangkok")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 2025-12-25 07:30:00 UTC is 14:30:00 in Bangkok (UTC+7).
	p := &Plate{
		PlateNumber: "1กข1234",
		CapturedAt:  time.Date(2025, 12, 25, 7, 30, 0, 0, time.UTC),
	}

	got := p.DisplayTimestamp(bangkok)
	if got != "25/12/2025 14:30:00" {
		t.Errorf("expected 25/12/2025 14:30:00, got %s", got)
	}
}

func TestPlate_DisplayTimestamp_NilLocation(t *testing.T) {
	p := &Plate{CapturedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)}

	got := p.DisplayTimestamp(nil)
	if got != "02/01/2025 03:04:05" {
		t.Errorf("expected UTC fallback, got %s", got)
	}
}

func TestPlate_ToResponse(t *testing.T) {
	p := &Plate{
		PlateNumber: "ABC123",
		Province:    "Bangkok",
		CameraID:    "cam-01",
		CameraName:  "Gate A",
		CapturedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	resp := p.ToResponse(time.UTC)
	if resp.PlateNumber != "ABC123" {
		t.Errorf("unexpected plate number: %s", resp.PlateNumber)
	}
	if resp.Timestamp != "01/06/2025 12:00:00" {
		t.Errorf("unexpected timestamp: %s", resp.Timestamp)
	}
	if resp.Province != "Bangkok" || resp.CameraID != "cam-01" || resp.CameraName != "Gate A" {
		t.Errorf("camera fields not carried over: %+v", resp)
	}
}

func TestRoleIsValid(t *testing.T) {
	if !RoleIsValid(RoleMember) || !RoleIsValid(RoleAdmin) {
		t.Error("expected member and admin to be valid roles")
	}
	if RoleIsValid("superuser") {
		t.Error("expected unknown role to be invalid")
	}
}

func TestSession_IsActive(t *testing.T) {
	now := time.Now()

	s := &Session{ExpiresAt: now.Add(time.Hour)}
	if !s.IsActive(now) {
		t.Error("expected unrevoked unexpired session to be active")
	}

	revoked := now
	s.RevokedAt = &revoked
	if s.IsActive(now) {
		t.Error("expected revoked session to be inactive")
	}

	s = &Session{ExpiresAt: now.Add(-time.Minute)}
	if s.IsActive(now) {
		t.Error("expected expired session to be inactive")
	}
}
