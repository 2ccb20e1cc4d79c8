package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tiw25999/license-plate-system/internal/handler/dto"
	"github.com/tiw25999/license-plate-system/internal/model"
)

func TestHello(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	rec := httptest.NewRecorder()

	Hello(rec, req)

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "License Plate API is running" {
		t.Errorf("message = %q", body["message"])
	}
}

func TestNotFoundEnvelope(t *testing.T) {
	req := httptest.NewRequest("GET", "/nope", nil)
	rec := httptest.NewRecorder()

	NotFound(rec, req)

	if rec.Code != 404 {
		t.Errorf("status = %d, want 404", rec.Code)
	}

	var body dto.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Error.Code != "NOT_FOUND" {
		t.Errorf("code = %q, want NOT_FOUND", body.Error.Code)
	}
	if body.Error.Message == "" {
		t.Error("expected non-empty message")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	req := httptest.NewRequest("PATCH", "/add_plate", nil)
	rec := httptest.NewRecorder()

	MethodNotAllowed(rec, req)

	if rec.Code != 405 {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestParseSearchParams(t *testing.T) {
	req := httptest.NewRequest("GET",
		"/search_plates?search_term=กข&start_date=01/06/2025&start_month=6&end_month=7&start_hour=8&limit=100&province=เชียงใหม่", nil)

	params, err := parseSearchParams(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if params.SearchTerm != "กข" {
		t.Errorf("SearchTerm = %q", params.SearchTerm)
	}
	if params.StartDate != "01/06/2025" {
		t.Errorf("StartDate = %q", params.StartDate)
	}
	if params.StartMonth != 6 || params.EndMonth != 7 {
		t.Errorf("months = %d..%d, want 6..7", params.StartMonth, params.EndMonth)
	}
	if params.StartHour != 8 {
		t.Errorf("StartHour = %d, want 8", params.StartHour)
	}
	if params.EndHour != -1 {
		t.Errorf("EndHour = %d, want -1 when absent", params.EndHour)
	}
	if params.Limit != 100 {
		t.Errorf("Limit = %d, want 100", params.Limit)
	}
	if params.Province != "เชียงใหม่" {
		t.Errorf("Province = %q", params.Province)
	}
}

func TestParseSearchParams_BadInt(t *testing.T) {
	req := httptest.NewRequest("GET", "/search_plates?start_month=june", nil)

	if _, err := parseSearchParams(req); err == nil {
		t.Error("expected error for non-integer start_month")
	}
}

type stubChecker struct {
	err error
}

func (s stubChecker) Ping(ctx context.Context) error { return s.err }

func TestHealthz(t *testing.T) {
	h := NewHealthHandler(nil, nil)
	rec := httptest.NewRecorder()

	h.Healthz(rec, httptest.NewRequest("GET", "/healthz", nil))

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestReadyz_AllHealthy(t *testing.T) {
	h := NewHealthHandler(stubChecker{}, stubChecker{})
	rec := httptest.NewRecorder()

	h.Readyz(rec, httptest.NewRequest("GET", "/readyz", nil))

	if rec.Code != 200 {
		t.Errorf("status = %d, want 200", rec.Code)
	}

	var body HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Checks["postgres"] != "ok" || body.Checks["redis"] != "ok" {
		t.Errorf("checks = %v", body.Checks)
	}
}

func TestReadyz_DatabaseDown(t *testing.T) {
	h := NewHealthHandler(stubChecker{err: errors.New("connection refused")}, stubChecker{})
	rec := httptest.NewRecorder()

	h.Readyz(rec, httptest.NewRequest("GET", "/readyz", nil))

	if rec.Code != 503 {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestToPlateListResponse_Empty(t *testing.T) {
	resp := dto.ToPlateListResponse(nil, nil)
	if resp.Count != 0 {
		t.Errorf("Count = %d, want 0", resp.Count)
	}
	if resp.Plates == nil {
		t.Error("Plates should be an empty slice, not nil")
	}
}

func TestToUserListResponse(t *testing.T) {
	users := []*model.User{
		{ID: "u_1", Username: "somchai", Role: model.RoleAdmin, PasswordHash: "secret"},
	}
	resp := dto.ToUserListResponse(users)
	if resp.Count != 1 {
		t.Fatalf("Count = %d, want 1", resp.Count)
	}
	if resp.Users[0].Username != "somchai" {
		t.Errorf("Username = %q", resp.Users[0].Username)
	}

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "secret") {
		t.Error("password hash must never appear in responses")
	}
}
