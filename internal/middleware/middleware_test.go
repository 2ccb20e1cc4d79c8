package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tiw25999/license-plate-system/internal/auth"
	"github.com/tiw25999/license-plate-system/internal/model"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"ok":true}`))
	})
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRequestID_Generated(t *testing.T) {
	var got string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if got == "" {
		t.Fatal("expected request ID in context")
	}
	if rec.Header().Get(RequestIDHeader) != got {
		t.Error("header and context request IDs differ")
	}
}

func TestRequestID_Propagated(t *testing.T) {
	h := RequestID(okHandler())

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "req-abc")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get(RequestIDHeader) != "req-abc" {
		t.Errorf("RequestID = %q, want req-abc", rec.Header().Get(RequestIDHeader))
	}
}

func TestLogger_SetsProcessTime(t *testing.T) {
	h := Logger(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	pt := rec.Header().Get(ProcessTimeHeader)
	if pt == "" {
		t.Fatal("expected X-Process-Time header")
	}
	if !strings.Contains(pt, ".") {
		t.Errorf("X-Process-Time = %q, want fractional seconds", pt)
	}
}

func TestRecoverer(t *testing.T) {
	h := Recoverer(discardLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestCORS_AllowedOrigin(t *testing.T) {
	h := CORS(DefaultCORSConfig([]string{"http://localhost:3000"}))(okHandler())

	req := httptest.NewRequest("GET", "/get_plates", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Header().Get("Access-Control-Allow-Origin") != "http://localhost:3000" {
		t.Errorf("Allow-Origin = %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("expected credentials allowed")
	}
	if !strings.Contains(rec.Header().Get("Access-Control-Expose-Headers"), "X-Process-Time") {
		t.Error("expected X-Process-Time in exposed headers")
	}
}

func TestCORS_DisallowedPreflight(t *testing.T) {
	h := CORS(DefaultCORSConfig([]string{"http://localhost:3000"}))(okHandler())

	req := httptest.NewRequest("OPTIONS", "/get_plates", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("must not reflect disallowed origin")
	}
}

func TestCORS_Preflight(t *testing.T) {
	h := CORS(DefaultCORSConfig([]string{"http://localhost:3000"}))(okHandler())

	req := httptest.NewRequest("OPTIONS", "/add_plate", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if !strings.Contains(rec.Header().Get("Access-Control-Allow-Methods"), "PUT") {
		t.Error("expected PUT in allowed methods")
	}
}

func TestCORS_NoOriginHeader(t *testing.T) {
	h := CORS(DefaultCORSConfig([]string{"http://localhost:3000"}))(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200 for same-origin", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("same-origin requests get no CORS headers")
	}
}

func withAuthContext(r *http.Request, role string) *http.Request {
	ctx := auth.ContextWithAuth(r.Context(), &model.AuthContext{
		UserID:   "u_test",
		Username: "tester",
		Role:     role,
	})
	return r.WithContext(ctx)
}

func TestRequireAdmin_NoAuth(t *testing.T) {
	h := RequireAdmin()(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/auth/users", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdmin_Member(t *testing.T) {
	h := RequireAdmin()(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withAuthContext(httptest.NewRequest("GET", "/auth/users", nil), model.RoleMember))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestRequireAdmin_Admin(t *testing.T) {
	h := RequireAdmin()(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withAuthContext(httptest.NewRequest("GET", "/auth/users", nil), model.RoleAdmin))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestRequireRole_AdminSatisfiesMember(t *testing.T) {
	h := RequireRole(model.RoleMember)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, withAuthContext(httptest.NewRequest("GET", "/search_plates", nil), model.RoleAdmin))

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestSecurity_Headers(t *testing.T) {
	h := Security(SecurityConfig{IsDevelopment: false, MaxRequestBodySize: 1024})(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected nosniff header")
	}
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Error("expected HSTS outside development")
	}
}

func TestSecurity_NoHSTSInDev(t *testing.T) {
	h := Security(SecurityConfig{IsDevelopment: true, MaxRequestBodySize: 1024})(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Header().Get("Strict-Transport-Security") != "" {
		t.Error("HSTS must be off in development")
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	if ip := ClientIP(req); ip != "10.0.0.1:1234" {
		t.Errorf("ClientIP = %q, want RemoteAddr fallback", ip)
	}

	req.Header.Set("X-Real-IP", "203.0.113.7")
	if ip := ClientIP(req); ip != "203.0.113.7" {
		t.Errorf("ClientIP = %q, want X-Real-IP value", ip)
	}

	req.Header.Set("X-Forwarded-For", "198.51.100.9, 10.0.0.1")
	if ip := ClientIP(req); ip != "198.51.100.9" {
		t.Errorf("ClientIP = %q, want first X-Forwarded-For hop", ip)
	}
}
