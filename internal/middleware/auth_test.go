package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tiw25999/license-plate-system/internal/auth"
	"github.com/tiw25999/license-plate-system/internal/model"
)

func testAuthMiddleware(tokens *auth.TokenIssuer) func(http.Handler) http.Handler {
	return Auth(AuthConfig{Logger: discardLogger(), Tokens: tokens})
}

func TestAuth_MissingToken(t *testing.T) {
	tokens := auth.NewTokenIssuer("test-secret", time.Minute, time.Hour)
	h := testAuthMiddleware(tokens)(okHandler())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/search_plates", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestAuth_ValidToken(t *testing.T) {
	tokens := auth.NewTokenIssuer("test-secret", time.Minute, time.Hour)
	token, err := tokens.IssueAccessToken("u_1", "somchai", model.RoleMember)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	var got *model.AuthContext
	h := testAuthMiddleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = auth.AuthFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/search_plates", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got == nil || got.UserID != "u_1" || got.Role != model.RoleMember {
		t.Errorf("auth context = %+v", got)
	}
}

func TestAuth_RefreshTokenRejected(t *testing.T) {
	tokens := auth.NewTokenIssuer("test-secret", time.Minute, time.Hour)
	token, err := tokens.IssueRefreshToken("u_1", "somchai", model.RoleMember)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	h := testAuthMiddleware(tokens)(okHandler())

	req := httptest.NewRequest("GET", "/search_plates", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401 for refresh token on API route", rec.Code)
	}
}

func TestAuth_ExpiredToken(t *testing.T) {
	tokens := auth.NewTokenIssuer("test-secret", -time.Minute, time.Hour)
	token, err := tokens.IssueAccessToken("u_1", "somchai", model.RoleMember)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	h := testAuthMiddleware(tokens)(okHandler())

	req := httptest.NewRequest("GET", "/search_plates", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "expired") {
		t.Errorf("body = %s, want expired message", rec.Body.String())
	}
}

func TestExtractBearerToken(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	if tok := extractBearerToken(req); tok != "" {
		t.Errorf("got %q, want empty", tok)
	}

	req.Header.Set("Authorization", "Bearer abc123")
	if tok := extractBearerToken(req); tok != "abc123" {
		t.Errorf("got %q, want abc123", tok)
	}

	req.Header.Set("Authorization", "Basic abc123")
	if tok := extractBearerToken(req); tok != "" {
		t.Errorf("got %q, want empty for non-bearer scheme", tok)
	}
}
