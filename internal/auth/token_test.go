package auth

import (
	"errors"
	"testing"
	"time"
)

func newTestIssuer() *TokenIssuer {
	return NewTokenIssuer("test-secret", time.Hour, 7*24*time.Hour)
}

func TestTokenIssuer_IssueAndVerifyAccess(t *testing.T) {
	issuer := newTestIssuer()

	token, err := issuer.IssueAccessToken("user-1", "somchai", "member")
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}

	claims, err := issuer.VerifyAccessToken(token)
	if err != nil {
		t.Fatalf("verify access token: %v", err)
	}

	if claims.UserID != "user-1" {
		t.Errorf("expected user_id user-1, got %s", claims.UserID)
	}
	if claims.Username != "somchai" {
		t.Errorf("expected username somchai, got %s", claims.Username)
	}
	if claims.Role != "member" {
		t.Errorf("expected role member, got %s", claims.Role)
	}
	if claims.ID == "" {
		t.Error("expected non-empty jti claim")
	}
}

func TestTokenIssuer_RejectsRefreshAsAccess(t *testing.T) {
	issuer := newTestIssuer()

	refresh, err := issuer.IssueRefreshToken("user-1", "somchai", "member")
	if err != nil {
		t.Fatalf("issue refresh token: %v", err)
	}

	if _, err := issuer.VerifyAccessToken(refresh); !errors.Is(err, ErrWrongTokenType) {
		t.Errorf("expected ErrWrongTokenType, got %v", err)
	}

	if _, err := issuer.VerifyRefreshToken(refresh); err != nil {
		t.Errorf("expected refresh token to verify as refresh, got %v", err)
	}
}

func TestTokenIssuer_RejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute, -time.Minute)

	token, err := issuer.IssueAccessToken("user-1", "somchai", "member")
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}

	if _, err := issuer.VerifyAccessToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenIssuer_RejectsWrongSecret(t *testing.T) {
	token, err := newTestIssuer().IssueAccessToken("user-1", "somchai", "member")
	if err != nil {
		t.Fatalf("issue access token: %v", err)
	}

	other := NewTokenIssuer("other-secret", time.Hour, time.Hour)
	if _, err := other.VerifyAccessToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestTokenIssuer_RejectsGarbage(t *testing.T) {
	issuer := newTestIssuer()

	if _, err := issuer.VerifyAccessToken("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("expected ErrTokenInvalid for garbage input, got %v", err)
	}
}

func TestHashToken(t *testing.T) {
	a := HashToken("token-a")
	b := HashToken("token-b")

	if a == b {
		t.Error("expected different tokens to hash differently")
	}
	if a != HashToken("token-a") {
		t.Error("expected hashing to be deterministic")
	}
	if len(a) != 64 {
		t.Errorf("expected 64 hex chars, got %d", len(a))
	}
}

func TestHashPassword_VerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-password")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	if hash == "s3cret-password" {
		t.Error("hash must not equal the plaintext")
	}

	if !VerifyPassword("s3cret-password", hash) {
		t.Error("expected correct password to verify")
	}

	if VerifyPassword("wrong-password", hash) {
		t.Error("expected wrong password to fail verification")
	}
}

func TestHashPassword_TooLong(t *testing.T) {
	long := make([]byte, MaxPasswordLength+1)
	for i := range long {
		long[i] = 'a'
	}

	if _, err := HashPassword(string(long)); !errors.Is(err, ErrPasswordTooLong) {
		t.Errorf("expected ErrPasswordTooLong, got %v", err)
	}
}
