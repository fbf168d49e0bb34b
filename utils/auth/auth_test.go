package auth

import (
	"errors"
	"testing"
	"time"
)

func testManager(expiry time.Duration) *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret-do-not-use",
		Expiry:        expiry,
		RefreshExpiry: 2 * expiry,
		Issuer:        "mamosta-api-test",
	})
}

func TestAccessTokenRoundTrip(t *testing.T) {
	m := testManager(time.Hour)

	token, jti, err := m.GenerateAccessToken(7, "admin@mamosta.app", "admin", 3)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if jti == "" {
		t.Fatal("expected non-empty JTI")
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != 7 || claims.Email != "admin@mamosta.app" || claims.Role != "admin" {
		t.Errorf("unexpected claims: %+v", claims)
	}
	if claims.TokenType != "access" {
		t.Errorf("TokenType = %q, want access", claims.TokenType)
	}
	if claims.TokenVersion != 3 {
		t.Errorf("TokenVersion = %d, want 3", claims.TokenVersion)
	}
	if claims.ID != jti {
		t.Errorf("claims.ID = %q, want %q", claims.ID, jti)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	m := testManager(-time.Minute)

	token, _, err := m.GenerateAccessToken(1, "admin@mamosta.app", "admin", 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	_, err = m.ValidateToken(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("ValidateToken err = %v, want ErrExpiredToken", err)
	}
}

func TestTokenFromDifferentSecretRejected(t *testing.T) {
	m := testManager(time.Hour)
	other := NewJWTManager(JWTConfig{Secret: "other-secret", Expiry: time.Hour, Issuer: "x"})

	token, _, err := other.GenerateAccessToken(1, "admin@mamosta.app", "admin", 0)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	if _, err := m.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ValidateToken err = %v, want ErrInvalidToken", err)
	}
}

func TestRefreshAccessToken(t *testing.T) {
	m := testManager(time.Hour)

	refresh, _, err := m.GenerateRefreshToken(9, "admin@mamosta.app", "admin", 1)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}

	access, _, err := m.RefreshAccessToken(refresh, 1)
	if err != nil {
		t.Fatalf("RefreshAccessToken: %v", err)
	}

	claims, err := m.ValidateToken(access)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.TokenType != "access" || claims.UserID != 9 {
		t.Errorf("unexpected claims: %+v", claims)
	}

	// An access token must not be usable as a refresh token
	if _, _, err := m.RefreshAccessToken(access, 1); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("RefreshAccessToken(access) err = %v, want ErrInvalidToken", err)
	}
}

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	if err := VerifyPassword(hash, "correct horse battery"); err != nil {
		t.Errorf("VerifyPassword(correct) = %v, want nil", err)
	}
	if err := VerifyPassword(hash, "wrong password"); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("VerifyPassword(wrong) = %v, want ErrPasswordMismatch", err)
	}
}

func TestShortPasswordRejected(t *testing.T) {
	if _, err := HashPassword("short"); !errors.Is(err, ErrPasswordTooShort) {
		t.Errorf("HashPassword(short) err = %v, want ErrPasswordTooShort", err)
	}
}
