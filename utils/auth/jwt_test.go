package auth

import (
	"testing"
	"time"
)

func testManager() *JWTManager {
	return NewJWTManager(JWTConfig{
		Secret:        "test-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 24 * time.Hour,
		Issuer:        "hostel-api-test",
	})
}

func TestGenerateAndValidateAccessToken(t *testing.T) {
	m := testManager()

	token, jti, err := m.GenerateAccessToken(42, "warden@example.com", "warden", 3)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	if jti == "" {
		t.Error("empty JTI")
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "warden@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
	if claims.Role != "warden" {
		t.Errorf("Role = %q", claims.Role)
	}
	if claims.TokenType != "access" {
		t.Errorf("TokenType = %q, want access", claims.TokenType)
	}
	if claims.TokenVersion != 3 {
		t.Errorf("TokenVersion = %d, want 3", claims.TokenVersion)
	}
	if claims.ID != jti {
		t.Errorf("claims.ID = %q, want JTI %q", claims.ID, jti)
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, _, err := testManager().GenerateAccessToken(1, "a@b.c", "admin", 0)
	if err != nil {
		t.Fatal(err)
	}

	other := NewJWTManager(JWTConfig{Secret: "different-secret", Expiry: time.Hour})
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("token signed with another secret accepted")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	m := NewJWTManager(JWTConfig{
		Secret: "test-secret",
		Expiry: -time.Minute,
	})

	token, _, err := m.GenerateAccessToken(1, "a@b.c", "admin", 0)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.ValidateToken(token); err != ErrExpiredToken {
		t.Errorf("ValidateToken on expired token = %v, want ErrExpiredToken", err)
	}
}

func TestRefreshAccessToken(t *testing.T) {
	m := testManager()

	refresh, _, err := m.GenerateRefreshToken(7, "a@b.c", "admin", 1)
	if err != nil {
		t.Fatal(err)
	}

	access, _, err := m.RefreshAccessToken(refresh, 2)
	if err != nil {
		t.Fatalf("RefreshAccessToken failed: %v", err)
	}

	claims, err := m.ValidateToken(access)
	if err != nil {
		t.Fatal(err)
	}
	if claims.TokenType != "access" {
		t.Errorf("refreshed TokenType = %q, want access", claims.TokenType)
	}
	if claims.TokenVersion != 2 {
		t.Errorf("refreshed TokenVersion = %d, want 2", claims.TokenVersion)
	}

	// An access token is not accepted where a refresh token is required
	accessOnly, _, _ := m.GenerateAccessToken(7, "a@b.c", "admin", 1)
	if _, _, err := m.RefreshAccessToken(accessOnly, 1); err == nil {
		t.Error("access token accepted as refresh token")
	}
}

func TestGetTokenExpiry(t *testing.T) {
	m := testManager()

	token, _, err := m.GenerateAccessToken(1, "a@b.c", "admin", 0)
	if err != nil {
		t.Fatal(err)
	}

	expiry, err := m.GetTokenExpiry(token)
	if err != nil {
		t.Fatalf("GetTokenExpiry failed: %v", err)
	}

	until := time.Until(expiry)
	if until < 55*time.Minute || until > 65*time.Minute {
		t.Errorf("expiry %v from now, want about an hour", until)
	}
}
