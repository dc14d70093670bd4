package utils

import (
	"testing"
	"time"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", "round-trip-secret")

	token, err := GenerateAccessToken(7, "user")
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	_, claims, err := ValidateAccessToken(token)
	if err != nil {
		t.Fatalf("validation failed: %v", err)
	}
	if id, _ := claims["id"].(float64); uint(id) != 7 {
		t.Fatalf("expected id 7 in claims, got %v", claims["id"])
	}
	if role, _ := claims["role"].(string); role != "user" {
		t.Fatalf("expected role user, got %v", claims["role"])
	}
	if jti, _ := claims["jti"].(string); jti == "" {
		t.Fatal("expected a non-empty jti")
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "round-trip-secret")

	token, err := GenerateAccessTokenWithExpiry(7, "user", -time.Minute)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	if _, _, err := ValidateAccessToken(token); err == nil {
		t.Fatal("expired token must not validate")
	}
}

func TestRevokeJTIWithoutStore(t *testing.T) {
	if RedisClient != nil {
		t.Skip("redis configured in this environment")
	}
	if err := RevokeJTI("some-jti", time.Minute); err == nil {
		t.Fatal("revocation without a store must fail")
	}
	if err := RevokeJTI("", time.Minute); err == nil {
		t.Fatal("empty jti must fail")
	}
}
