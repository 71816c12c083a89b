package utils

import (
	"testing"
	"time"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	token, err := GenerateJWT("user-1", "admin", "secret", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateJWT(token, "secret")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.UserID != "user-1" || claims.Role != "admin" {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestValidateJWTRejectsWrongSecret(t *testing.T) {
	token, err := GenerateJWT("user-1", "user", "secret", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ValidateJWT(token, "other"); err == nil {
		t.Fatal("token signed with another secret was accepted")
	}
}

func TestValidateJWTRejectsExpired(t *testing.T) {
	token, err := GenerateJWT("user-1", "user", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ValidateJWT(token, "secret"); err == nil {
		t.Fatal("expired token was accepted")
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	if got := ExtractTokenFromHeader("Bearer abc"); got != "abc" {
		t.Fatalf("got %q", got)
	}
	for _, h := range []string{"", "abc", "Basic abc", "Bearer"} {
		if got := ExtractTokenFromHeader(h); got != "" {
			t.Fatalf("%q -> %q", h, got)
		}
	}
}
