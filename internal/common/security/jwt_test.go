package security

import (
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/golang-jwt/jwt/v5"
)

func TestGenerateTokenRoundtrip(t *testing.T) {
	j := NewJWT([]byte("test-secret"), time.Hour)

	tokenString, err := j.GenerateToken("user-42")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	token, err := jwtauth.VerifyToken(j.Auth, tokenString)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	got, ok := token.Get("user_id")
	if !ok || got != "user-42" {
		t.Errorf("user_id claim = %v, want user-42", got)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewJWT([]byte("secret-a"), time.Hour)
	verifier := NewJWT([]byte("secret-b"), time.Hour)

	tokenString, err := issuer.GenerateToken("user-42")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := jwtauth.VerifyToken(verifier.Auth, tokenString); err == nil {
		t.Error("token signed with a different secret verified")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	j := NewJWT([]byte("test-secret"), -time.Minute)

	tokenString, err := j.GenerateToken("user-42")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := jwtauth.VerifyToken(j.Auth, tokenString); err == nil {
		t.Error("expired token verified")
	}
}

func TestGetUserIDFromClaims(t *testing.T) {
	if id, err := GetUserIDFromClaims(jwt.MapClaims{"user_id": "u1"}); err != nil || id != "u1" {
		t.Errorf("got (%q, %v), want (u1, nil)", id, err)
	}
	if _, err := GetUserIDFromClaims(jwt.MapClaims{}); err == nil {
		t.Error("missing claim accepted")
	}
	if _, err := GetUserIDFromClaims(jwt.MapClaims{"user_id": 7}); err == nil {
		t.Error("non-string claim accepted")
	}
	if _, err := GetUserIDFromClaims(jwt.MapClaims{"user_id": ""}); err == nil {
		t.Error("empty claim accepted")
	}
}
