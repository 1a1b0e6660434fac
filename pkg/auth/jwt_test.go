package auth

import (
	"errors"
	"testing"
	"time"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, 24*time.Hour)

	token, err := m.GenerateToken("u1", "alice", "alice@ngo.org", "approver")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != "u1" || claims.Role != "approver" || claims.TokenType != TokenTypeAccess {
		t.Fatalf("unexpected claims %+v", claims)
	}

	refresh, err := m.GenerateRefreshToken("u1")
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	claims, err = m.ValidateToken(refresh)
	if err != nil {
		t.Fatalf("ValidateToken refresh: %v", err)
	}
	if claims.TokenType != TokenTypeRefresh || claims.Role != "" {
		t.Fatalf("unexpected refresh claims %+v", claims)
	}
}

func TestJWTManager_RejectsForeignAndExpired(t *testing.T) {
	m := NewJWTManager("secret", time.Hour, time.Hour)
	other := NewJWTManager("other", time.Hour, time.Hour)

	token, _ := other.GenerateToken("u1", "alice", "a@b.c", "admin")
	if _, err := m.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign key, got %v", err)
	}

	expired := NewJWTManager("secret", -time.Minute, time.Hour)
	token, _ = expired.GenerateToken("u1", "alice", "a@b.c", "admin")
	if _, err := m.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("s3cret!")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !CheckPasswordHash("s3cret!", hash) {
		t.Fatal("expected password to match")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Fatal("expected mismatch")
	}
}
