// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"errors"
	"testing"
	"time"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "password123" {
		t.Error("Expected hash to differ from plaintext")
	}

	if !CheckPassword(hash, "password123") {
		t.Error("Expected correct password to verify")
	}
	if CheckPassword(hash, "wrongpassword") {
		t.Error("Expected wrong password to fail")
	}
}

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "alice", "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	userID, err := ValidateAccessToken(token, "secret")
	if err != nil {
		t.Fatalf("ValidateAccessToken failed: %v", err)
	}
	if userID != 42 {
		t.Errorf("Expected user id 42, got %d", userID)
	}
}

func TestValidateAccessTokenRejections(t *testing.T) {
	valid, err := GenerateAccessToken(42, "alice", "secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}
	expired, err := GenerateAccessToken(42, "alice", "secret", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateAccessToken failed: %v", err)
	}

	tests := []struct {
		name   string
		token  string
		secret string
	}{
		{name: "wrong secret", token: valid, secret: "other-secret"},
		{name: "expired token", token: expired, secret: "secret"},
		{name: "garbage token", token: "not.a.jwt", secret: "secret"},
		{name: "empty token", token: "", secret: "secret"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateAccessToken(tt.token, tt.secret)
			if !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Expected ErrInvalidToken, got %v", err)
			}
		})
	}
}
