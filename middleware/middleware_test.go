// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ARRNAV26/Voting-System/auth"
	"github.com/ARRNAV26/Voting-System/models"
	"github.com/ARRNAV26/Voting-System/testutil"
)

func TestRequireAuth(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	user := testutil.CreateTestUser(t, db, "alice")
	token := testutil.TestToken(t, cfg, user)

	var gotUser models.User
	handler := RequireAuth(db, cfg.JWTSecret, func(w http.ResponseWriter, r *http.Request) {
		gotUser, _ = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name           string
		header         string
		expectedStatus int
	}{
		{name: "valid token", header: "Bearer " + token, expectedStatus: http.StatusOK},
		{name: "missing header", header: "", expectedStatus: http.StatusUnauthorized},
		{name: "not a bearer", header: "Basic abc123", expectedStatus: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer not-a-jwt", expectedStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/auth/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			handler(w, req)

			if w.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d. Body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedStatus == http.StatusOK && gotUser.ID != user.ID {
				t.Errorf("Expected user %d in context, got %d", user.ID, gotUser.ID)
			}
		})
	}
}

func TestRequireAuthDisabledAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	user := testutil.CreateTestUser(t, db, "alice")
	token := testutil.TestToken(t, cfg, user)

	if _, err := db.Exec(`UPDATE users SET is_active = $1 WHERE id = $2`, false, user.ID); err != nil {
		t.Fatalf("Failed to disable user: %v", err)
	}

	handler := RequireAuth(db, cfg.JWTSecret, func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not run for a disabled account")
	})

	req := httptest.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	handler(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}

func TestRequireAuthUnknownUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()

	orphan, err := auth.GenerateAccessToken(9999, "ghost", cfg.JWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue token: %v", err)
	}

	handler := RequireAuth(db, cfg.JWTSecret, func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not run for an unknown user")
	})

	req := httptest.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+orphan)
	w := httptest.NewRecorder()

	handler(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "sqlite message", err: errors.New("UNIQUE constraint failed: users.username"), expected: true},
		{name: "postgres message", err: errors.New(`pq: duplicate key value violates unique constraint "users_username_key"`), expected: true},
		{name: "unrelated error", err: errors.New("connection refused"), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("preflight short-circuits", func(t *testing.T) {
		req := httptest.NewRequest("OPTIONS", "/suggestions", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 for preflight, got %d", w.Code)
		}
		if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
			t.Errorf("Expected origin echoed, got %q", got)
		}
	})

	t.Run("headers on normal requests", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/suggestions", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if got := w.Header().Get("Access-Control-Allow-Methods"); got == "" {
			t.Error("Expected allow-methods header")
		}
	})
}

func TestJSONResponse(t *testing.T) {
	w := httptest.NewRecorder()
	JSONResponse(w, http.StatusCreated, map[string]string{"hello": "world"})

	if w.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}
}
