// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ARRNAV26/Voting-System/middleware"
	"github.com/ARRNAV26/Voting-System/models"
	"github.com/ARRNAV26/Voting-System/testutil"
)

func TestRegister(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(db, cfg)

	tests := []struct {
		name           string
		requestBody    models.RegisterRequest
		expectedStatus int
	}{
		{
			name: "valid registration",
			requestBody: models.RegisterRequest{
				Username: "alice",
				Email:    "alice@example.com",
				Password: "password123",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name: "username too short",
			requestBody: models.RegisterRequest{
				Username: "a",
				Email:    "a@example.com",
				Password: "password123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "invalid email",
			requestBody: models.RegisterRequest{
				Username: "bob",
				Email:    "not-an-email",
				Password: "password123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "password too short",
			requestBody: models.RegisterRequest{
				Username: "bob",
				Email:    "bob@example.com",
				Password: "short",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate username",
			requestBody: models.RegisterRequest{
				Username: "alice",
				Email:    "other@example.com",
				Password: "password123",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "duplicate email",
			requestBody: models.RegisterRequest{
				Username: "alice2",
				Email:    "alice@example.com",
				Password: "password123",
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/auth/register", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Register(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusCreated {
				var user models.User
				testutil.AssertJSON(t, w, &user)
				if user.ID == 0 {
					t.Error("Expected a user id in the response")
				}
				if user.Username != tt.requestBody.Username {
					t.Errorf("Expected username %q, got %q", tt.requestBody.Username, user.Username)
				}
			}
		})
	}
}

func TestLogin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(db, cfg)
	testutil.CreateTestUser(t, db, "alice")

	tests := []struct {
		name           string
		requestBody    models.LoginRequest
		expectedStatus int
	}{
		{
			name:           "valid credentials",
			requestBody:    models.LoginRequest{Username: "alice", Password: "password123"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wrong password",
			requestBody:    models.LoginRequest{Username: "alice", Password: "wrongpassword"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "unknown user",
			requestBody:    models.LoginRequest{Username: "nobody", Password: "password123"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing password",
			requestBody:    models.LoginRequest{Username: "alice"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("POST", "/auth/login", tt.requestBody, nil)
			w := httptest.NewRecorder()

			handler.Login(w, req)
			testutil.AssertStatus(t, w, tt.expectedStatus)

			if tt.expectedStatus == http.StatusOK {
				var resp models.TokenResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.AccessToken == "" {
					t.Error("Expected an access token")
				}
				if resp.TokenType != "bearer" {
					t.Errorf("Expected token type bearer, got %q", resp.TokenType)
				}
			}
		})
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(db, cfg)

	user := testutil.CreateTestUser(t, db, "alice")
	if _, err := db.Exec(`UPDATE users SET is_active = $1 WHERE id = $2`, false, user.ID); err != nil {
		t.Fatalf("Failed to disable user: %v", err)
	}

	req := testutil.MakeRequest("POST", "/auth/login", models.LoginRequest{
		Username: "alice", Password: "password123",
	}, nil)
	w := httptest.NewRecorder()

	handler.Login(w, req)
	testutil.AssertStatus(t, w, http.StatusUnauthorized)
}

func TestMe(t *testing.T) {
	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewUserHandler(db, cfg)
	user := testutil.CreateTestUser(t, db, "alice")

	req := testutil.MakeRequest("GET", "/auth/me", nil, nil)
	req = req.WithContext(middleware.ContextWithUser(req.Context(), user))
	w := httptest.NewRecorder()

	handler.Me(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var got models.User
	testutil.AssertJSON(t, w, &got)
	if got.ID != user.ID || got.Username != "alice" {
		t.Errorf("Expected user %d/alice, got %d/%s", user.ID, got.ID, got.Username)
	}
}
