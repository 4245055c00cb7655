// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ARRNAV26/Voting-System/auth"
	"github.com/ARRNAV26/Voting-System/cliparse"
	"github.com/ARRNAV26/Voting-System/db"
	"github.com/ARRNAV26/Voting-System/models"
)

// SetupTestDB creates a fresh in-memory sqlite database with the full schema.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn, "sqlite"); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:            8000,
		DatabaseURL:     ":memory:",
		DatabaseType:    "sqlite",
		JWTSecret:       "test-jwt-secret",
		TokenTTLMinutes: 30,
	}
}

// CreateTestUser inserts a user and returns it. The password for every test
// user is "password123".
func CreateTestUser(t *testing.T, conn *sql.DB, username string) models.User {
	t.Helper()

	hashed, err := auth.HashPassword("password123")
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	user := models.User{
		Username:  username,
		Email:     username + "@example.com",
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
	}
	err = conn.QueryRow(`
		INSERT INTO users (username, email, hashed_password, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, user.Username, user.Email, hashed, user.IsActive, user.CreatedAt).Scan(&user.ID)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// TestToken issues a bearer token for the user with the test config secret.
func TestToken(t *testing.T, cfg cliparse.Config, user models.User) string {
	t.Helper()

	token, err := auth.GenerateAccessToken(user.ID, user.Username, cfg.JWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("Failed to issue test token: %v", err)
	}
	return token
}

// CreateTestSuggestion inserts an active suggestion and returns its id.
func CreateTestSuggestion(t *testing.T, conn *sql.DB, authorID int64, title string) int64 {
	t.Helper()

	var id int64
	err := conn.QueryRow(`
		INSERT INTO suggestions (title, description, category, status, author_id, version, created_at)
		VALUES ($1, 'A test suggestion', 'general', 'active', $2, 1, $3)
		RETURNING id
	`, title, authorID, time.Now().UTC()).Scan(&id)
	if err != nil {
		t.Fatalf("Failed to create test suggestion: %v", err)
	}
	return id
}

// CastTestVote inserts a vote row directly.
func CastTestVote(t *testing.T, conn *sql.DB, userID, suggestionID int64, isUpvote bool) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO votes (user_id, suggestion_id, is_upvote, created_at)
		VALUES ($1, $2, $3, $4)
	`, userID, suggestionID, isUpvote, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test vote: %v", err)
	}
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
