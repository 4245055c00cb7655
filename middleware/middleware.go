// Copyright (c) 2025 ARRNAV26.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/felixge/httpsnoop"

	"github.com/ARRNAV26/Voting-System/auth"
	"github.com/ARRNAV26/Voting-System/models"
)

type contextKey int

const userContextKey contextKey = iota

// WithLogging wraps a handler with request logging
func WithLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		slog.Info("request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"duration_ms", m.Duration.Milliseconds(),
			"remote", r.RemoteAddr,
		)
	}
}

// RequireAuth validates the Authorization bearer token, loads the user, and
// stores it in the request context for the wrapped handler.
func RequireAuth(db *sql.DB, jwtSecret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			w.Header().Set("WWW-Authenticate", "Bearer")
			ErrorResponse(w, http.StatusUnauthorized, "Bearer token required")
			return
		}

		userID, err := auth.ValidateAccessToken(token, jwtSecret)
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		var user models.User
		err = db.QueryRow(`
			SELECT id, username, email, is_active, created_at FROM users WHERE id = $1
		`, userID).Scan(&user.ID, &user.Username, &user.Email, &user.IsActive, &user.CreatedAt)
		if err == sql.ErrNoRows {
			ErrorResponse(w, http.StatusUnauthorized, "Unknown user")
			return
		}
		if err != nil {
			slog.Error("failed to load user for token", "error", err, "user_id", userID)
			ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		if !user.IsActive {
			ErrorResponse(w, http.StatusUnauthorized, "Account disabled")
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), userContextKey, user)))
	}
}

// UserFromContext returns the authenticated user placed by RequireAuth.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(userContextKey).(models.User)
	return user, ok
}

// ContextWithUser returns a context carrying the user, as RequireAuth does.
func ContextWithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// JSONResponse writes a JSON response
func JSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

// ErrorResponse writes a JSON error response
func ErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	JSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}

// ParseJSONBody parses the request body into the given struct
func ParseJSONBody(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return err
	}
	return nil
}

// IsUniqueViolation reports whether err is a unique-constraint failure from
// either supported driver.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || // sqlite
		strings.Contains(msg, "duplicate key value violates unique constraint") // postgres
}

// CORS middleware allows cross-origin requests from the frontend
func CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

var errNoUser = errors.New("no authenticated user in context")

// MustUser returns the context user or writes a 500 and reports failure.
// Handlers registered behind RequireAuth use it instead of re-checking.
func MustUser(w http.ResponseWriter, r *http.Request) (models.User, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		slog.Error("handler reached without auth middleware", "path", r.URL.Path, "error", errNoUser)
		ErrorResponse(w, http.StatusInternalServerError, "Internal error")
		return models.User{}, false
	}
	return user, true
}
